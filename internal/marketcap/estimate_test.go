package marketcap

import (
	"math"
	"testing"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name  string
		count *float64
		price *float64
		want  *float64
	}{
		{"shares times price", ptr(15.6e9), ptr(200), ptr(3.12e12)},
		{"zero price is a degenerate reference", ptr(1000), ptr(0), ptr(0)},
		{"nil count", nil, ptr(191.03), nil},
		{"nil price", ptr(15.6e9), nil, nil},
		{"zero count", ptr(0), ptr(191.03), nil},
		{"negative count", ptr(-10), ptr(191.03), nil},
		{"negative price", ptr(10), ptr(-1), nil},
		{"NaN count", ptr(math.NaN()), ptr(1), nil},
		{"infinite price", ptr(10), ptr(math.Inf(1)), nil},
		{"overflowing product", ptr(1e200), ptr(1e200), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.count, tt.price)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Estimate() = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("Estimate() = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("Estimate() = %v, want %v", *got, *tt.want)
			}
		})
	}
}
