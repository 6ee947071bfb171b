package marketcap

import (
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestScale_Multiplier(t *testing.T) {
	want := map[Scale]float64{
		ScaleNone:      0,
		ScaleUnits:     1,
		ScaleThousands: 1e3,
		ScaleMillions:  1e6,
		ScaleBillions:  1e9,
		ScaleTrillions: 1e12,
	}
	for s, m := range want {
		if got := s.Multiplier(); got != m {
			t.Errorf("%v.Multiplier() = %v, want %v", s, got, m)
		}
	}
}

func TestParseScale(t *testing.T) {
	for _, s := range Candidates {
		got, err := ParseScale(strings.ToUpper(s.String()))
		if err != nil {
			t.Fatalf("ParseScale(%q) error: %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseScale(%q) = %v, want %v", s.String(), got, s)
		}
	}

	if _, err := ParseScale("gazillions"); err == nil {
		t.Error("ParseScale(gazillions) expected error")
	}
}

func TestThresholds_YAML(t *testing.T) {
	doc := `
accept_decades: 0.3
buckets:
  - name: raw
    floor: 1000000
    scale: units
  - name: rest
    floor: 0
    scale: millions
`
	var th Thresholds
	if err := yaml.Unmarshal([]byte(doc), &th); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if th.AcceptDecades != 0.3 {
		t.Errorf("AcceptDecades = %v, want 0.3", th.AcceptDecades)
	}
	if len(th.Buckets) != 2 {
		t.Fatalf("len(Buckets) = %d, want 2", len(th.Buckets))
	}
	if th.Buckets[1].Scale != ScaleMillions {
		t.Errorf("Buckets[1].Scale = %v, want millions", th.Buckets[1].Scale)
	}
	if err := th.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		th      Thresholds
		wantErr string
	}{
		{
			name: "defaults",
			th:   DefaultThresholds(),
		},
		{
			name:    "non-positive window",
			th:      Thresholds{AcceptDecades: 0, Buckets: DefaultBuckets()},
			wantErr: "accept_decades must be a finite number > 0, got 0",
		},
		{
			name:    "NaN window",
			th:      Thresholds{AcceptDecades: math.NaN(), Buckets: DefaultBuckets()},
			wantErr: "accept_decades must be a finite number > 0, got NaN",
		},
		{
			name:    "infinite window",
			th:      Thresholds{AcceptDecades: math.Inf(1), Buckets: DefaultBuckets()},
			wantErr: "accept_decades must be a finite number > 0, got +Inf",
		},
		{
			name: "NaN floor",
			th: Thresholds{AcceptDecades: 0.5, Buckets: []Bucket{
				{Floor: math.NaN(), Scale: ScaleUnits},
				{Floor: 0, Scale: ScaleMillions},
			}},
			wantErr: "buckets[0].floor must be a finite number >= 0, got NaN",
		},
		{
			name: "infinite floor",
			th: Thresholds{AcceptDecades: 0.5, Buckets: []Bucket{
				{Floor: math.Inf(1), Scale: ScaleUnits},
				{Floor: 0, Scale: ScaleMillions},
			}},
			wantErr: "buckets[0].floor must be a finite number >= 0, got +Inf",
		},
		{
			name:    "no buckets",
			th:      Thresholds{AcceptDecades: 0.5},
			wantErr: "buckets must not be empty",
		},
		{
			name: "missing scale",
			th: Thresholds{AcceptDecades: 0.5, Buckets: []Bucket{
				{Name: "x", Floor: 0},
			}},
			wantErr: "buckets[0].scale is required",
		},
		{
			name: "unordered floors",
			th: Thresholds{AcceptDecades: 0.5, Buckets: []Bucket{
				{Floor: 1, Scale: ScaleBillions},
				{Floor: 1000, Scale: ScaleUnits},
				{Floor: 0, Scale: ScaleMillions},
			}},
			wantErr: "buckets[1].floor (1000) exceeds previous floor (1)",
		},
		{
			name: "gap below last floor",
			th: Thresholds{AcceptDecades: 0.5, Buckets: []Bucket{
				{Floor: 1, Scale: ScaleBillions},
			}},
			wantErr: "last bucket floor must be 0 to cover all magnitudes, got 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.th.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestThresholds_NaNWindowYAML(t *testing.T) {
	var th Thresholds
	doc := "accept_decades: .nan\nbuckets:\n  - {name: rest, floor: 0, scale: millions}\n"
	if err := yaml.Unmarshal([]byte(doc), &th); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if err := th.Validate(); err == nil {
		t.Error("Validate() accepted accept_decades: .nan")
	}
}
