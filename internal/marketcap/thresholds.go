package marketcap

import (
	"errors"
	"fmt"
	"math"
)

// Default acceptance window: reference and scaled figure must agree within
// half a decade (a factor of about 3.16).
const DefaultAcceptDecades = 0.5

// Bucket maps reported magnitudes above Floor to Scale. With Inclusive set
// the floor itself also matches.
type Bucket struct {
	Name      string  `yaml:"name"`
	Floor     float64 `yaml:"floor"`
	Inclusive bool    `yaml:"inclusive"`
	Scale     Scale   `yaml:"scale"`
}

func (b Bucket) matches(magnitude float64) bool {
	if b.Inclusive {
		return magnitude >= b.Floor
	}
	return magnitude > b.Floor
}

// Thresholds holds the tunable constants of the resolver. The defaults
// were picked empirically against one provider's conventions.
type Thresholds struct {
	AcceptDecades float64  `yaml:"accept_decades"`
	Buckets       []Bucket `yaml:"buckets"`
}

// DefaultBuckets returns the heuristic buckets used when no reference is
// available, ordered from largest floor to smallest.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Name: "raw", Floor: 1_000_000, Scale: ScaleUnits},
		{Name: "large-billions", Floor: 1_000, Inclusive: true, Scale: ScaleBillions},
		{Name: "billions", Floor: 1, Scale: ScaleBillions},
		{Name: "millions", Floor: 0, Scale: ScaleMillions},
	}
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AcceptDecades: DefaultAcceptDecades,
		Buckets:       DefaultBuckets(),
	}
}

// Validate checks that the acceptance window is positive and that the
// buckets are ordered and cover every positive magnitude.
func (t Thresholds) Validate() error {
	if !isFinite(t.AcceptDecades) || t.AcceptDecades <= 0 {
		return fmt.Errorf("accept_decades must be a finite number > 0, got %v", t.AcceptDecades)
	}
	if len(t.Buckets) == 0 {
		return errors.New("buckets must not be empty")
	}
	for i, b := range t.Buckets {
		if b.Scale == ScaleNone || b.Scale.Multiplier() == 0 {
			return fmt.Errorf("buckets[%d].scale is required", i)
		}
		if !isFinite(b.Floor) || b.Floor < 0 {
			return fmt.Errorf("buckets[%d].floor must be a finite number >= 0, got %v", i, b.Floor)
		}
		if i > 0 && b.Floor > t.Buckets[i-1].Floor {
			return fmt.Errorf("buckets[%d].floor (%v) exceeds previous floor (%v)", i, b.Floor, t.Buckets[i-1].Floor)
		}
	}
	if last := t.Buckets[len(t.Buckets)-1]; last.Floor != 0 {
		return fmt.Errorf("last bucket floor must be 0 to cover all magnitudes, got %v", last.Floor)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
