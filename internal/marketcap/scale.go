package marketcap

import (
	"fmt"
	"strings"
)

// Scale is the unit a reported figure is assumed to be expressed in.
type Scale int

const (
	ScaleNone Scale = iota // no scale chosen
	ScaleUnits
	ScaleThousands
	ScaleMillions
	ScaleBillions
	ScaleTrillions
)

// Candidates is the ordered set of scales the resolver tries.
var Candidates = []Scale{
	ScaleUnits,
	ScaleThousands,
	ScaleMillions,
	ScaleBillions,
	ScaleTrillions,
}

var scaleNames = map[Scale]string{
	ScaleNone:      "none",
	ScaleUnits:     "units",
	ScaleThousands: "thousands",
	ScaleMillions:  "millions",
	ScaleBillions:  "billions",
	ScaleTrillions: "trillions",
}

// Multiplier returns the factor converting a scaled figure to raw units.
// ScaleNone returns 0.
func (s Scale) Multiplier() float64 {
	switch s {
	case ScaleUnits:
		return 1
	case ScaleThousands:
		return 1e3
	case ScaleMillions:
		return 1e6
	case ScaleBillions:
		return 1e9
	case ScaleTrillions:
		return 1e12
	}
	return 0
}

func (s Scale) String() string {
	if name, ok := scaleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Scale) MarshalText() ([]byte, error) {
	if _, ok := scaleNames[s]; !ok {
		return nil, fmt.Errorf("unknown scale %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so scales can be named
// in YAML configuration.
func (s *Scale) UnmarshalText(text []byte) error {
	parsed, err := ParseScale(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScale parses a scale name ("units", "thousands", "millions",
// "billions", "trillions").
func ParseScale(name string) (Scale, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range scaleNames {
		if n == name {
			return s, nil
		}
	}
	return ScaleNone, fmt.Errorf("unknown scale %q", name)
}
