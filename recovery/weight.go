package recovery

import (
	"fmt"
	"strings"
)

// Weight selects how the cells around a point are weighted when a cell-wise
// constant quantity is averaged to the point
type Weight uint8

const (
	Simple  Weight = iota // every incident cell counts once
	Area                  // cells weighted by their area
	InvArea               // cells weighted by the inverse of their area
)

var weightNames = []string{"simple", "area", "inv_area"}

func (w Weight) String() string {
	if int(w) < len(weightNames) {
		return weightNames[w]
	}
	return fmt.Sprintf("Weight(%d)", uint8(w))
}

func (w Weight) Valid() bool { return int(w) < len(weightNames) }

func ParseWeight(s string) (Weight, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range weightNames {
		if s == name {
			return Weight(i), nil
		}
	}
	return 0, fmt.Errorf("unknown recovery weight %q", s)
}

func (w Weight) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("unknown recovery weight %d", uint8(w))
	}
	return []byte(w.String()), nil
}

func (w *Weight) UnmarshalText(text []byte) (err error) {
	*w, err = ParseWeight(string(text))
	return
}

// cellWeight returns the averaging weight of a cell with the given area
func (w Weight) cellWeight(area float64) float64 {
	switch w {
	case Area:
		return area
	case InvArea:
		return 1 / area
	default:
		return 1
	}
}
