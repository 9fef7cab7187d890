// Package marking selects the cells to refine from an error indicator
package marking

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Strategy names a marking rule
type Strategy uint8

const (
	// Bulk is Dörfler marking, see Mark
	Bulk Strategy = iota
	// Maximum marks cells with η_T ≥ θ·max η
	Maximum
	// Uniform marks every cell
	Uniform
)

var strategyNames = []string{"bulk", "maximum", "uniform"}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

func (s Strategy) Valid() bool { return int(s) < len(strategyNames) }

func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range strategyNames {
		if name == n {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown marking strategy %q", name)
}

func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown marking strategy %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) (err error) {
	*s, err = ParseStrategy(string(text))
	return
}

// MarkWith applies the given strategy. The result is sorted ascending.
func MarkWith(strategy Strategy, eta []float64, theta float64) ([]int, error) {
	switch strategy {
	case Bulk:
		return Mark(eta, theta), nil
	case Maximum:
		return markMaximum(eta, theta), nil
	case Uniform:
		all := make([]int, len(eta))
		for k := range all {
			all[k] = k
		}
		return all, nil
	default:
		return nil, fmt.Errorf("unknown marking strategy %d", uint8(strategy))
	}
}

// positive reports whether an indicator value carries mass
func positive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }

// Mark returns the smallest set of cells, taken by decreasing indicator with
// ties broken by cell index, whose indicator sum reaches θ times the total.
// θ ≤ 0 marks nothing, θ ≥ 1 marks every cell with a non-zero indicator.
// Zero, negative and non-finite entries never count.
func Mark(eta []float64, theta float64) []int {
	if !(theta > 0) {
		return nil
	}
	var (
		total float64
		order = make([]int, 0, len(eta))
	)
	for k, v := range eta {
		if positive(v) {
			total += v
			order = append(order, k)
		}
	}
	if len(order) == 0 {
		return nil
	}
	if theta >= 1 {
		return order
	}
	sort.SliceStable(order, func(i, j int) bool {
		return eta[order[i]] > eta[order[j]]
	})
	var (
		target = theta * total
		sum    float64
		n      int
	)
	for n < len(order) && sum < target {
		sum += eta[order[n]]
		n++
	}
	marked := order[:n]
	sort.Ints(marked)
	return marked
}

func markMaximum(eta []float64, theta float64) (marked []int) {
	if !(theta > 0) {
		return nil
	}
	var mx float64
	for _, v := range eta {
		if positive(v) && v > mx {
			mx = v
		}
	}
	if mx == 0 {
		return nil
	}
	threshold := math.Min(theta, 1) * mx
	for k, v := range eta {
		if positive(v) && v >= threshold {
			marked = append(marked, k)
		}
	}
	return
}
