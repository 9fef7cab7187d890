// Package report turns the error history of a run into convergence orders
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"
)

// Rate summarises the convergence of one error series against the number of
// degrees of freedom. Orders are DOF based, e ~ N^-Order; in two dimensions
// that is e ~ h^HOrder with HOrder = 2·Order.
type Rate struct {
	// Steps are the two-point orders between consecutive iterations of the
	// window, NaN where an error is not positive
	Steps []float64
	// Order is the least squares order over the window
	Order  float64
	HOrder float64
	// Points is the number of samples in the fit, Valid requires two
	Points int
	Valid  bool
}

// Rates fits the trailing window iterations of errs against ndof
func Rates(ndof []int, errs []float64, window int) (r Rate, err error) {
	if len(ndof) != len(errs) {
		return r, fmt.Errorf("have %d dof counts for %d errors", len(ndof), len(errs))
	}
	if window < 2 {
		return r, fmt.Errorf("rate window %d < 2", window)
	}
	start := len(ndof) - window
	if start < 0 {
		start = 0
	}
	var lx, ly []float64
	for i := start; i < len(ndof); i++ {
		if i > start {
			r.Steps = append(r.Steps, twoPoint(ndof[i-1], ndof[i], errs[i-1], errs[i]))
		}
		if errs[i] > 0 && ndof[i] > 0 && !math.IsInf(errs[i], 1) {
			lx = append(lx, math.Log(float64(ndof[i])))
			ly = append(ly, math.Log(errs[i]))
		}
	}
	r.Points = len(lx)
	if r.Points < 2 || distinct(lx) < 2 {
		r.Order, r.HOrder = math.NaN(), math.NaN()
		return r, nil
	}
	_, slope := stat.LinearRegression(lx, ly, nil, false)
	r.Order = -slope
	r.HOrder = 2 * r.Order
	r.Valid = true
	return
}

func twoPoint(n0, n1 int, e0, e1 float64) float64 {
	if !(e0 > 0 && e1 > 0) || n0 <= 0 || n1 <= n0 {
		return math.NaN()
	}
	return -math.Log(e1/e0) / math.Log(float64(n1)/float64(n0))
}

func distinct(x []float64) int {
	seen := make(map[float64]struct{}, len(x))
	for _, v := range x {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Series is one error kind of a report
type Series struct {
	Key    string
	Label  string
	Errors []float64
	Rate   Rate
}

type Report struct {
	Ndof   []int
	Window int
	Series []Series
}

// Build fits every series; keys and labels are parallel to errors
func Build(ndof []int, keys, labels []string, errors [][]float64, window int) (rep Report, err error) {
	if len(keys) != len(errors) || len(labels) != len(errors) {
		return rep, fmt.Errorf("have %d keys and %d labels for %d series", len(keys), len(labels), len(errors))
	}
	rep = Report{Ndof: ndof, Window: window}
	for i, e := range errors {
		var r Rate
		if r, err = Rates(ndof, e, window); err != nil {
			return Report{}, fmt.Errorf("%s: %w", keys[i], err)
		}
		rep.Series = append(rep.Series, Series{Key: keys[i], Label: labels[i], Errors: e, Rate: r})
	}
	return
}

// Lookup returns the series stored under key
func (rep Report) Lookup(key string) (Series, bool) {
	for _, s := range rep.Series {
		if s.Key == key {
			return s, true
		}
	}
	return Series{}, false
}

// Table writes the last error and the fitted orders of every series
func (rep Report) Table(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "kind\tlast error\torder (N)\torder (h)\tlast step\n")
	for _, s := range rep.Series {
		last, step := math.NaN(), math.NaN()
		if n := len(s.Errors); n > 0 {
			last = s.Errors[n-1]
		}
		if n := len(s.Rate.Steps); n > 0 {
			step = s.Rate.Steps[n-1]
		}
		fmt.Fprintf(tw, "%s\t%.4e\t%s\t%s\t%s\n", s.Label, last,
			order(s.Rate.Order, s.Rate.Valid), order(s.Rate.HOrder, s.Rate.Valid),
			order(step, !math.IsNaN(step)))
	}
	if n := len(rep.Ndof); n > 0 {
		fmt.Fprintf(tw, "ndof\t%d\t\t\t\n", rep.Ndof[n-1])
	}
	return tw.Flush()
}

func order(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}
