// Package config holds the parameters of an adaptive run
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/notargets/biharmonic/fem"
	"github.com/notargets/biharmonic/marking"
	"github.com/notargets/biharmonic/problem"
	"github.com/notargets/biharmonic/recovery"
)

// ErrConfig reports run parameters that prevent a run from starting
var ErrConfig = errors.New("config: invalid run parameters")

// Run is passed by value to the adaptive controller
type Run struct {
	Problem   problem.Kind
	Theta     float64 // bulk fraction, θ = 1 refines every cell with a non-zero indicator
	MaxIt     int
	OutputDir string

	Degree   int
	Sigma    float64 // stabilisation of the recovery term
	Recovery recovery.Weight
	Marking  marking.Strategy
	Smooth   bool // smooth the driving indicator before marking
	Solver   string

	// Snapshots are the iterations whose mesh goes to the snapshot sink, nil
	// selects 0, 9, 19, ... below MaxIt
	Snapshots  []int
	RateWindow int // trailing iterations used for convergence rates

	GradOrder    int // quadrature order of the gradient indicator
	LaplaceOrder int // quadrature order of the Laplace indicators
	ErrorOrder   int // quadrature order of the true error norms

	PartitionSize     int // cells per worker partition
	InitialRefinement int // 0 selects the problem default
}

func Default() Run {
	return Run{
		Problem:      problem.LShape,
		Theta:        0.3,
		MaxIt:        30,
		OutputDir:    "results",
		Degree:       1,
		Sigma:        1,
		Recovery:     recovery.InvArea,
		Marking:      marking.Bulk,
		Solver:       "auto",
		RateWindow:   20,
		GradOrder:    4,
		LaplaceOrder: 2,
		ErrorOrder:   8,

		PartitionSize: 256,
	}
}

// SnapshotIterations returns the iterations to snapshot
func (r Run) SnapshotIterations() []int {
	if r.Snapshots != nil {
		return r.Snapshots
	}
	idx := []int{0}
	for i := 9; i < r.MaxIt; i += 10 {
		idx = append(idx, i)
	}
	return idx
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Validate checks every parameter; all problems surface before a run starts
func (r Run) Validate() error {
	if !r.Problem.Valid() {
		return invalid("unknown problem %d", uint8(r.Problem))
	}
	if !(r.Theta > 0 && r.Theta <= 1) {
		return invalid("theta %g outside (0, 1]", r.Theta)
	}
	if r.MaxIt < 1 {
		return invalid("maxit %d < 1", r.MaxIt)
	}
	if strings.TrimSpace(r.OutputDir) == "" {
		return invalid("missing output directory")
	}
	if r.Degree != 1 {
		return invalid("degree %d not supported, only 1", r.Degree)
	}
	if !(r.Sigma > 0) {
		return invalid("sigma %g must be positive", r.Sigma)
	}
	if !r.Recovery.Valid() {
		return invalid("unknown recovery weight %d", uint8(r.Recovery))
	}
	if !r.Marking.Valid() {
		return invalid("unknown marking strategy %d", uint8(r.Marking))
	}
	if r.Solver != "auto" && !contains(fem.Solvers(), r.Solver) {
		return invalid("unknown solver %q", r.Solver)
	}
	for _, i := range r.Snapshots {
		if i < 0 || i >= r.MaxIt {
			return invalid("snapshot iteration %d outside [0, %d)", i, r.MaxIt)
		}
	}
	if r.RateWindow < 2 {
		return invalid("rate window %d < 2", r.RateWindow)
	}
	for name, order := range map[string]int{
		"grad_order":    r.GradOrder,
		"laplace_order": r.LaplaceOrder,
		"error_order":   r.ErrorOrder,
	} {
		if order < 1 {
			return invalid("%s %d < 1", name, order)
		}
	}
	if r.PartitionSize < 1 {
		return invalid("partition size %d < 1", r.PartitionSize)
	}
	if r.InitialRefinement < 0 {
		return invalid("initial refinement %d < 0", r.InitialRefinement)
	}
	return nil
}

// EnsureOutputDir creates the output directory
func (r Run) EnsureOutputDir() error {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return invalid("create output directory: %v", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
