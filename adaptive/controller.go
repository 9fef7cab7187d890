// Package adaptive drives the solve, estimate, mark and refine loop
package adaptive

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/notargets/biharmonic/config"
	"github.com/notargets/biharmonic/errornorm"
	"github.com/notargets/biharmonic/estimator"
	"github.com/notargets/biharmonic/fem"
	"github.com/notargets/biharmonic/marking"
	"github.com/notargets/biharmonic/mesh"
	"github.com/notargets/biharmonic/metrics"
	"github.com/notargets/biharmonic/partitions"
	"github.com/notargets/biharmonic/problem"
	"github.com/notargets/biharmonic/space"
)

// SnapshotSink receives the mesh, solution and driving indicator of selected
// iterations
type SnapshotSink interface {
	Snapshot(iteration int, m *mesh.TriMesh, uh space.Function, eta []float64) error
}

type Option func(c *Controller)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithSnapshotSink(sink SnapshotSink) Option {
	return func(c *Controller) { c.sink = sink }
}

// WithProblem replaces the problem built from the configured kind
func WithProblem(prob problem.Problem) Option {
	return func(c *Controller) { c.prob = prob }
}

func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = rec }
}

// Controller owns the mesh and history of one adaptive run
type Controller struct {
	Config  config.Run
	History History

	prob    problem.Problem
	mesh    *mesh.TriMesh
	uh      space.Function
	stage   Stage
	logger  zerolog.Logger
	sink    SnapshotSink
	metrics *metrics.Recorder
	snap    map[int]bool
}

// New validates cfg, prepares the output directory and builds the initial
// mesh of the problem
func New(cfg config.Run, opts ...Option) (c *Controller, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	c = &Controller{
		Config: cfg,
		logger: zerolog.Nop(),
		snap:   make(map[int]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err = cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}
	if c.prob == nil {
		if c.prob, err = problem.New(cfg.Problem); err != nil {
			return nil, err
		}
	}
	level := cfg.InitialRefinement
	if level == 0 {
		level = c.prob.DefaultRefinement()
	}
	if c.mesh, err = c.prob.InitMesh(level); err != nil {
		return nil, fmt.Errorf("initial mesh: %w", err)
	}
	for _, it := range cfg.SnapshotIterations() {
		c.snap[it] = true
	}
	return
}

func (c *Controller) Problem() problem.Problem { return c.prob }

// Mesh returns the current mesh, the refined one once Run has returned
func (c *Controller) Mesh() *mesh.TriMesh { return c.mesh }

// Solution returns the discrete solution of the last solved iteration
func (c *Controller) Solution() space.Function { return c.uh }

// Stage returns the stage the loop is in, or stopped in
func (c *Controller) Stage() Stage { return c.stage }

// iteration holds the per-mesh objects of one pass through the loop
type iteration struct {
	V      *space.Lagrange
	model  *fem.Model
	layout *partitions.PartitionLayout
	eta    []float64 // driving indicator
	values [NumErrorKinds]float64
}

// Run executes at most Config.MaxIt iterations. It returns early, without
// error, when marking selects no cell.
func (c *Controller) Run(ctx context.Context) (err error) {
	for it := 0; it < c.Config.MaxIt; it++ {
		var (
			last = it == c.Config.MaxIt-1
			st   iteration
		)
		if err = c.step(it, Solving, func() error { return c.solve(&st) }); err != nil {
			return
		}
		var (
			rgh space.VectorFunction
			rlh space.Function
		)
		if err = c.step(it, Recovering, func() error {
			rgh = st.model.Recovery().RecoverGradient(c.uh)
			rlh = st.model.Recovery().RecoverLaplace(rgh)
			return nil
		}); err != nil {
			return
		}
		if err = c.step(it, Estimating, func() error { return c.estimate(&st, rgh, rlh) }); err != nil {
			return
		}
		if err = c.step(it, Recording, func() error { return c.record(it, &st) }); err != nil {
			return
		}
		if last {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.stage = Done
			return &StageError{Iteration: it, Stage: Marking,
				Err: fmt.Errorf("%w: %w", ErrCanceled, ctxErr)}
		}
		var marked []int
		if err = c.step(it, Marking, func() (err error) {
			marked, err = c.mark(&st)
			return
		}); err != nil {
			return
		}
		c.History.Marked = append(c.History.Marked, len(marked))
		if len(marked) == 0 {
			// MaxIt stays the nominal budget; an unchanged mesh would only
			// repeat this iteration
			c.History.StoppedEarly = true
			c.logger.Warn().Int("iteration", it).Msg("no cells marked, stopping early")
			break
		}
		if err = c.step(it, Refining, func() error {
			if c.Config.Marking == marking.Uniform {
				// two bisection sweeps halve the mesh size
				return c.mesh.Refine(2)
			}
			return c.mesh.Bisect(marked)
		}); err != nil {
			return
		}
	}
	c.stage = Done
	return nil
}

// step runs fn as stage s of iteration it, timing it and wrapping its error
func (c *Controller) step(it int, s Stage, fn func() error) error {
	c.stage = s
	start := time.Now()
	err := fn()
	if c.metrics != nil {
		c.metrics.ObserveStage(s.String(), time.Since(start))
	}
	if err != nil {
		c.logger.Error().Err(err).Int("iteration", it).Stringer("stage", s).Msg("stage failed")
		return &StageError{Iteration: it, Stage: s, Err: err}
	}
	return nil
}

func (c *Controller) solve(st *iteration) (err error) {
	if st.V, err = space.NewLagrange(c.mesh, c.Config.Degree); err != nil {
		return
	}
	if st.model, err = fem.NewModel(st.V, c.prob, c.Config.Sigma, c.Config.Recovery); err != nil {
		return
	}
	st.model.Solver = c.Config.Solver
	c.uh, err = st.model.Solve()
	return
}

func (c *Controller) estimate(st *iteration, rgh space.VectorFunction, rlh space.Function) (err error) {
	var (
		cfg   = c.Config
		grads = st.model.Grads()
		est   *estimator.Estimator
		norms *errornorm.Norms
	)
	cx, cy := c.mesh.Barycenters()
	if st.layout, err = partitions.BuildSpatial(cx, cy, cfg.PartitionSize); err != nil {
		return
	}
	if est, err = estimator.New(st.V, grads, st.layout); err != nil {
		return
	}
	if norms, err = errornorm.New(st.V, grads, st.layout); err != nil {
		return
	}
	etaGrad, err := est.GradientIndicator(c.uh, rgh, cfg.GradOrder)
	if err != nil {
		return
	}
	laplace := make(map[estimator.Variant][]float64, 3)
	for _, variant := range []estimator.Variant{estimator.LaplaceJump,
		estimator.LaplaceDivergence, estimator.LaplaceRecovered} {
		if laplace[variant], err = est.LaplaceIndicator(rgh, rlh, variant, cfg.LaplaceOrder); err != nil {
			return
		}
	}
	st.eta = laplace[DrivingVariant]

	v := &st.values
	v[GradientEstimate] = estimator.Aggregate(etaGrad)
	v[JumpEstimate] = estimator.Aggregate(laplace[estimator.LaplaceJump])
	v[DivergenceEstimate] = estimator.Aggregate(laplace[estimator.LaplaceDivergence])
	v[RecoveredEstimate] = estimator.Aggregate(laplace[estimator.LaplaceRecovered])

	order := cfg.ErrorOrder
	for _, e := range []struct {
		kind ErrorKind
		fn   func() (float64, error)
	}{
		{L2Error, func() (float64, error) { return norms.L2Error(c.prob.Solution, c.uh, order) }},
		{H1SemiError, func() (float64, error) { return norms.H1SemiError(c.prob.Gradient, c.uh, order) }},
		{RecoveredGradError, func() (float64, error) { return norms.VectorL2Error(c.prob.Gradient, rgh, order) }},
		{DivergenceError, func() (float64, error) { return norms.DivError(c.prob.Laplace, rgh, order) }},
		{RecoveredLaplaceError, func() (float64, error) { return norms.L2Error(c.prob.Laplace, rlh, order) }},
		{LaplaceNorm, func() (float64, error) { return norms.L2Norm(c.prob.Laplace, order) }},
	} {
		if v[e.kind], err = e.fn(); err != nil {
			return fmt.Errorf("%s: %w", e.kind.Key(), err)
		}
	}
	return nil
}

func (c *Controller) record(it int, st *iteration) error {
	for k, v := range st.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s = %g", ErrNonFinite, ErrorKind(k).Key(), v)
		}
	}
	var (
		ndof  = st.V.NumberOfGlobalDofs()
		cells = c.mesh.NumberOfCells()
	)
	c.History.append(ndof, cells, st.values)

	event := c.logger.Info().Int("iteration", it).Int("ndof", ndof).Int("cells", cells)
	for k, v := range st.values {
		event = event.Float64(ErrorKind(k).Key(), v)
	}
	event.Msg("iteration complete")

	if c.metrics != nil {
		errs := make(map[string]float64, NumErrorKinds)
		for k, v := range st.values {
			errs[ErrorKind(k).Key()] = v
		}
		c.metrics.RecordIteration(cells, ndof, errs)
	}
	if c.sink != nil && c.snap[it] {
		if err := c.sink.Snapshot(it, c.mesh, c.uh, st.eta); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
	}
	return nil
}

func (c *Controller) mark(st *iteration) (marked []int, err error) {
	eta := st.eta
	if c.Config.Smooth {
		var smoothed []float64
		smoothed, err = estimator.Smooth(c.mesh, eta)
		switch {
		case errors.Is(err, estimator.ErrDegenerateIndicator):
			c.logger.Warn().Err(err).Msg("marking on the unsmoothed indicator")
		case err != nil:
			return
		default:
			eta = smoothed
		}
	}
	if marked, err = marking.MarkWith(c.Config.Marking, eta, c.Config.Theta); err != nil {
		return
	}
	if c.metrics != nil {
		c.metrics.RecordMarked(len(marked))
	}
	return marked, nil
}
