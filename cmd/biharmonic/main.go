package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/notargets/biharmonic/adaptive"
	"github.com/notargets/biharmonic/config"
	"github.com/notargets/biharmonic/logging"
	"github.com/notargets/biharmonic/metrics"
	"github.com/notargets/biharmonic/output"
	"github.com/notargets/biharmonic/problem"
	"github.com/notargets/biharmonic/report"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML run parameters, flags override its values")
		kind       = flag.String("problem", "", "peak|sinsin|lshape|polynomial or 1-4")
		theta      = flag.Float64("theta", 0, "bulk marking fraction in (0, 1]")
		maxIt      = flag.Int("maxit", 0, "maximum number of refinement iterations")
		out        = flag.String("out", "", "output directory")
	)
	flag.Parse()
	logger := logging.InitLogger("biharmonic")

	cfg, err := loadConfig(*configPath, *kind, *theta, *maxIt, *out)
	if err != nil {
		logger.Error().Err(err).Msg("configuration rejected")
		os.Exit(1)
	}
	if err = run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// loadConfig overlays the explicitly set flags on the defaults or the file
func loadConfig(path, kind string, theta float64, maxIt int, out string) (cfg config.Run, err error) {
	cfg = config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "problem":
			if err == nil {
				cfg.Problem, err = problem.ParseKind(kind)
			}
		case "theta":
			cfg.Theta = theta
		case "maxit":
			cfg.MaxIt = maxIt
		case "out":
			cfg.OutputDir = out
		}
	})
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", config.ErrConfig, err)
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Run, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		rec  = metrics.NewRecorder()
		name = cfg.Problem.String()
		vtu  = output.VTUWriter{Dir: filepath.Join(cfg.OutputDir, "vtu"), Prefix: name}
	)
	ctrl, err := adaptive.New(cfg,
		adaptive.WithLogger(logger),
		adaptive.WithMetrics(rec),
		adaptive.WithSnapshotSink(vtu),
	)
	if err != nil {
		return err
	}
	logger.Info().Str("problem", ctrl.Problem().Name()).Int("cells", ctrl.Mesh().NumberOfCells()).
		Float64("theta", cfg.Theta).Int("maxit", cfg.MaxIt).Msg("starting adaptive run")

	runErr := ctrl.Run(ctx)
	// a failed run still reports the iterations it completed
	h := ctrl.History
	if h.Iterations() == 0 {
		return runErr
	}
	var (
		kinds  = adaptive.AllErrorKinds()
		keys   = make([]string, len(kinds))
		labels = make([]string, len(kinds))
		series = make([][]float64, len(kinds))
	)
	for i, k := range kinds {
		keys[i], labels[i], series[i] = k.Key(), k.Label(), h.Series(k)
	}
	rep, err := report.Build(h.Ndof, keys, labels, series, cfg.RateWindow)
	if err != nil {
		return err
	}
	path, err := output.WriteResult(cfg.OutputDir, name, output.NewResult(name, h.StoppedEarly, rep))
	if err != nil {
		return err
	}
	logger.Info().Str("path", path).Msg("result written")
	if runErr == nil {
		if path, err = vtu.WriteSolution(ctrl.Mesh(), ctrl.Solution()); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("solution written")
	}
	if err = rec.WriteTextfile(filepath.Join(cfg.OutputDir, name+".prom")); err != nil {
		return err
	}
	if err = rep.Table(os.Stdout); err != nil {
		return err
	}
	return runErr
}
