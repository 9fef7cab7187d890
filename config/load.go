package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	Problem           string  `toml:"problem"`
	Theta             float64 `toml:"theta"`
	MaxIt             int     `toml:"maxit"`
	OutputDir         string  `toml:"output_dir"`
	Degree            int     `toml:"degree"`
	Sigma             float64 `toml:"sigma"`
	Recovery          string  `toml:"recovery"`
	Marking           string  `toml:"marking"`
	Smooth            bool    `toml:"smooth"`
	Solver            string  `toml:"solver"`
	Snapshots         []int   `toml:"snapshots"`
	RateWindow        int     `toml:"rate_window"`
	GradOrder         int     `toml:"grad_order"`
	LaplaceOrder      int     `toml:"laplace_order"`
	ErrorOrder        int     `toml:"error_order"`
	PartitionSize     int     `toml:"partition_size"`
	InitialRefinement int     `toml:"initial_refinement"`
}

// Load overlays the keys present in a TOML file onto Default. The result is
// not validated.
func Load(path string) (Run, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Run{}, fmt.Errorf("%w: load %s: %v", ErrConfig, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Run{}, invalid("unknown keys in %s: %v", path, undecoded)
	}

	if meta.IsDefined("problem") {
		if err = cfg.Problem.UnmarshalText([]byte(raw.Problem)); err != nil {
			return Run{}, invalid("%v", err)
		}
	}
	if meta.IsDefined("theta") {
		cfg.Theta = raw.Theta
	}
	if meta.IsDefined("maxit") {
		cfg.MaxIt = raw.MaxIt
	}
	if meta.IsDefined("output_dir") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDir)
	}
	if meta.IsDefined("degree") {
		cfg.Degree = raw.Degree
	}
	if meta.IsDefined("sigma") {
		cfg.Sigma = raw.Sigma
	}
	if meta.IsDefined("recovery") {
		if err = cfg.Recovery.UnmarshalText([]byte(raw.Recovery)); err != nil {
			return Run{}, invalid("%v", err)
		}
	}
	if meta.IsDefined("marking") {
		if err = cfg.Marking.UnmarshalText([]byte(raw.Marking)); err != nil {
			return Run{}, invalid("%v", err)
		}
	}
	if meta.IsDefined("smooth") {
		cfg.Smooth = raw.Smooth
	}
	if meta.IsDefined("solver") {
		cfg.Solver = strings.ToLower(strings.TrimSpace(raw.Solver))
	}
	if meta.IsDefined("snapshots") {
		cfg.Snapshots = append([]int{}, raw.Snapshots...)
	}
	if meta.IsDefined("rate_window") {
		cfg.RateWindow = raw.RateWindow
	}
	if meta.IsDefined("grad_order") {
		cfg.GradOrder = raw.GradOrder
	}
	if meta.IsDefined("laplace_order") {
		cfg.LaplaceOrder = raw.LaplaceOrder
	}
	if meta.IsDefined("error_order") {
		cfg.ErrorOrder = raw.ErrorOrder
	}
	if meta.IsDefined("partition_size") {
		cfg.PartitionSize = raw.PartitionSize
	}
	if meta.IsDefined("initial_refinement") {
		cfg.InitialRefinement = raw.InitialRefinement
	}
	return cfg, nil
}
