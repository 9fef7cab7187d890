// Package output writes run records and mesh snapshots
package output

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/notargets/biharmonic/report"
)

// Result is the TOML record of a finished run
type Result struct {
	Problem      string               `toml:"problem"`
	StoppedEarly bool                 `toml:"stopped_early"`
	Ndof         []int                `toml:"ndof"`
	ErrorTypes   []string             `toml:"error_types"`
	Errors       map[string][]float64 `toml:"errors"`
	Rates        map[string]RateEntry `toml:"rates"`
}

// RateEntry leaves out orders that could not be fitted
type RateEntry struct {
	Order  *float64 `toml:"order,omitempty"`
	HOrder *float64 `toml:"h_order,omitempty"`
	Points int      `toml:"points"`
}

func NewResult(problem string, stoppedEarly bool, rep report.Report) Result {
	res := Result{
		Problem:      problem,
		StoppedEarly: stoppedEarly,
		Ndof:         rep.Ndof,
		Errors:       make(map[string][]float64, len(rep.Series)),
		Rates:        make(map[string]RateEntry, len(rep.Series)),
	}
	for _, s := range rep.Series {
		res.ErrorTypes = append(res.ErrorTypes, s.Label)
		res.Errors[s.Key] = s.Errors
		entry := RateEntry{Points: s.Rate.Points}
		if s.Rate.Valid && !math.IsNaN(s.Rate.Order) {
			order, horder := s.Rate.Order, s.Rate.HOrder
			entry.Order, entry.HOrder = &order, &horder
		}
		res.Rates[s.Key] = entry
	}
	return res
}

// WriteResult stores res as dir/name.toml and returns the path
func WriteResult(dir, name string, res Result) (path string, err error) {
	data, err := toml.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("result encode failed: %w", err)
	}
	path = filepath.Join(dir, name+".toml")
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("result write failed (%s): %w", path, err)
	}
	return
}

func ReadResult(path string) (res Result, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("result load failed (%s): %w", path, err)
	}
	if err = toml.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("result parse failed (%s): %w", path, err)
	}
	return
}
