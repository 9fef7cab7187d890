package adaptive

import (
	"errors"
	"fmt"
)

// Stage is a state of the adaptive loop
type Stage uint8

const (
	Init Stage = iota
	Solving
	Recovering
	Estimating
	Recording
	Marking
	Refining
	Done
)

var stageNames = [...]string{"init", "solving", "recovering", "estimating", "recording", "marking", "refining", "done"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

var (
	// ErrNonFinite reports a NaN or infinite scalar on its way into the history
	ErrNonFinite = errors.New("adaptive: non-finite value")
	// ErrCanceled reports a run stopped through its context
	ErrCanceled = errors.New("adaptive: run canceled")
)

// StageError locates a fatal failure in the loop
type StageError struct {
	Iteration int
	Stage     Stage
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("iteration %d, stage %s: %v", e.Iteration, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
