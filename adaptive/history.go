package adaptive

import (
	"fmt"

	"github.com/notargets/biharmonic/estimator"
)

// ErrorKind indexes the scalars recorded every iteration
type ErrorKind uint8

const (
	L2Error               ErrorKind = iota // ‖u - u_h‖
	H1SemiError                            // ‖∇u - ∇u_h‖
	GradientEstimate                       // ‖∇u_h - G∇u_h‖
	RecoveredGradError                     // ‖∇u - G∇u_h‖
	DivergenceError                        // ‖Δu - ∇·G∇u_h‖
	RecoveredLaplaceError                  // ‖Δu - G(∇·G∇u_h)‖
	JumpEstimate                           // ‖G(∇·G∇u_h) - ∇·G∇u_h‖
	LaplaceNorm                            // ‖Δu‖
	DivergenceEstimate                     // ‖∇·G∇u_h‖
	RecoveredEstimate                      // ‖G(∇·G∇u_h)‖

	NumErrorKinds
)

var kindInfo = [NumErrorKinds]struct{ label, key string }{
	{"‖u - u_h‖", "l2"},
	{"‖∇u - ∇u_h‖", "h1_semi"},
	{"‖∇u_h - G(∇u_h)‖", "eta_grad"},
	{"‖∇u - G(∇u_h)‖", "grad_recovery"},
	{"‖Δu - ∇·G(∇u_h)‖", "div"},
	{"‖Δu - G(∇·G(∇u_h))‖", "laplace_recovery"},
	{"‖G(∇·G(∇u_h)) - ∇·G(∇u_h)‖", "eta_jump"},
	{"‖Δu‖", "laplace_norm"},
	{"‖∇·G(∇u_h)‖", "eta_div"},
	{"‖G(∇·G(∇u_h))‖", "eta_recovered"},
}

func (k ErrorKind) Label() string {
	if k < NumErrorKinds {
		return kindInfo[k].label
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

func (k ErrorKind) Key() string {
	if k < NumErrorKinds {
		return kindInfo[k].key
	}
	return fmt.Sprintf("kind%d", uint8(k))
}

func (k ErrorKind) String() string { return k.Key() }

// AllErrorKinds lists the kinds in recording order
func AllErrorKinds() []ErrorKind {
	kinds := make([]ErrorKind, NumErrorKinds)
	for i := range kinds {
		kinds[i] = ErrorKind(i)
	}
	return kinds
}

// DrivingVariant is the Laplace indicator that marks cells for refinement.
// The gradient indicator and the other variants are recorded only.
const DrivingVariant = estimator.LaplaceJump

// History accumulates one entry per completed iteration
type History struct {
	Ndof   []int
	Cells  []int
	Errors [NumErrorKinds][]float64
	Marked []int // cells marked at each iteration, absent for the last one
	// StoppedEarly is set when marking selected no cell before the last
	// iteration, leaving nothing to refine
	StoppedEarly bool
}

func (h *History) Iterations() int { return len(h.Ndof) }

// Series returns the recorded values of one kind
func (h *History) Series(kind ErrorKind) []float64 { return h.Errors[kind] }

func (h *History) append(ndof, cells int, values [NumErrorKinds]float64) {
	h.Ndof = append(h.Ndof, ndof)
	h.Cells = append(h.Cells, cells)
	for k, v := range values {
		h.Errors[k] = append(h.Errors[k], v)
	}
}
