package fem

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/biharmonic/recovery"
	"github.com/notargets/biharmonic/space"
)

// System is the linear system left after eliminating the boundary values
type System struct {
	K        *sparse.CSR    // [interior × interior], symmetric
	B        *mat.VecDense  // right hand side
	Interior []int          // global dof of each unknown
	Fixed    space.Function // boundary values, zero at interior points
}

// form is an affine function of the nodal values: Σ coef[j] u[dofs[j]] + c
type form struct {
	dofs []int
	coef []float64
	c    float64
	pos  map[int]int
}

func newForm() *form {
	return &form{pos: make(map[int]int, 24)}
}

func (f *form) reset() {
	f.dofs, f.coef, f.c = f.dofs[:0], f.coef[:0], 0
	for k := range f.pos {
		delete(f.pos, k)
	}
}

func (f *form) add(dof int, v float64) {
	j, ok := f.pos[dof]
	if !ok {
		j = len(f.dofs)
		f.pos[dof] = j
		f.dofs = append(f.dofs, dof)
		f.coef = append(f.coef, 0)
	}
	f.coef[j] += v
}

// addRow adds s times component d of a recovered gradient row
func (f *form) addRow(r recovery.Row, d int, s float64) {
	for j, dof := range r.Dofs {
		f.add(dof, s*r.Coef[j][d])
	}
	f.c += s * r.Offset[d]
}

// Assemble builds the system. Each cell contributes the divergence form with
// weight |T| and the six stabilisation forms (two components at three edge
// midpoints) with weight σ|T|/3, the edge midpoint rule for (·,·)_T.
func (md *Model) Assemble() (sys *System, err error) {
	var (
		m     = md.Space.Mesh
		np    = m.NumberOfPoints()
		area  = m.Area()
		rows  = md.recovery.GradientRows()
		isBd  = m.BoundaryPoints()
		index = make([]int, np) // global dof -> unknown, -1 on the boundary
	)
	sys = &System{Fixed: md.Space.NewFunction()}
	for q := 0; q < np; q++ {
		if isBd[q] {
			index[q] = -1
			sys.Fixed.Values[q] = md.Problem.Dirichlet(m.X[q], m.Y[q])
			continue
		}
		index[q] = len(sys.Interior)
		sys.Interior = append(sys.Interior, q)
	}
	n := len(sys.Interior)
	if n == 0 {
		return
	}
	var (
		dok = sparse.NewDOK(n, n)
		rhs = make([]float64, n)
		f   = newForm()
	)
	// accumulate adds w·(a·u + c)² restricted to the unknowns
	accumulate := func(w float64) {
		c := f.c
		for j, q := range f.dofs {
			if index[q] < 0 {
				c += f.coef[j] * sys.Fixed.Values[q]
			}
		}
		for j, q := range f.dofs {
			I := index[q]
			if I < 0 || f.coef[j] == 0 {
				continue
			}
			rhs[I] -= w * f.coef[j] * c
			for l, r := range f.dofs {
				J := index[r]
				if J < 0 || f.coef[l] == 0 {
					continue
				}
				dok.Set(I, J, dok.At(I, J)+w*f.coef[j]*f.coef[l])
			}
		}
	}
	for k, c := range m.Cells {
		g := md.grads[k]
		// ∇·G∇u on the cell
		f.reset()
		for i := 0; i < 3; i++ {
			f.addRow(rows[c[i]], 0, g[i][0])
			f.addRow(rows[c[i]], 1, g[i][1])
		}
		accumulate(area[k])
		// G∇u - ∇u at the edge midpoints
		for e := 0; e < 3; e++ {
			p, q := c[(e+1)%3], c[(e+2)%3]
			for d := 0; d < 2; d++ {
				f.reset()
				f.addRow(rows[p], d, 0.5)
				f.addRow(rows[q], d, 0.5)
				for i := 0; i < 3; i++ {
					f.add(c[i], -g[i][d])
				}
				accumulate(md.Sigma * area[k] / 3)
			}
		}
	}

	b, err := md.load()
	if err != nil {
		return nil, err
	}
	for k, c := range m.Cells {
		for i, q := range c {
			if I := index[q]; I >= 0 {
				rhs[I] += b[k][i]
			}
		}
	}
	sys.K = dok.ToCSR()
	sys.B = mat.NewVecDense(n, rhs)
	return
}
