package recovery

import "sort"

// Row is the affine form of the recovered gradient at one point:
// (G∇u)_p = Σ_j Coef[j] u[Dofs[j]] + Offset
type Row struct {
	Dofs   []int
	Coef   [][2]float64
	Offset [2]float64
}

// GradientRows returns the recovered gradient as an affine function of the
// nodal values, one row per point. Boundary points carry only the
// prescribed gradient when a boundary is attached.
func (op *Operator) GradientRows() []Row {
	var (
		m    = op.Space.Mesh
		rows = make([]Row, m.NumberOfPoints())
		pos  = make([]map[int]int, len(rows))
	)
	op.avg.DoNonZero(func(p, k int, a float64) {
		if op.Boundary != nil && op.isBd[p] {
			return
		}
		if pos[p] == nil {
			pos[p] = make(map[int]int, 8)
		}
		r := &rows[p]
		for i, q := range m.Cells[k] {
			j, ok := pos[p][q]
			if !ok {
				j = len(r.Dofs)
				pos[p][q] = j
				r.Dofs = append(r.Dofs, q)
				r.Coef = append(r.Coef, [2]float64{})
			}
			r.Coef[j][0] += a * op.Grads[k][i][0]
			r.Coef[j][1] += a * op.Grads[k][i][1]
		}
	})
	for p := range rows {
		if op.Boundary != nil && op.isBd[p] {
			rows[p].Offset = op.Boundary.DirichletGradient(m.X[p], m.Y[p])
		}
		sort.Sort(byDof(rows[p]))
	}
	return rows
}

type byDof Row

func (r byDof) Len() int           { return len(r.Dofs) }
func (r byDof) Less(i, j int) bool { return r.Dofs[i] < r.Dofs[j] }
func (r byDof) Swap(i, j int) {
	r.Dofs[i], r.Dofs[j] = r.Dofs[j], r.Dofs[i]
	r.Coef[i], r.Coef[j] = r.Coef[j], r.Coef[i]
}
