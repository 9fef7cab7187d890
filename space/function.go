package space

// Function is a scalar P1 field, one value per mesh point
type Function struct {
	Space  *Lagrange
	Values []float64
}

// ValueAt evaluates the field at barycentric point bc of a cell
func (f Function) ValueAt(cell int, bc [3]float64) (v float64) {
	c := f.Space.Mesh.Cells[cell]
	for i := 0; i < 3; i++ {
		v += bc[i] * f.Values[c[i]]
	}
	return
}

// CellGradient returns the constant gradient of the field on a cell. grads
// holds the barycentric gradients from mesh.GradLambda.
func (f Function) CellGradient(grads [][3][2]float64, cell int) (g [2]float64) {
	c := f.Space.Mesh.Cells[cell]
	for i := 0; i < 3; i++ {
		u := f.Values[c[i]]
		g[0] += u * grads[cell][i][0]
		g[1] += u * grads[cell][i][1]
	}
	return
}

// VectorFunction is a P1 vector field with two components per mesh point
type VectorFunction struct {
	Space  *Lagrange
	Values [][2]float64
}

func (f VectorFunction) ValueAt(cell int, bc [3]float64) (v [2]float64) {
	c := f.Space.Mesh.Cells[cell]
	for i := 0; i < 3; i++ {
		v[0] += bc[i] * f.Values[c[i]][0]
		v[1] += bc[i] * f.Values[c[i]][1]
	}
	return
}

// CellDivergence returns the constant divergence of the field on a cell
func (f VectorFunction) CellDivergence(grads [][3][2]float64, cell int) (div float64) {
	c := f.Space.Mesh.Cells[cell]
	for i := 0; i < 3; i++ {
		v := f.Values[c[i]]
		div += v[0]*grads[cell][i][0] + v[1]*grads[cell][i][1]
	}
	return
}
