package mesh

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/james-bowman/sparse"
	"github.com/notargets/biharmonic/element"
	"github.com/notargets/gocfd/utils"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrDegenerateCell reports a cell with non-positive area
	ErrDegenerateCell = errors.New("mesh: degenerate cell")
	// ErrRefine reports a bisection request that cannot be honoured
	ErrRefine = errors.New("mesh: refinement failed")
)

// TriMesh is a conforming triangulation. Cells[k][0] is the newest vertex of
// cell k and the edge opposite to it is the refinement edge used by Bisect.
// Cells are stored counterclockwise.
type TriMesh struct {
	X, Y  []float64
	Cells [][3]int

	topo *topology
}

type topology struct {
	Edges     [][2]int // sorted point pairs
	CellEdges [][3]int // edge k of a cell is opposite its local vertex k
	EdgeCells [][2]int // -1 in the second slot for boundary edges
}

// NewTriMesh builds a mesh from point coordinates and cell connectivity
func NewTriMesh(X, Y []float64, cells [][3]int) (m *TriMesh, err error) {
	if len(X) != len(Y) {
		return nil, fmt.Errorf("coordinate length mismatch: len(X)=%d, len(Y)=%d", len(X), len(Y))
	}
	m = &TriMesh{X: X, Y: Y, Cells: cells}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}

func (m *TriMesh) NumberOfPoints() int { return len(m.X) }
func (m *TriMesh) NumberOfCells() int  { return len(m.Cells) }

func (m *TriMesh) NumberOfEdges() int {
	return len(m.topology().Edges)
}

// Validate checks point indices and cell orientation
func (m *TriMesh) Validate() error {
	np := len(m.X)
	if len(m.Cells) == 0 {
		return fmt.Errorf("mesh has no cells")
	}
	for k, c := range m.Cells {
		for _, p := range c {
			if p < 0 || p >= np {
				return fmt.Errorf("cell %d references point %d outside [0,%d)", k, p, np)
			}
		}
		if a := m.cellArea(k); !(a > 0) {
			return fmt.Errorf("%w: cell %d has area %g", ErrDegenerateCell, k, a)
		}
	}
	return nil
}

func (m *TriMesh) cellArea(k int) float64 {
	c := m.Cells[k]
	x0, y0 := m.X[c[0]], m.Y[c[0]]
	return 0.5 * ((m.X[c[1]]-x0)*(m.Y[c[2]]-y0) - (m.X[c[2]]-x0)*(m.Y[c[1]]-y0))
}

// Area returns the area of every cell
func (m *TriMesh) Area() []float64 {
	area := make([]float64, len(m.Cells))
	for k := range m.Cells {
		area[k] = m.cellArea(k)
	}
	return area
}

// Barycenters returns the centroid of every cell
func (m *TriMesh) Barycenters() (bx, by []float64) {
	bx = make([]float64, len(m.Cells))
	by = make([]float64, len(m.Cells))
	for k, c := range m.Cells {
		bx[k] = (m.X[c[0]] + m.X[c[1]] + m.X[c[2]]) / 3
		by[k] = (m.Y[c[0]] + m.Y[c[1]] + m.Y[c[2]]) / 3
	}
	return
}

// Diameters returns the longest edge length of every cell
func (m *TriMesh) Diameters() []float64 {
	h := make([]float64, len(m.Cells))
	for k, c := range m.Cells {
		for i := 0; i < 3; i++ {
			p, q := c[i], c[(i+1)%3]
			h[k] = math.Max(h[k], math.Hypot(m.X[q]-m.X[p], m.Y[q]-m.Y[p]))
		}
	}
	return h
}

// Point returns the coordinates of the barycentric point bc inside cell k
func (m *TriMesh) Point(k int, bc [3]float64) (x, y float64) {
	c := m.Cells[k]
	for i := 0; i < 3; i++ {
		x += bc[i] * m.X[c[i]]
		y += bc[i] * m.Y[c[i]]
	}
	return
}

// PointToCell returns the [NumberOfPoints × NumberOfCells] incidence matrix
// with a one where a point is a vertex of a cell
func (m *TriMesh) PointToCell() *sparse.CSR {
	dok := sparse.NewDOK(len(m.X), len(m.Cells))
	for k, c := range m.Cells {
		for _, p := range c {
			dok.Set(p, k, 1)
		}
	}
	return dok.ToCSR()
}

// Transform returns the affine map of cell k from the reference triangle
func (m *TriMesh) Transform(k int) (gt element.GeometricTransform, err error) {
	c := m.Cells[k]
	x0, y0 := m.X[c[0]], m.Y[c[0]]
	gt.J = [2][2]float64{
		{(m.X[c[1]] - x0) / 2, (m.X[c[2]] - x0) / 2},
		{(m.Y[c[1]] - y0) / 2, (m.Y[c[2]] - y0) / 2},
	}
	gt.Det = gt.J[0][0]*gt.J[1][1] - gt.J[0][1]*gt.J[1][0]
	if !(gt.Det > 0) {
		return gt, fmt.Errorf("%w: cell %d has Jacobian %g", ErrDegenerateCell, k, gt.Det)
	}
	J := utils.NewMatrix(2, 2, []float64{gt.J[0][0], gt.J[0][1], gt.J[1][0], gt.J[1][1]})
	Jinv, err := J.Inverse()
	if err != nil {
		return gt, fmt.Errorf("%w: cell %d: %v", ErrDegenerateCell, k, err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			gt.Jinv[i][j] = Jinv.At(i, j)
		}
	}
	return
}

// GradLambda returns the physical gradients of the three barycentric basis
// functions of every cell, [K][vertex][x|y]
func (m *TriMesh) GradLambda() (grads [][3][2]float64, err error) {
	var (
		el   = element.TriP1{}
		gr   = el.GradBasis(0, 0)
		Gref = utils.NewMatrix(3, 2, []float64{
			gr[0][0], gr[0][1],
			gr[1][0], gr[1][1],
			gr[2][0], gr[2][1],
		})
	)
	grads = make([][3][2]float64, len(m.Cells))
	for k := range m.Cells {
		gt, err := m.Transform(k)
		if err != nil {
			return nil, err
		}
		Jinv := utils.NewMatrix(2, 2, []float64{
			gt.Jinv[0][0], gt.Jinv[0][1], gt.Jinv[1][0], gt.Jinv[1][1],
		})
		// row i of Gref*Jinv is ∇λ_i in physical coordinates
		G := Gref.Mul(Jinv)
		for i := 0; i < 3; i++ {
			grads[k][i] = [2]float64{G.At(i, 0), G.At(i, 1)}
		}
	}
	return
}

func (m *TriMesh) topology() *topology {
	if m.topo != nil {
		return m.topo
	}
	var (
		t = &topology{
			CellEdges: make([][3]int, len(m.Cells)),
		}
		index = make(map[[2]int]int, 3*len(m.Cells)/2+len(m.X))
	)
	for k, c := range m.Cells {
		for i := 0; i < 3; i++ {
			key := edgeKey(c[(i+1)%3], c[(i+2)%3])
			e, found := index[key]
			if !found {
				e = len(t.Edges)
				index[key] = e
				t.Edges = append(t.Edges, key)
				t.EdgeCells = append(t.EdgeCells, [2]int{k, -1})
			} else {
				t.EdgeCells[e][1] = k
			}
			t.CellEdges[k][i] = e
		}
	}
	m.topo = t
	return t
}

func edgeKey(p, q int) [2]int {
	if p > q {
		p, q = q, p
	}
	return [2]int{p, q}
}

// BoundaryEdges returns the edges that belong to a single cell
func (m *TriMesh) BoundaryEdges() (edges [][2]int) {
	t := m.topology()
	for e, ec := range t.EdgeCells {
		if ec[1] < 0 {
			edges = append(edges, t.Edges[e])
		}
	}
	return
}

// BoundaryPoints flags the points lying on a boundary edge
func (m *TriMesh) BoundaryPoints() []bool {
	isBd := make([]bool, len(m.X))
	for _, e := range m.BoundaryEdges() {
		isBd[e[0]] = true
		isBd[e[1]] = true
	}
	return isBd
}

// CellNeighbors returns the cell across each edge of cell k, -1 on the boundary
func (m *TriMesh) CellNeighbors(k int) (nbr [3]int) {
	t := m.topology()
	for i, e := range t.CellEdges[k] {
		ec := t.EdgeCells[e]
		switch {
		case ec[0] == k:
			nbr[i] = ec[1]
		default:
			nbr[i] = ec[0]
		}
	}
	return
}

func (m *TriMesh) GetMeshProperties() element.MeshProperties {
	return element.MeshProperties{
		NumElements:      m.NumberOfCells(),
		NumVertices:      m.NumberOfPoints(),
		NumEdges:         m.NumberOfEdges(),
		NumBoundaryEdges: len(m.BoundaryEdges()),
	}
}

// String returns a summary of the mesh
func (m *TriMesh) String() string {
	var (
		sb    strings.Builder
		props = m.GetMeshProperties()
		area  = m.Area()
		h     = m.Diameters()
	)
	sb.WriteString("=== TriMesh Summary ===\n")
	sb.WriteString(fmt.Sprintf("  Number of cells: %d\n", props.NumElements))
	sb.WriteString(fmt.Sprintf("  Number of points: %d\n", props.NumVertices))
	sb.WriteString(fmt.Sprintf("  Number of edges: %d (%d on boundary)\n", props.NumEdges, props.NumBoundaryEdges))
	sb.WriteString(fmt.Sprintf("  Area range: [%.4e, %.4e]\n", floats.Min(area), floats.Max(area)))
	sb.WriteString(fmt.Sprintf("  Diameter range: [%.4e, %.4e]\n", floats.Min(h), floats.Max(h)))
	sb.WriteString("=======================\n")
	return sb.String()
}
