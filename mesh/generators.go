package mesh

import "fmt"

// Rectangle builds a structured mesh of nx × ny squares, each cut along
// the diagonal from its lower left to its upper right corner. The right
// angle vertex of each triangle is its newest vertex, so refinement edges
// are the diagonals and neighbouring cells share them.
func Rectangle(x0, x1, y0, y1 float64, nx, ny int) (*TriMesh, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("invalid rectangle resolution nx=%d, ny=%d", nx, ny)
	}
	if !(x1 > x0) || !(y1 > y0) {
		return nil, fmt.Errorf("invalid rectangle [%g,%g]x[%g,%g]", x0, x1, y0, y1)
	}
	keep := func(i, j int) bool { return true }
	return structured(x0, y0, (x1-x0)/float64(nx), (y1-y0)/float64(ny), nx, ny, keep)
}

// UnitSquare builds an n × n mesh of the unit square
func UnitSquare(n int) (*TriMesh, error) {
	return Rectangle(0, 1, 0, 1, n, n)
}

// LShape builds a mesh of (-1,1)² without the quadrant [0,1)×(-1,0], with
// n squares per unit length. The re-entrant corner sits at the origin.
func LShape(n int) (*TriMesh, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid L-shape resolution n=%d", n)
	}
	h := 1. / float64(n)
	keep := func(i, j int) bool { return !(i >= n && j < n) }
	return structured(-1, -1, h, h, 2*n, 2*n, keep)
}

func structured(x0, y0, hx, hy float64, nx, ny int, keep func(i, j int) bool) (*TriMesh, error) {
	var (
		X, Y  []float64
		cells [][3]int
		index = make(map[int]int)
	)
	point := func(i, j int) int {
		key := i + j*(nx+1)
		if p, ok := index[key]; ok {
			return p
		}
		p := len(X)
		index[key] = p
		X = append(X, x0+float64(i)*hx)
		Y = append(Y, y0+float64(j)*hy)
		return p
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if !keep(i, j) {
				continue
			}
			p00, p10 := point(i, j), point(i+1, j)
			p01, p11 := point(i, j+1), point(i+1, j+1)
			cells = append(cells,
				[3]int{p10, p11, p00},
				[3]int{p01, p00, p11},
			)
		}
	}
	return NewTriMesh(X, Y, cells)
}
