package mesh

import (
	"fmt"
)

// Bisect refines the marked cells by newest vertex bisection. Edges of
// neighbouring cells are closed over until the result is conforming. New
// points are appended; existing point indices never change.
func (m *TriMesh) Bisect(marked []int) error {
	if len(marked) == 0 {
		return nil
	}
	var (
		t        = m.topology()
		nc       = len(m.Cells)
		isMarked = make([]bool, len(t.Edges))
	)
	for _, k := range marked {
		if k < 0 || k >= nc {
			return fmt.Errorf("%w: marked cell %d outside [0,%d)", ErrRefine, k, nc)
		}
		isMarked[t.CellEdges[k][0]] = true
	}

	// Closure: a cell with any marked edge must split its refinement edge
	for changed := true; changed; {
		changed = false
		for k := range m.Cells {
			ce := t.CellEdges[k]
			if !isMarked[ce[0]] && (isMarked[ce[1]] || isMarked[ce[2]]) {
				isMarked[ce[0]] = true
				changed = true
			}
		}
	}

	mid := make([]int, len(t.Edges))
	for e, on := range isMarked {
		if !on {
			mid[e] = -1
			continue
		}
		p, q := t.Edges[e][0], t.Edges[e][1]
		mid[e] = len(m.X)
		m.X = append(m.X, (m.X[p]+m.X[q])/2)
		m.Y = append(m.Y, (m.Y[p]+m.Y[q])/2)
	}

	cells := make([][3]int, 0, 2*nc)
	for k, c := range m.Cells {
		ce := t.CellEdges[k]
		if mid[ce[0]] < 0 {
			cells = append(cells, c)
			continue
		}
		left, right := split(c, mid[ce[0]])
		// the refinement edge of left is c's edge 2, of right c's edge 1
		cells = appendSplit(cells, left, mid[ce[2]])
		cells = appendSplit(cells, right, mid[ce[1]])
	}
	if len(cells) <= nc {
		return fmt.Errorf("%w: cell count did not grow (%d -> %d)", ErrRefine, nc, len(cells))
	}
	m.Cells = cells
	m.topo = nil
	return nil
}

// Refine bisects every cell the given number of times
func (m *TriMesh) Refine(times int) error {
	for i := 0; i < times; i++ {
		all := make([]int, len(m.Cells))
		for k := range all {
			all[k] = k
		}
		if err := m.Bisect(all); err != nil {
			return err
		}
	}
	return nil
}

// split bisects the refinement edge of c at point p. Both children keep the
// counterclockwise orientation and take p as their newest vertex.
func split(c [3]int, p int) (left, right [3]int) {
	left = [3]int{p, c[0], c[1]}
	right = [3]int{p, c[2], c[0]}
	return
}

func appendSplit(cells [][3]int, c [3]int, p int) [][3]int {
	if p < 0 {
		return append(cells, c)
	}
	left, right := split(c, p)
	return append(cells, left, right)
}
