package element

// TriP1 is the linear Lagrange triangle on the reference triangle
// (-1,-1), (1,-1), (-1,1). Its basis functions are the barycentric
// coordinates of the three vertices.
type TriP1 struct{}

func (TriP1) GetProperties() ElementProperties {
	return ElementProperties{
		Name:       "Lagrange Triangle Order 1",
		ShortName:  "Tri1",
		Type:       Tri,
		Order:      1,
		Np:         3,
		NEp:        2,
		NVp:        3,
		NIp:        0,
		NEdges:     3,
		Dimensions: D2,
	}
}

func (TriP1) GetReferenceGeometry() ReferenceGeometry {
	return ReferenceGeometry{
		R:            []float64{-1, 1, -1},
		S:            []float64{-1, -1, 1},
		VertexPoints: []int{0, 1, 2},
		// Edge k is opposite vertex k
		EdgePoints:     [][]int{{1, 2}, {2, 0}, {0, 1}},
		InteriorPoints: nil,
	}
}

func (TriP1) Basis(r, s float64) []float64 {
	return []float64{-(r + s) / 2, (1 + r) / 2, (1 + s) / 2}
}

func (TriP1) GradBasis(r, s float64) [][2]float64 {
	return [][2]float64{{-0.5, -0.5}, {0.5, 0}, {0, 0.5}}
}

// RSFromBarycentric maps barycentric weights to reference coordinates
func RSFromBarycentric(bc [3]float64) (r, s float64) {
	r = -bc[0] + bc[1] - bc[2]
	s = -bc[0] - bc[1] + bc[2]
	return
}
