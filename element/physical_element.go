package element

// MeshProperties summarises the size of a physical mesh
type MeshProperties struct {
	NumElements      int
	NumVertices      int
	NumEdges         int
	NumBoundaryEdges int
}

// GeometricTransform holds the affine reference to physical map of one
// triangle. The reference triangle is (-1,-1), (1,-1), (-1,1).
//
//	J = | ∂x/∂r  ∂x/∂s |
//	    | ∂y/∂r  ∂y/∂s |
type GeometricTransform struct {
	J    [2][2]float64
	Jinv [2][2]float64
	// Jacobian determinant |∂(x,y)/∂(r,s)|, equals area/2 for affine triangles
	Det float64
}
