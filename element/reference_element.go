package element

// ElementProperties contains metadata describing an element type
type ElementProperties struct {
	Name       string          // Full descriptive name (e.g., "Lagrange Triangle Order 1")
	ShortName  string          // Abbreviated name (e.g., "Tri1")
	Type       ElementGeometry // Element shape
	Order      int             // Polynomial order
	Np         int             // Total number of nodes/points in element
	NEp        int             // Number of nodes per edge
	NVp        int             // Number of vertex nodes (equals number of vertices)
	NIp        int             // Number of strictly interior nodes
	NEdges     int             // Number of edges in each element
	Dimensions Dimensionality  // Spatial dimension
}

// ReferenceGeometry defines the layout of nodes in reference space
type ReferenceGeometry struct {
	// Node coordinates in reference space, length Np each
	R, S []float64

	// Node classification by topological entity
	VertexPoints   []int   // Indices of nodes located at vertices
	EdgePoints     [][]int // [edge_num][point_indices] - nodes on each edge
	InteriorPoints []int   // Indices of nodes strictly inside the element
}

// ReferenceElement defines element properties and basis in reference space
// This interface is implemented once per element type
type ReferenceElement interface {
	// Element metadata and properties
	GetProperties() ElementProperties

	// Node distribution in reference space
	GetReferenceGeometry() ReferenceGeometry

	// Basis values at a reference point, length Np
	Basis(r, s float64) []float64

	// Reference gradients of the basis, [Np][2] as (∂/∂r, ∂/∂s)
	GradBasis(r, s float64) [][2]float64
}
