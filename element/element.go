package element

// Dimensionality represents the spatial dimension of an element
type Dimensionality uint8

const (
	D0 Dimensionality = iota // 0D elements (points)
	D1                       // 1D elements (lines, edges)
	D2                       // 2D elements (triangles, quadrilaterals)
)

// ElementGeometry identifies the shape of an element
type ElementGeometry uint8

const (
	Tri ElementGeometry = iota
	Rectangle
	Line
)

func (g ElementGeometry) String() string {
	switch g {
	case Tri:
		return "Tri"
	case Rectangle:
		return "Rectangle"
	case Line:
		return "Line"
	default:
		return "Unknown"
	}
}
