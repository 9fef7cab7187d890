package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/biharmonic/mesh"
	"github.com/notargets/biharmonic/space"
)

// vtkTriangle is the VTK cell type code of a linear triangle
const vtkTriangle = 5

// VTUWriter writes ASCII VTK unstructured grids into Dir, one file per call
type VTUWriter struct {
	Dir    string
	Prefix string
}

// Snapshot writes the mesh with uh as point data and eta as cell data
func (w VTUWriter) Snapshot(iteration int, m *mesh.TriMesh, uh space.Function, eta []float64) error {
	_, err := w.write(fmt.Sprintf("%s_%03d", w.Prefix, iteration), m, uh, eta)
	return err
}

// WriteSolution writes the final field, without cell data
func (w VTUWriter) WriteSolution(m *mesh.TriMesh, uh space.Function) (string, error) {
	return w.write(w.Prefix+"_solution", m, uh, nil)
}

func (w VTUWriter) write(key string, m *mesh.TriMesh, uh space.Function, eta []float64) (path string, err error) {
	var (
		np = m.NumberOfPoints()
		nc = m.NumberOfCells()
	)
	if len(uh.Values) != np {
		return "", fmt.Errorf("have %d point values for %d points", len(uh.Values), np)
	}
	if eta != nil && len(eta) != nc {
		return "", fmt.Errorf("have %d cell values for %d cells", len(eta), nc)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	fmt.Fprintf(&buf, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", np, nc)
	topology(&buf, m)
	fmt.Fprintf(&buf, "<PointData Scalars=\"uh\">\n")
	dataArray(&buf, "uh", uh.Values)
	fmt.Fprintf(&buf, "</PointData>\n")
	if eta != nil {
		fmt.Fprintf(&buf, "<CellData Scalars=\"eta\">\n")
		dataArray(&buf, "eta", eta)
		fmt.Fprintf(&buf, "</CellData>\n")
	}
	fmt.Fprintf(&buf, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")

	if err = os.MkdirAll(w.Dir, 0o755); err != nil {
		return
	}
	path = filepath.Join(w.Dir, key+".vtu")
	err = os.WriteFile(path, buf.Bytes(), 0o644)
	return
}

func topology(buf *bytes.Buffer, m *mesh.TriMesh) {
	fmt.Fprintf(buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for i := range m.X {
		fmt.Fprintf(buf, "%23.15e %23.15e 0 ", m.X[i], m.Y[i])
	}
	fmt.Fprintf(buf, "\n</DataArray>\n</Points>\n")

	fmt.Fprintf(buf, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for _, c := range m.Cells {
		fmt.Fprintf(buf, "%d %d %d ", c[0], c[1], c[2])
	}
	fmt.Fprintf(buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	for k := range m.Cells {
		fmt.Fprintf(buf, "%d ", 3*(k+1))
	}
	fmt.Fprintf(buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for range m.Cells {
		fmt.Fprintf(buf, "%d ", vtkTriangle)
	}
	fmt.Fprintf(buf, "\n</DataArray>\n</Cells>\n")
}

func dataArray(buf *bytes.Buffer, name string, values []float64) {
	fmt.Fprintf(buf, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"1\" format=\"ascii\">\n", name)
	for _, v := range values {
		fmt.Fprintf(buf, "%g ", v)
	}
	fmt.Fprintf(buf, "\n</DataArray>\n")
}
