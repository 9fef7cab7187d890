package element

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriP1Properties(t *testing.T) {
	var el ReferenceElement = TriP1{}
	props := el.GetProperties()
	assert.Equal(t, 3, props.Np)
	assert.Equal(t, Tri, props.Type)
	assert.Equal(t, D2, props.Dimensions)
	rg := el.GetReferenceGeometry()
	require.Len(t, rg.R, props.Np)
	require.Len(t, rg.S, props.Np)
	assert.Len(t, rg.EdgePoints, props.NEdges)
}

func TestTriP1BasisIsNodal(t *testing.T) {
	var (
		el  = TriP1{}
		rg  = el.GetReferenceGeometry()
		tol = 1.e-14
	)
	for i := range rg.R {
		t.Run(fmt.Sprintf("node=%d", i), func(t *testing.T) {
			phi := el.Basis(rg.R[i], rg.S[i])
			for j := range phi {
				expected := 0.
				if i == j {
					expected = 1.
				}
				assert.InDelta(t, expected, phi[j], tol)
			}
		})
	}
}

func TestTriP1PartitionOfUnity(t *testing.T) {
	el := TriP1{}
	for _, rs := range [][2]float64{{-0.3, -0.2}, {0, -1}, {-1, 0}, {-0.9, 0.8}} {
		phi := el.Basis(rs[0], rs[1])
		assert.InDelta(t, 1., phi[0]+phi[1]+phi[2], 1.e-14)
		grad := el.GradBasis(rs[0], rs[1])
		assert.InDelta(t, 0., grad[0][0]+grad[1][0]+grad[2][0], 1.e-14)
		assert.InDelta(t, 0., grad[0][1]+grad[1][1]+grad[2][1], 1.e-14)
	}
}

func TestRSFromBarycentric(t *testing.T) {
	rg := TriP1{}.GetReferenceGeometry()
	for i, bc := range [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		r, s := RSFromBarycentric(bc)
		assert.InDelta(t, rg.R[i], r, 1.e-14)
		assert.InDelta(t, rg.S[i], s, 1.e-14)
	}
	phi := TriP1{}.Basis(RSFromBarycentric([3]float64{0.2, 0.3, 0.5}))
	assert.InDeltaSlice(t, []float64{0.2, 0.3, 0.5}, phi, 1.e-14)
}
