package hls

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/DG3D/mesh"
)

func assertVecInDelta(t *testing.T, expected, actual r3.Vec, delta float64, msg ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta, msg...)
	assert.InDelta(t, expected.Y, actual.Y, delta, msg...)
	assert.InDelta(t, expected.Z, actual.Z, delta, msg...)
}

func TestNewEdgeFrame(t *testing.T) {
	t.Run("Axis aligned edge", func(t *testing.T) {
		ef, err := NewEdgeFrame(r3.Vec{}, r3.Vec{X: 2}, true)
		require.NoError(t, err)
		assertVecInDelta(t, r3.Vec{X: 1}, ef.Tangent, 1e-15)
		assertVecInDelta(t, r3.Vec{Y: -1}, ef.Normal1, 1e-15)
		assertVecInDelta(t, r3.Vec{Z: -1}, ef.Normal2, 1e-15)
	})

	t.Run("Z dominant edge", func(t *testing.T) {
		ef, err := NewEdgeFrame(r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{X: 1, Y: 1, Z: 4}, true)
		require.NoError(t, err)
		assertVecInDelta(t, r3.Vec{Z: 1}, ef.Tangent, 1e-15)
		assertVecInDelta(t, r3.Vec{Y: 1}, ef.Normal1, 1e-15)
		assertVecInDelta(t, r3.Vec{X: -1}, ef.Normal2, 1e-15)
	})

	t.Run("Orthonormal for arbitrary directions", func(t *testing.T) {
		dirs := []r3.Vec{
			{X: 1, Y: 1, Z: 1},
			{X: -0.2, Y: 0.3, Z: 0.9},
			{X: 0.5, Y: -0.5, Z: 0.7071},
			{X: 1e-3, Y: 0, Z: -1},
			{X: 3, Y: -4, Z: 12},
		}
		p1 := r3.Vec{X: 0.1, Y: 0.2, Z: 0.3}
		for _, d := range dirs {
			ef, err := NewEdgeFrame(p1, r3.Add(p1, d), true)
			require.NoError(t, err)
			assert.InDelta(t, 1, r3.Norm(ef.Tangent), 1e-10)
			assert.InDelta(t, 1, r3.Norm(ef.Normal1), 1e-10)
			assert.InDelta(t, 1, r3.Norm(ef.Normal2), 1e-10)
			assert.InDelta(t, 0, r3.Dot(ef.Tangent, ef.Normal1), 1e-10)
			assert.InDelta(t, 0, r3.Dot(ef.Tangent, ef.Normal2), 1e-10)
			assert.InDelta(t, 0, r3.Dot(ef.Normal1, ef.Normal2), 1e-10)
			assertVecInDelta(t, r3.Unit(d), ef.Tangent, 1e-12)
		}
	})

	t.Run("Raw normal keeps its length", func(t *testing.T) {
		ef, err := NewEdgeFrame(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, false)
		require.NoError(t, err)
		s := 1 / math.Sqrt(3)
		assertVecInDelta(t, r3.Vec{X: s, Y: -s}, ef.Normal1, 1e-15)
		assert.InDelta(t, math.Sqrt(2./3.), r3.Norm(ef.Normal1), 1e-12)
		assert.InDelta(t, 0, r3.Dot(ef.Tangent, ef.Normal2), 1e-12)
	})

	t.Run("Degenerate edge", func(t *testing.T) {
		p := r3.Vec{X: 1, Y: 2, Z: 3}
		_, err := NewEdgeFrame(p, p, true)
		assert.True(t, errors.Is(err, ErrDegenerateEdgeDirection))
		_, err = NewEdgeFrame(p, r3.Vec{X: math.NaN()}, true)
		assert.ErrorIs(t, err, ErrDegenerateEdgeDirection)
	})
}

func TestContractions(t *testing.T) {
	ef, err := NewEdgeFrame(r3.Vec{X: 0.2}, r3.Vec{X: 0.7, Y: 0.4, Z: -0.3}, true)
	require.NoError(t, err)
	vec1, vec2 := ef.Contractions()
	// vec·σ = tᵀσn for any σ
	sigma := [ValueDim]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	apply := func(n r3.Vec) float64 {
		s := r3.Vec{
			X: sigma[0]*n.X + sigma[1]*n.Y + sigma[2]*n.Z,
			Y: sigma[3]*n.X + sigma[4]*n.Y + sigma[5]*n.Z,
			Z: sigma[6]*n.X + sigma[7]*n.Y + sigma[8]*n.Z,
		}
		return r3.Dot(ef.Tangent, s)
	}
	var d1, d2 float64
	for q := range sigma {
		d1 += vec1[q] * sigma[q]
		d2 += vec2[q] * sigma[q]
	}
	assert.InDelta(t, apply(ef.Normal1), d1, 1e-13)
	assert.InDelta(t, apply(ef.Normal2), d2, 1e-13)
}

func TestBuildFrameTable(t *testing.T) {
	m := mesh.NewUnitTetMesh()
	ft, err := BuildFrameTable(m, 3, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), ft.Version())
	require.Equal(t, 6, ft.Len())

	for id := 0; id < ft.Len(); id++ {
		ef, mid, err := ft.Frame(id)
		require.NoError(t, err)
		a, b := m.EdgeEndpoints(id)
		pa, pb := m.PointCoordinates(a), m.PointCoordinates(b)
		assertVecInDelta(t, r3.Scale(0.5, r3.Add(pa, pb)), mid, 1e-15)
		assertVecInDelta(t, r3.Unit(r3.Sub(pb, pa)), ef.Tangent, 1e-15)
	}

	t.Run("Invalid edge", func(t *testing.T) {
		_, _, err := ft.Frame(6)
		assert.ErrorIs(t, err, ErrInvalidEdge)
		_, _, err = ft.Frame(-1)
		assert.ErrorIs(t, err, ErrInvalidEdge)
	})

	t.Run("Degenerate mesh edge", func(t *testing.T) {
		bad, err := mesh.NewMeshFromArrays(
			[][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 0, 0}},
			[][]int{{0, 1, 2, 3}},
			[]mesh.ElementType{mesh.Tet},
		)
		require.NoError(t, err)
		_, err = BuildFrameTable(bad, 1, true)
		assert.ErrorIs(t, err, ErrDegenerateEdgeDirection)
	})
}
