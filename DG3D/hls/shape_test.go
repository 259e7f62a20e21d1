package hls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/DG3D/mesh"
)

func TestShapeFor(t *testing.T) {
	assert.Equal(t, Tetrahedron{}, ShapeFor(mesh.Tet))
	for _, kind := range []mesh.ElementType{mesh.Hex, mesh.Prism, mesh.Pyramid, mesh.Triangle} {
		s := ShapeFor(kind)
		assert.Equal(t, Unsupported{Kind: kind}, s)
		assert.Equal(t, kind.String(), s.String())
	}
}

func TestNewCellElement_MixedMesh(t *testing.T) {
	m, err := mesh.NewMeshFromArrays(
		[][]float64{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
			{0.5, 0.5, 2},
		},
		[][]int{
			{0, 1, 2, 3, 4, 5, 6, 7},
			{4, 5, 7, 8},
		},
		[]mesh.ElementType{mesh.Hex, mesh.Tet},
	)
	require.NoError(t, err)
	ft, err := BuildFrameTable(m, 1, true)
	require.NoError(t, err)

	_, err = NewCellElement(m, 0, ft, DefaultConfig())
	assert.ErrorIs(t, err, ErrUnsupportedElementShape)

	el, err := NewCellElement(m, 1, ft, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, NumDofs, el.LocalDofCount())

	_, err = NewCellElement(m, 2, ft, DefaultConfig())
	assert.Error(t, err)
}

func TestNewElementForShape(t *testing.T) {
	_, err := NewElementForShape(Unsupported{Kind: mesh.Prism}, nil, []r3.Vec{}, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrUnsupportedElementShape)
}

func TestNewCellElement_TableGeometry(t *testing.T) {
	m := mesh.NewUnitTetMesh()
	ft, err := BuildFrameTable(m, 1, true)
	require.NoError(t, err)

	m.Vertices[3] = []float64{0, 0, 5}
	el, err := NewCellElement(m, 0, ft, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{Z: 1}, el.Vertices()[3])
	_, mids := el.EdgeFrames()
	assert.Equal(t, r3.Vec{Z: 0.5}, mids[2])

	p, err := ft.Point(3)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{Z: 1}, p)
	_, err = ft.Point(4)
	assert.Error(t, err)
	a, b, err := ft.Endpoints(5)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 3}, [2]int{a, b})
	_, _, err = ft.Endpoints(6)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

// reorderedEdges reports the cell edges of a mesh in a different order
type reorderedEdges struct {
	*mesh.Mesh
}

func (r reorderedEdges) CellEdges(cellID int) []int {
	e := r.Mesh.CellEdges(cellID)
	return []int{e[1], e[0], e[2], e[3], e[4], e[5]}
}

func TestNewCellElement_EdgeMismatch(t *testing.T) {
	m := mesh.NewUnitTetMesh()
	ft, err := BuildFrameTable(m, 1, true)
	require.NoError(t, err)
	_, err = NewCellElement(reorderedEdges{m}, 0, ft, DefaultConfig())
	assert.ErrorIs(t, err, ErrStaleFrameTable)
	_, err = NewCellElement(m, 0, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrStaleFrameTable)
}

func TestSnapshotTopology(t *testing.T) {
	m := mesh.NewUnitTetMesh()
	ts := SnapshotTopology(m)
	assert.Equal(t, 4, ts.VertexCount())
	assert.Equal(t, 6, ts.EdgeCount())
	assert.Equal(t, 1, ts.CellCount())
	assert.Equal(t, mesh.Tet, ts.CellShape(0))

	m.Vertices[1] = []float64{7, 7, 7}
	m.EtoV[0][0] = 3
	m.EToEdge[0][0] = 5
	assert.Equal(t, r3.Vec{X: 1}, ts.PointCoordinates(1))
	assert.Equal(t, []int{0, 1, 2, 3}, ts.CellVertices(0))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, ts.CellEdges(0))
	a, b := ts.EdgeEndpoints(0)
	assert.Equal(t, [2]int{0, 1}, [2]int{a, b})

	ft, err := BuildFrameTable(ts, 1, true)
	require.NoError(t, err)
	el, err := NewCellElement(ts, 0, ft, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 1}, el.Vertices()[1])
}
