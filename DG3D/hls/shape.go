package hls

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/DG3D/mesh"
)

// CellShape is the closed set of cell shapes an element can be requested
// for. Only Tetrahedron carries an element.
type CellShape interface {
	cellShape()
	String() string
}

type Tetrahedron struct{}

// Unsupported is any mesh cell kind this element is not defined on
type Unsupported struct {
	Kind mesh.ElementType
}

func (Tetrahedron) cellShape()       {}
func (Tetrahedron) String() string   { return mesh.Tet.String() }
func (Unsupported) cellShape()       {}
func (u Unsupported) String() string { return u.Kind.String() }

func ShapeFor(kind mesh.ElementType) CellShape {
	if kind == mesh.Tet {
		return Tetrahedron{}
	}
	return Unsupported{Kind: kind}
}

// Topology is the mesh as seen by the element library
type Topology interface {
	EdgeGeometry
	CellCount() int
	CellEdges(cellID int) []int
	CellVertices(cellID int) []int
	CellShape(cellID int) mesh.ElementType
}

// NewElementForShape dispatches element construction on the cell shape
func NewElementForShape(shape CellShape, edgeIDs []int, vertices []r3.Vec,
	table *FrameTable, cfg Config) (*Element, error) {
	switch s := shape.(type) {
	case Tetrahedron:
		return NewElement(edgeIDs, vertices, table, cfg)
	case Unsupported:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedElementShape, s)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedElementShape, shape)
	}
}

// NewCellElement builds the element of one mesh cell. Coordinates are read
// from the frame table, so the element never pairs vertices and frames from
// two different states of the mesh. A cell whose edges do not join its
// vertices in the table is reported as ErrStaleFrameTable.
func NewCellElement(topo Topology, cellID int, table *FrameTable, cfg Config) (*Element, error) {
	if cellID < 0 || cellID >= topo.CellCount() {
		return nil, fmt.Errorf("cell %d outside [0,%d)", cellID, topo.CellCount())
	}
	if table == nil {
		return nil, fmt.Errorf("cell %d: %w: no frame table", cellID, ErrStaleFrameTable)
	}
	var (
		vertIDs  = topo.CellVertices(cellID)
		edgeIDs  = topo.CellEdges(cellID)
		vertices = make([]r3.Vec, len(vertIDs))
		err      error
	)
	for i, v := range vertIDs {
		if vertices[i], err = table.Point(v); err != nil {
			return nil, fmt.Errorf("cell %d: %w: %v", cellID, ErrStaleFrameTable, err)
		}
	}
	if len(vertIDs) == 4 && len(edgeIDs) == 6 {
		for e, id := range edgeIDs {
			a, b, err := table.Endpoints(id)
			if err != nil {
				return nil, fmt.Errorf("cell %d local edge %d: %w", cellID, e, err)
			}
			va, vb := vertIDs[mesh.TetEdges[e][0]], vertIDs[mesh.TetEdges[e][1]]
			if !(a == va && b == vb) && !(a == vb && b == va) {
				return nil, fmt.Errorf("cell %d local edge %d: %w: edge %d joins %d-%d, cell has %d-%d",
					cellID, e, ErrStaleFrameTable, id, a, b, va, vb)
			}
		}
	}
	el, err := NewElementForShape(ShapeFor(topo.CellShape(cellID)), edgeIDs, vertices, table, cfg)
	if err != nil {
		return nil, fmt.Errorf("cell %d: %w", cellID, err)
	}
	return el, nil
}
