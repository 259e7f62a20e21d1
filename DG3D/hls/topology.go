package hls

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/DG3D/mesh"
)

// TopologySnapshot is a deep copy of a Topology. Later changes to the mesh
// it was taken from do not show through it.
type TopologySnapshot struct {
	points    []r3.Vec
	edges     [][2]int
	cellEdges [][]int
	cellVerts [][]int
	shapes    []mesh.ElementType
}

func SnapshotTopology(topo Topology) *TopologySnapshot {
	var (
		nVerts = topo.VertexCount()
		nEdges = topo.EdgeCount()
		nCells = topo.CellCount()
		ts     = &TopologySnapshot{
			points:    make([]r3.Vec, nVerts),
			edges:     make([][2]int, nEdges),
			cellEdges: make([][]int, nCells),
			cellVerts: make([][]int, nCells),
			shapes:    make([]mesh.ElementType, nCells),
		}
	)
	for v := range ts.points {
		ts.points[v] = topo.PointCoordinates(v)
	}
	for e := range ts.edges {
		a, b := topo.EdgeEndpoints(e)
		ts.edges[e] = [2]int{a, b}
	}
	for k := 0; k < nCells; k++ {
		ts.cellEdges[k] = append([]int(nil), topo.CellEdges(k)...)
		ts.cellVerts[k] = append([]int(nil), topo.CellVertices(k)...)
		ts.shapes[k] = topo.CellShape(k)
	}
	return ts
}

func (ts *TopologySnapshot) VertexCount() int { return len(ts.points) }
func (ts *TopologySnapshot) EdgeCount() int   { return len(ts.edges) }
func (ts *TopologySnapshot) CellCount() int   { return len(ts.shapes) }

func (ts *TopologySnapshot) EdgeEndpoints(edgeID int) (int, int) {
	e := ts.edges[edgeID]
	return e[0], e[1]
}

func (ts *TopologySnapshot) PointCoordinates(vertexID int) r3.Vec { return ts.points[vertexID] }

// CellEdges and CellVertices return the stored slices, callers must not
// modify them
func (ts *TopologySnapshot) CellEdges(cellID int) []int    { return ts.cellEdges[cellID] }
func (ts *TopologySnapshot) CellVertices(cellID int) []int { return ts.cellVerts[cellID] }

func (ts *TopologySnapshot) CellShape(cellID int) mesh.ElementType { return ts.shapes[cellID] }
