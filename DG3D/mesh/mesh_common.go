package mesh

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ElementType represents different element types
type ElementType int

const (
	Line ElementType = iota
	Triangle
	Quad
	Tet
	Hex
	Prism
	Pyramid
)

func (e ElementType) String() string {
	if e < Line || e > Pyramid {
		return fmt.Sprintf("ElementType(%d)", int(e))
	}
	return [...]string{"Line", "Triangle", "Quad", "Tet", "Hex", "Prism", "Pyramid"}[e]
}

// Edge is a mesh edge oriented from the lower to the higher vertex index
type Edge [2]int

// Mesh represents an unstructured mesh with vertex and edge connectivity
type Mesh struct {
	// Geometry
	Vertices [][]float64 // Vertex coordinates [nvertices][3]

	// Element data
	EtoV         [][]int       // Element to vertex connectivity [nelems][nverts_per_elem]
	ElementTypes []ElementType // Element type for each element
	ElementTags  []int         // Physical group/tag for each element

	// Connectivity (built during initialization)
	Edges   []Edge       // All unique edges in mesh
	EdgeMap map[Edge]int // Map from oriented vertex pair to edge ID
	EToEdge [][]int      // Element to edge connectivity [nelems][nedges_per_elem]

	BoundaryTags map[int]string // Boundary condition tags

	// Mesh statistics
	NumElements int
	NumVertices int
	NumEdges    int
}

// NewMesh creates an empty mesh
func NewMesh() *Mesh {
	return &Mesh{
		EdgeMap:      make(map[Edge]int),
		BoundaryTags: make(map[int]string),
	}
}

// NewMeshFromArrays builds a mesh and its edge connectivity from raw arrays
func NewMeshFromArrays(vertices [][]float64, etov [][]int, types []ElementType) (m *Mesh, err error) {
	if len(etov) != len(types) {
		err = fmt.Errorf("element count mismatch: %d connectivity rows, %d types", len(etov), len(types))
		return
	}
	m = NewMesh()
	m.Vertices = vertices
	m.EtoV = etov
	m.ElementTypes = types
	m.ElementTags = make([]int, len(etov))
	m.NumVertices = len(vertices)
	m.NumElements = len(etov)
	if err = m.Validate(); err != nil {
		return nil, err
	}
	m.BuildConnectivity()
	return
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

// Validate checks vertex dimensions and element vertex references
func (m *Mesh) Validate() error {
	for i, v := range m.Vertices {
		if len(v) != 3 {
			return fmt.Errorf("vertex %d has %d coordinates, expected 3", i, len(v))
		}
	}
	for k, verts := range m.EtoV {
		if want := NumVertices(m.ElementTypes[k]); want != 0 && len(verts) != want {
			return fmt.Errorf("element %d (%s) has %d vertices, expected %d",
				k, m.ElementTypes[k], len(verts), want)
		}
		for _, v := range verts {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("element %d references vertex %d outside [0,%d)", k, v, len(m.Vertices))
			}
		}
	}
	return nil
}

// BuildConnectivity numbers the unique edges and builds element to edge
// connectivity. Edges are numbered in order of first appearance.
func (m *Mesh) BuildConnectivity() {
	m.Edges = m.Edges[:0]
	m.EdgeMap = make(map[Edge]int)
	m.EToEdge = make([][]int, m.NumElements)

	for elemID := 0; elemID < m.NumElements; elemID++ {
		edgeVertices := GetElementEdges(m.ElementTypes[elemID], m.EtoV[elemID])
		m.EToEdge[elemID] = make([]int, len(edgeVertices))

		for localEdgeID, ev := range edgeVertices {
			key := NewEdge(ev[0], ev[1])
			edgeID, exists := m.EdgeMap[key]
			if !exists {
				edgeID = len(m.Edges)
				m.Edges = append(m.Edges, key)
				m.EdgeMap[key] = edgeID
			}
			m.EToEdge[elemID][localEdgeID] = edgeID
		}
	}

	m.NumEdges = len(m.Edges)
}

// NewEdge orients the vertex pair from lower to higher index, so every
// element sharing the edge sees the same direction
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// NumVertices returns the vertex count of an element type, 0 if unknown
func NumVertices(elemType ElementType) int {
	switch elemType {
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad, Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	default:
		return 0
	}
}

// GetElementEdges returns the vertex pairs for each local edge of an element
func GetElementEdges(elemType ElementType, vertices []int) [][2]int {
	var local [][2]int
	switch elemType {
	case Tet:
		local = TetEdges[:]
	case Hex:
		local = [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom
			{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		}
	case Prism:
		local = [][2]int{
			{0, 1}, {1, 2}, {2, 0},
			{3, 4}, {4, 5}, {5, 3},
			{0, 3}, {1, 4}, {2, 5},
		}
	case Pyramid:
		local = [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{0, 4}, {1, 4}, {2, 4}, {3, 4},
		}
	default:
		return [][2]int{}
	}
	edges := make([][2]int, len(local))
	for i, le := range local {
		edges[i] = [2]int{vertices[le[0]], vertices[le[1]]}
	}
	return edges
}

// TetEdges is the local edge ordering of a tetrahedron
var TetEdges = [6][2]int{
	{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
}

// The methods below expose the mesh through the narrow query interface used
// by the element library.

func (m *Mesh) VertexCount() int { return len(m.Vertices) }
func (m *Mesh) EdgeCount() int   { return m.NumEdges }
func (m *Mesh) CellCount() int   { return m.NumElements }

func (m *Mesh) EdgeEndpoints(edgeID int) (int, int) {
	e := m.Edges[edgeID]
	return e[0], e[1]
}

func (m *Mesh) PointCoordinates(vertexID int) r3.Vec {
	v := m.Vertices[vertexID]
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func (m *Mesh) CellEdges(cellID int) []int    { return m.EToEdge[cellID] }
func (m *Mesh) CellVertices(cellID int) []int { return m.EtoV[cellID] }

func (m *Mesh) CellShape(cellID int) ElementType { return m.ElementTypes[cellID] }

// PrintStatistics writes mesh statistics to w
func (m *Mesh) PrintStatistics(w io.Writer) {
	fmt.Fprintf(w, "Mesh Statistics:\n")
	fmt.Fprintf(w, "  Vertices: %d\n", m.NumVertices)
	fmt.Fprintf(w, "  Elements: %d\n", m.NumElements)
	fmt.Fprintf(w, "  Edges: %d\n", m.NumEdges)

	// Count element types
	typeCounts := make(map[ElementType]int)
	for _, t := range m.ElementTypes {
		typeCounts[t]++
	}

	fmt.Fprintf(w, "  Element types:\n")
	for t := Line; t <= Pyramid; t++ {
		if count := typeCounts[t]; count > 0 {
			fmt.Fprintf(w, "    %s: %d\n", t, count)
		}
	}
}
