package hls

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/utils"
)

// EdgeFrame is an orthogonal frame attached to a mesh edge: the unit tangent
// and two transverse directions, Normal2 = Tangent x Normal1
type EdgeFrame struct {
	Tangent, Normal1, Normal2 r3.Vec
}

// NewEdgeFrame builds the frame of the edge running from p1 to p2.
//
// Normal1 is picked by coordinate dominance of the tangent: when either of the
// x or y components exceeds 0.5 in magnitude, Normal1 = (t.y, -t.x, 0),
// otherwise Normal1 = (0, t.z, -t.y). Its length is then in [0.5, 1]. With
// renormalize set it is scaled to unit length, otherwise it is kept as is and
// the functional values of the edge scale with it.
func NewEdgeFrame(p1, p2 r3.Vec, renormalize bool) (ef EdgeFrame, err error) {
	var (
		d      = r3.Sub(p2, p1)
		length = r3.Norm(d)
		scale  = math.Max(r3.Norm(p1), r3.Norm(p2))
	)
	if !(length > utils.NODETOL*scale) || math.IsInf(length, 0) {
		err = fmt.Errorf("%w: |p2-p1| = %g between %v and %v",
			ErrDegenerateEdgeDirection, length, p1, p2)
		return
	}
	t := r3.Scale(1/length, d)
	var n1 r3.Vec
	if math.Abs(t.X) > 0.5 || math.Abs(t.Y) > 0.5 {
		n1 = r3.Vec{X: t.Y, Y: -t.X}
	} else {
		n1 = r3.Vec{Y: t.Z, Z: -t.Y}
	}
	if renormalize {
		n1 = r3.Unit(n1)
	}
	ef = EdgeFrame{
		Tangent: t,
		Normal1: n1,
		Normal2: r3.Cross(t, n1),
	}
	return
}

// Contractions returns the flattened tensors t⊗n1 and t⊗n2,
// vec[3i+j] = t[i]*n[j], so that vec·σ = tᵀ σ n for a row-major σ
func (ef EdgeFrame) Contractions() (vec1, vec2 [ValueDim]float64) {
	var (
		t  = [3]float64{ef.Tangent.X, ef.Tangent.Y, ef.Tangent.Z}
		n1 = [3]float64{ef.Normal1.X, ef.Normal1.Y, ef.Normal1.Z}
		n2 = [3]float64{ef.Normal2.X, ef.Normal2.Y, ef.Normal2.Z}
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			vec1[3*i+j] = t[i] * n1[j]
			vec2[3*i+j] = t[i] * n2[j]
		}
	}
	return
}

// EdgeGeometry is the part of the mesh needed to build edge frames
type EdgeGeometry interface {
	VertexCount() int
	EdgeCount() int
	EdgeEndpoints(edgeID int) (int, int)
	PointCoordinates(vertexID int) r3.Vec
}

// FrameTable is an immutable snapshot of the frames and midpoints of every
// mesh edge, together with the vertex coordinates and edge endpoints they
// were computed from. A new table, with a new version, is built whenever the
// mesh changes.
type FrameTable struct {
	version   uint64
	points    []r3.Vec
	endpoints [][2]int
	frames    []EdgeFrame
	midpoints []r3.Vec
}

// BuildFrameTable computes the frame and midpoint of every edge in geom
func BuildFrameTable(geom EdgeGeometry, version uint64, renormalize bool) (ft *FrameTable, err error) {
	var (
		nVerts = geom.VertexCount()
		nEdges = geom.EdgeCount()
	)
	ft = &FrameTable{
		version:   version,
		points:    make([]r3.Vec, nVerts),
		endpoints: make([][2]int, nEdges),
		frames:    make([]EdgeFrame, nEdges),
		midpoints: make([]r3.Vec, nEdges),
	}
	for v := range ft.points {
		ft.points[v] = geom.PointCoordinates(v)
	}
	for i := 0; i < nEdges; i++ {
		v1, v2 := geom.EdgeEndpoints(i)
		if v1 < 0 || v1 >= nVerts || v2 < 0 || v2 >= nVerts {
			return nil, fmt.Errorf("%w: edge %d vertices %d-%d outside [0,%d)",
				ErrInvalidEdge, i, v1, v2, nVerts)
		}
		p1, p2 := ft.points[v1], ft.points[v2]
		if ft.frames[i], err = NewEdgeFrame(p1, p2, renormalize); err != nil {
			return nil, fmt.Errorf("edge %d (vertices %d-%d): %w", i, v1, v2, err)
		}
		ft.endpoints[i] = [2]int{v1, v2}
		ft.midpoints[i] = r3.Scale(0.5, r3.Add(p1, p2))
	}
	return
}

func (ft *FrameTable) Version() uint64 { return ft.version }
func (ft *FrameTable) Len() int        { return len(ft.frames) }

// Frame returns the frame and midpoint of a global edge
func (ft *FrameTable) Frame(edgeID int) (EdgeFrame, r3.Vec, error) {
	if edgeID < 0 || edgeID >= len(ft.frames) {
		return EdgeFrame{}, r3.Vec{}, fmt.Errorf("%w: edge id %d outside [0,%d)",
			ErrInvalidEdge, edgeID, len(ft.frames))
	}
	return ft.frames[edgeID], ft.midpoints[edgeID], nil
}

// Point returns the coordinates of a vertex as captured by the table
func (ft *FrameTable) Point(vertexID int) (r3.Vec, error) {
	if vertexID < 0 || vertexID >= len(ft.points) {
		return r3.Vec{}, fmt.Errorf("vertex id %d outside [0,%d)", vertexID, len(ft.points))
	}
	return ft.points[vertexID], nil
}

// Endpoints returns the vertex ids of a global edge as captured by the table
func (ft *FrameTable) Endpoints(edgeID int) (int, int, error) {
	if edgeID < 0 || edgeID >= len(ft.endpoints) {
		return 0, 0, fmt.Errorf("%w: edge id %d outside [0,%d)",
			ErrInvalidEdge, edgeID, len(ft.endpoints))
	}
	e := ft.endpoints[edgeID]
	return e[0], e[1], nil
}
