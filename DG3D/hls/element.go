package hls

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/utils"
)

// Element is the 14 dof symmetric-curl element on one tetrahedron. The edge
// frames it was built from are captured by value together with the version
// of their frame table, nothing is shared with the enclosing space.
type Element struct {
	edges       [6]int    // Global edge ids in local edge order
	vertices    [4]r3.Vec // Physical vertex coordinates
	frames      [6]EdgeFrame
	midpoints   [6]r3.Vec
	version     uint64       // Version of the frame table used
	condition   float64      // Condition number of the functional matrix
	functionals utils.Matrix // F, 14x14, read only
	transform   utils.Matrix // B = (F⁻¹)ᵀ, 14x14, read only
}

// NewElement builds the functional matrix of the tetrahedron from the frames
// of its 6 edges and inverts it. Edge ids must follow the local edge order
// (0,1),(0,2),(0,3),(1,2),(1,3),(2,3) of the given vertices.
func NewElement(edgeIDs []int, vertices []r3.Vec, table *FrameTable, cfg Config) (el *Element, err error) {
	if len(edgeIDs) != 6 {
		err = fmt.Errorf("%w: a tetrahedron has 6 edges, got %d", ErrInvalidEdge, len(edgeIDs))
		return
	}
	if len(vertices) != 4 {
		err = fmt.Errorf("a tetrahedron has 4 vertices, got %d", len(vertices))
		return
	}
	if table == nil {
		err = fmt.Errorf("%w: no frame table", ErrStaleFrameTable)
		return
	}
	el = &Element{
		version: table.Version(),
	}
	copy(el.edges[:], edgeIDs)
	copy(el.vertices[:], vertices)
	for e, id := range el.edges {
		if el.frames[e], el.midpoints[e], err = table.Frame(id); err != nil {
			return nil, fmt.Errorf("local edge %d: %w", e, err)
		}
	}
	var F utils.Matrix
	if F, err = BuildFunctionalMatrix(el.frames, el.midpoints, el.vertices, cfg.Interior); err != nil {
		return nil, err
	}
	if el.transform, el.condition, err = NewBasisTransform(F, cfg.MaxCondition); err != nil {
		return nil, fmt.Errorf("edges %v: %w", el.edges, err)
	}
	el.functionals = F.SetReadOnly("FunctionalMatrix")
	return
}

func (el *Element) LocalDofCount() int  { return NumDofs }
func (el *Element) ValueDimension() int { return ValueDim }

// Evaluate returns the 14 shape functions at the physical point p, one
// flattened 3x3 tensor per row
func (el *Element) Evaluate(p r3.Vec) utils.Matrix {
	return el.transform.Mul(RawBasis(p))
}

// EvaluateSymCurl returns the symmetric curl of the 14 shape functions at p
func (el *Element) EvaluateSymCurl(p r3.Vec) utils.Matrix {
	return el.transform.Mul(SymCurlBasis(p))
}

// ReferenceToPhysical maps a point of the reference tetrahedron
// (0,0,0),(1,0,0),(0,1,0),(0,0,1) affinely onto the element
func (el *Element) ReferenceToPhysical(r, s, t float64) r3.Vec {
	var (
		v0 = el.vertices[0]
		p  = v0
	)
	p = r3.Add(p, r3.Scale(r, r3.Sub(el.vertices[1], v0)))
	p = r3.Add(p, r3.Scale(s, r3.Sub(el.vertices[2], v0)))
	p = r3.Add(p, r3.Scale(t, r3.Sub(el.vertices[3], v0)))
	return p
}

// EvaluateReference evaluates the shape functions at the image of a
// reference point. Values are not transformed further, the basis and its
// functionals are defined on the physical cell.
func (el *Element) EvaluateReference(r, s, t float64) utils.Matrix {
	return el.Evaluate(el.ReferenceToPhysical(r, s, t))
}

// EvaluateSymCurlReference is EvaluateSymCurl at the image of a reference point
func (el *Element) EvaluateSymCurlReference(r, s, t float64) utils.Matrix {
	return el.EvaluateSymCurl(el.ReferenceToPhysical(r, s, t))
}

// CheckVersion reports ErrStaleFrameTable if table is not the frame table
// version this element was built from
func (el *Element) CheckVersion(table *FrameTable) error {
	if table == nil {
		return fmt.Errorf("%w: no frame table", ErrStaleFrameTable)
	}
	if table.Version() != el.version {
		return fmt.Errorf("%w: element built from version %d, table is version %d",
			ErrStaleFrameTable, el.version, table.Version())
	}
	return nil
}

func (el *Element) Edges() [6]int           { return el.edges }
func (el *Element) Vertices() [4]r3.Vec     { return el.vertices }
func (el *Element) FrameVersion() uint64    { return el.version }
func (el *Element) Condition() float64      { return el.condition }
func (el *Element) Transform() utils.Matrix { return el.transform.Copy() }

// FunctionalMatrix returns a copy of F, F[i][k] = functional_i(φk)
func (el *Element) FunctionalMatrix() utils.Matrix { return el.functionals.Copy() }

// EdgeFrames returns the captured frames and midpoints in local edge order
func (el *Element) EdgeFrames() ([6]EdgeFrame, [6]r3.Vec) { return el.frames, el.midpoints }
