package hls

import "errors"

var (
	// ErrDegenerateEdgeDirection is returned when edge endpoints coincide
	ErrDegenerateEdgeDirection = errors.New("degenerate edge direction")
	// ErrUnsupportedElementShape is returned for any cell that is not a tetrahedron
	ErrUnsupportedElementShape = errors.New("unsupported element shape")
	// ErrSingularFunctionalMatrix is returned when the functional matrix can
	// not be inverted to acceptable accuracy
	ErrSingularFunctionalMatrix = errors.New("singular functional matrix")
	// ErrIncompleteFunctionalDefinition is returned when the interior
	// functionals are left undefined by configuration
	ErrIncompleteFunctionalDefinition = errors.New("incomplete functional definition")
	// ErrStaleFrameTable is returned when an element is used against a newer
	// edge frame table than the one it was built from
	ErrStaleFrameTable = errors.New("stale edge frame table")
	// ErrInvalidEdge is returned for edge ids outside the frame table
	ErrInvalidEdge = errors.New("invalid edge")
)
