package hls

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/utils"
)

const (
	NumDofs     = 14 // Local degrees of freedom per tetrahedron
	NumEdgeDofs = 12 // Two tangential-normal moments on each of the 6 edges
	ValueDim    = 9  // Flattened 3x3 tensor, row-major
)

/*
	The raw space is spanned by 14 affine tensor fields, each flattened
	row-major into 9 components [σ00 σ01 σ02 σ10 σ11 σ12 σ20 σ21 σ22].

	Rows 0-7 (T-block): the constant traceless tensors.
	Rows 8-13: S × x for the six independent generators S, linear in x.

	The symmetric curl of the T-block vanishes, the symmetric curl of the
	linear block is constant.
*/
var tBlock = [8][ValueDim]float64{
	{1, 0, 0, 0, -1, 0, 0, 0, 0},
	{0, 0, 0, 0, -1, 0, 0, 0, 1},
	{0, 1, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 1, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 1, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 1, 0},
}

var symCurlBlock = [6][ValueDim]float64{
	{2, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 2, 0, 2, 0, 0, 0, 0, 0},
	{0, 0, 2, 0, 0, 0, 2, 0, 0},
	{0, 0, 0, 0, 0, 2, 0, 2, 0},
	{0, 0, 0, 0, 2, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 2},
}

// RawBasis evaluates the 14 raw tensor fields at p, one per row
func RawBasis(p r3.Vec) (R utils.Matrix) {
	var (
		x, y, z = p.X, p.Y, p.Z
	)
	R = utils.NewMatrix(NumDofs, ValueDim)
	for i, row := range tBlock {
		R.SetRow(i, row[:])
	}
	R.SetRow(8, []float64{0, -z, y, 0, 0, 0, 0, 0, 0})
	R.SetRow(9, []float64{z, 0, -x, 0, -z, y, 0, 0, 0})
	R.SetRow(10, []float64{-y, x, 0, 0, 0, 0, 0, -z, y})
	R.SetRow(11, []float64{0, 0, 0, -y, x, 0, z, 0, -x})
	R.SetRow(12, []float64{0, 0, 0, z, 0, -x, 0, 0, 0})
	R.SetRow(13, []float64{0, 0, 0, 0, 0, 0, -y, x, 0})
	return
}

// SymCurlBasis evaluates the symmetric curl of the raw fields. The raw fields
// are affine, so the result does not depend on the point.
func SymCurlBasis(_ r3.Vec) (S utils.Matrix) {
	S = utils.NewMatrix(NumDofs, ValueDim)
	for i, row := range symCurlBlock {
		S.SetRow(8+i, row[:])
	}
	return
}
