package hls

import (
	"fmt"

	"github.com/notargets/hlsfem/utils"
)

/*
NewBasisTransform inverts the functional matrix F, F[i][k] = functional_i(φk),
into the transform B that maps raw fields to the dual basis:

	ψj = Σk B[j][k] φk,   functional_i(ψj) = Σk B[j][k] F[i][k] = (F Bᵀ)[i][j]

so B = (F⁻¹)ᵀ. The returned matrix is read only.
*/
func NewBasisTransform(F utils.Matrix, maxCondition float64) (B utils.Matrix, cond float64, err error) {
	var (
		nr, nc = F.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("%w: functional matrix is [%d x %d]", ErrSingularFunctionalMatrix, nr, nc)
		return
	}
	if maxCondition <= 0 {
		maxCondition = utils.MAXCOND
	}
	if !utils.IsFinite(F) {
		err = fmt.Errorf("%w: non-finite entries", ErrSingularFunctionalMatrix)
		return
	}
	if cond = F.ConditionNumber(); cond > maxCondition {
		err = fmt.Errorf("%w: condition number %8.3e exceeds %8.3e",
			ErrSingularFunctionalMatrix, cond, maxCondition)
		return
	}
	var FInv utils.Matrix
	if FInv, err = F.Inverse(); err != nil {
		err = fmt.Errorf("%w: %v", ErrSingularFunctionalMatrix, err)
		return
	}
	if !utils.IsFinite(FInv) {
		err = fmt.Errorf("%w: non-finite inverse", ErrSingularFunctionalMatrix)
		return
	}
	B = FInv.Transpose()
	B.SetReadOnly("BasisTransform")
	return
}
