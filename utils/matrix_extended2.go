package utils

import (
	"gonum.org/v1/gonum/mat"
)

// ConditionNumber is the 2-norm condition number from the singular values.
// A matrix with a vanishing smallest singular value reports 1e16 or larger.
func (m Matrix) ConditionNumber() float64 {
	minVal, maxVal := m.SingularValues()
	if minVal < 1e-16*maxVal || minVal == 0 {
		return 1e16 * (1 + maxVal)
	}
	return maxVal / minVal
}

func (m Matrix) SingularValues() (min, max float64) {
	var svd mat.SVD
	if !svd.Factorize(m.M, mat.SVDNone) {
		return 0, 1e16
	}
	values := svd.Values(nil)
	if len(values) == 0 {
		return 0, 1e16
	}
	// Singular values are in descending order
	return values[len(values)-1], values[0]
}

// NullSpace returns the k right singular vectors belonging to the k smallest
// singular values, as the columns of an [nc x k] matrix. For a matrix of rank
// nc-k these columns are an orthonormal basis of its null space.
func (m Matrix) NullSpace(k int) (N Matrix, ok bool) {
	var (
		_, nc = m.Dims()
		svd   mat.SVD
		v     mat.Dense
	)
	if k <= 0 || k > nc {
		return
	}
	if !svd.Factorize(m.M, mat.SVDFull) {
		return
	}
	svd.VTo(&v)
	N = NewMatrix(nc, k)
	for i := 0; i < nc; i++ {
		for j := 0; j < k; j++ {
			N.DataP[i*k+j] = v.At(i, nc-k+j)
		}
	}
	ok = true
	return
}
