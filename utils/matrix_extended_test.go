package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, A.RawMatrix().Data, []float64{1, 4, 2, 5, 3, 6})
		assert.Equal(t, []float64{2, 5}, M.Col(1))
		assert.Equal(t, []float64{4, 5, 6}, M.Row(-1))
	}
	// Mul, MulVec
	{
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := NewMatrix(2, 1, []float64{5, 6})
		assert.Equal(t, []float64{17, 39}, A.Mul(B).DataP)
		assert.Equal(t, []float64{17, 39}, A.MulVec([]float64{5, 6}))
		assert.Panics(t, func() { B.Mul(B) })
		assert.Panics(t, func() { A.MulVec([]float64{1}) })
	}
	// Read only
	{
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		R := A.SetReadOnly("A")
		assert.True(t, R.IsReadOnly())
		assert.Panics(t, func() { R.Set(0, 0, 1) })
		assert.Panics(t, func() { R.Scale(2) })
		C := R.Copy()
		assert.False(t, C.IsReadOnly())
		C.Scale(2)
		assert.Equal(t, []float64{2, 4, 6, 8}, C.DataP)
		assert.Equal(t, []float64{1, 2, 3, 4}, R.DataP)
	}
}

func TestMatrix_Inverse(t *testing.T) {
	A := NewMatrix(3, 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	Ainv, err := A.Inverse()
	require.NoError(t, err)
	I := A.Mul(Ainv)
	assert.InDeltaSlice(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, I.DataP, 1e-14)
	// Receiver is unchanged
	assert.Equal(t, []float64{4, 1, 0, 1, 3, 1, 0, 1, 2}, A.DataP)

	_, err = NewMatrix(2, 2, []float64{1, 2, 2, 4}).Inverse()
	assert.Error(t, err)
	_, err = NewMatrix(2, 3).Inverse()
	assert.Error(t, err)
}

func TestMatrix_SVD(t *testing.T) {
	D := NewMatrix(3, 3, []float64{
		4, 0, 0,
		0, 2, 0,
		0, 0, 0.5,
	})
	assert.InDelta(t, 8, D.ConditionNumber(), 1e-12)
	minV, maxV := D.SingularValues()
	assert.InDelta(t, 0.5, minV, 1e-14)
	assert.InDelta(t, 4, maxV, 1e-14)

	S := NewMatrix(2, 2, []float64{1, 1, 1, 1})
	assert.Greater(t, S.ConditionNumber(), 1e15)

	// Null space of a rank one 2x3 matrix
	A := NewMatrix(2, 3, []float64{
		1, 1, 0,
		2, 2, 0,
	})
	N, ok := A.NullSpace(2)
	require.True(t, ok)
	AN := A.Mul(N)
	assert.InDeltaSlice(t, make([]float64, 4), AN.DataP, 1e-14)
	NtN := N.Transpose().Mul(N)
	assert.InDeltaSlice(t, []float64{1, 0, 0, 1}, NtN.DataP, 1e-14)
	_, ok = A.NullSpace(4)
	assert.False(t, ok)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(NewMatrix(2, 2)))
	assert.False(t, IsFinite(NewMatrix(1, 2, []float64{1, math.Inf(-1)})))
	assert.False(t, IsFinite(math.NaN()))
	assert.True(t, IsNan([]float64{0, math.NaN()}))
	assert.False(t, IsNan(NewMatrix(1, 1)))
}
