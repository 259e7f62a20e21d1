package utils

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)              { return m.M.Dims() }
func (m DOK) At(i, j int) float64           { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix                 { return m.M.T() }
func (m DOK) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	var (
		nr, nc = m.Dims()
	)
	m.checkWritable()
	if i < 0 || i >= nr || j < 0 || j >= nc {
		panic(fmt.Errorf("index out of bounds: (%d,%d) in [%d x %d]", i, j, nr, nc))
	}
	m.M.Set(i, j, val)
	return m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }

// MulTranspose returns the product m * m^T
func (m CSR) MulTranspose() CSR {
	var (
		nr, _ = m.Dims()
	)
	R := sparse.NewCSR(nr, nr, nil, nil, nil)
	R.Mul(m.M, m.M.T())
	return CSR{
		M:    R,
		name: m.name + "*" + m.name + "^T",
	}
}

// CountNonZero counts stored entries with a non-zero value
func (m CSR) CountNonZero() (nnz int) {
	m.M.DoNonZero(func(i, j int, v float64) {
		if v != 0 {
			nnz++
		}
	})
	return
}

// RowPattern returns the sorted column indices of the non-zero entries of row i
func (m CSR) RowPattern(i int) (cols []int) {
	raw := m.M.RawMatrix()
	for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
		if raw.Data[k] != 0 {
			cols = append(cols, raw.Ind[k])
		}
	}
	sort.Ints(cols)
	return
}
