package hls

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/utils"
)

// InteriorFunctionals selects the definition of functionals 13 and 14, the
// two degrees of freedom that belong to the cell rather than to an edge
type InteriorFunctionals uint8

const (
	// KernelMoments defines the interior functionals as cell averages of σ:κ
	// for an orthonormal basis κ of the fields annihilated by all 12 edge
	// functionals. This is a unisolvent substitute, not the published interior
	// functionals of the element, which are still unresolved: shape functions
	// built with it differ from the published ones in their interior pair.
	KernelMoments InteriorFunctionals = iota
	// Unresolved refuses to build an element
	Unresolved
)

func (p InteriorFunctionals) String() string {
	switch p {
	case KernelMoments:
		return "kernel-moments"
	case Unresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("InteriorFunctionals(%d)", uint8(p))
	}
}

func ParseInteriorFunctionals(s string) (InteriorFunctionals, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kernel-moments", "kernelmoments":
		return KernelMoments, nil
	case "unresolved", "none":
		return Unresolved, nil
	default:
		return 0, fmt.Errorf("unknown interior functional definition %q", s)
	}
}

// Config controls element construction
type Config struct {
	Interior     InteriorFunctionals
	MaxCondition float64 // Transforms of worse conditioned functional matrices are rejected
}

func DefaultConfig() Config {
	return Config{
		Interior:     KernelMoments,
		MaxCondition: utils.MAXCOND,
	}
}

// EdgeFunctionalRows applies the two moments of one edge to every raw basis
// field: row1[k] = t·φk(m)·n1, row2[k] = t·φk(m)·n2 at the edge midpoint m
func EdgeFunctionalRows(frame EdgeFrame, midpoint r3.Vec) (row1, row2 []float64) {
	var (
		vec1, vec2 = frame.Contractions()
		R          = RawBasis(midpoint)
	)
	row1 = R.MulVec(vec1[:])
	row2 = R.MulVec(vec2[:])
	return
}

// EdgeFunctionalMatrix stacks the rows of the 6 edges into a 12 x 14 matrix,
// rows 2e and 2e+1 belonging to local edge e
func EdgeFunctionalMatrix(frames [6]EdgeFrame, midpoints [6]r3.Vec) (E utils.Matrix) {
	E = utils.NewMatrix(NumEdgeDofs, NumDofs)
	for e := 0; e < 6; e++ {
		row1, row2 := EdgeFunctionalRows(frames[e], midpoints[e])
		E.SetRow(2*e, row1)
		E.SetRow(2*e+1, row2)
	}
	return
}

// BuildFunctionalMatrix assembles F[i][k] = functional_i(φk) for the 14
// functionals of a tetrahedron with the given edges and vertices
func BuildFunctionalMatrix(frames [6]EdgeFrame, midpoints [6]r3.Vec, vertices [4]r3.Vec,
	interior InteriorFunctionals) (F utils.Matrix, err error) {
	var (
		E = EdgeFunctionalMatrix(frames, midpoints)
	)
	F = utils.NewMatrix(NumDofs, NumDofs)
	copy(F.DataP, E.DataP)
	switch interior {
	case KernelMoments:
		var rows [2][]float64
		if rows, err = kernelMomentRows(E, vertices); err != nil {
			return
		}
		F.SetRow(12, rows[0])
		F.SetRow(13, rows[1])
	case Unresolved:
		err = fmt.Errorf("%w: functionals 13 and 14 are %s", ErrIncompleteFunctionalDefinition, interior)
	default:
		err = fmt.Errorf("%w: %s", ErrIncompleteFunctionalDefinition, interior)
	}
	return
}

/*
kernelMomentRows computes the two interior functionals

	functional_{12+k}(σ) = 1/|K| ∫_K σ : κk dx,   κk = Σj c_k[j] φj

where c_1, c_2 span the null space of the edge block E. Restricted to that
null space the two rows form the Gram matrix of κ1, κ2, which is positive
definite, so F is invertible exactly when E has full rank.

Both factors are affine, so the integral is exact from the vertex values:

	1/|K| ∫_K u v dx = 1/20 (Σa u(xa) v(xa) + Σa u(xa) Σb v(xb))
*/
func kernelMomentRows(E utils.Matrix, vertices [4]r3.Vec) (rows [2][]float64, err error) {
	var (
		Rv [4]utils.Matrix
	)
	N, ok := E.NullSpace(2)
	if !ok {
		err = fmt.Errorf("%w: no null space for the edge functionals", ErrSingularFunctionalMatrix)
		return
	}
	for a, v := range vertices {
		Rv[a] = RawBasis(v)
	}
	for k := 0; k < 2; k++ {
		var (
			c     = N.Col(k)
			kappa [4][ValueDim]float64
			kSum  [ValueDim]float64
		)
		for a := range Rv {
			for j, cj := range c {
				for q := 0; q < ValueDim; q++ {
					kappa[a][q] += cj * Rv[a].At(j, q)
				}
			}
			for q := 0; q < ValueDim; q++ {
				kSum[q] += kappa[a][q]
			}
		}
		rows[k] = make([]float64, NumDofs)
		for j := 0; j < NumDofs; j++ {
			var (
				sVertex, sMean float64
				uSum           [ValueDim]float64
			)
			for a := range Rv {
				for q := 0; q < ValueDim; q++ {
					u := Rv[a].At(j, q)
					sVertex += u * kappa[a][q]
					uSum[q] += u
				}
			}
			for q := 0; q < ValueDim; q++ {
				sMean += uSum[q] * kSum[q]
			}
			rows[k][j] = (sVertex + sMean) / 20
		}
	}
	return
}
