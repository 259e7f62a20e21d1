package hls

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Volume returns the unsigned volume of a tetrahedron
func Volume(v [4]r3.Vec) float64 {
	var (
		a = r3.Sub(v[1], v[0])
		b = r3.Sub(v[2], v[0])
		c = r3.Sub(v[3], v[0])
	)
	return math.Abs(r3.Dot(a, r3.Cross(b, c))) / 6
}
