package mesh

// NewCubeMesh returns the unit cube [0,1]^3 divided into n^3 sub-cubes, each
// split into six tetrahedra sharing the sub-cube's main diagonal. The split
// is the same in every sub-cube, so neighboring tetrahedra are conforming.
func NewCubeMesh(n int) (*Mesh, error) {
	if n < 1 {
		n = 1
	}
	var (
		np       = n + 1
		h        = 1. / float64(n)
		vertices = make([][]float64, 0, np*np*np)
		etov     = make([][]int, 0, 6*n*n*n)
		vid      = func(i, j, k int) int { return i + np*(j+np*k) }
	)
	for k := 0; k < np; k++ {
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				vertices = append(vertices, []float64{float64(i) * h, float64(j) * h, float64(k) * h})
			}
		}
	}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				var (
					v000 = vid(i, j, k)
					v100 = vid(i+1, j, k)
					v010 = vid(i, j+1, k)
					v110 = vid(i+1, j+1, k)
					v001 = vid(i, j, k+1)
					v101 = vid(i+1, j, k+1)
					v011 = vid(i, j+1, k+1)
					v111 = vid(i+1, j+1, k+1)
				)
				etov = append(etov,
					[]int{v000, v100, v110, v111},
					[]int{v000, v100, v101, v111},
					[]int{v000, v010, v110, v111},
					[]int{v000, v010, v011, v111},
					[]int{v000, v001, v101, v111},
					[]int{v000, v001, v011, v111},
				)
			}
		}
	}
	types := make([]ElementType, len(etov))
	for i := range types {
		types[i] = Tet
	}
	return NewMeshFromArrays(vertices, etov, types)
}

// NewUnitTetMesh returns the single right tetrahedron with vertices at the
// origin and the three unit points
func NewUnitTetMesh() *Mesh {
	m, err := NewMeshFromArrays(
		[][]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		[][]int{{0, 1, 2, 3}},
		[]ElementType{Tet},
	)
	if err != nil {
		panic(err)
	}
	return m
}
