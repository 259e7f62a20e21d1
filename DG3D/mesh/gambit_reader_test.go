package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoTetNeutral = `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
two-tets
PROGRAM:                Gambit     VERSION:  2.0.0
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         6         3         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         3   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         5   1.00000000000e+00   1.00000000000e+00   1.00000000000e+00
         6   2.00000000000e+00   0.00000000000e+00   0.00000000000e+00
ENDOFSECTION
      ELEMENTS/CELLS 2.0.0
       1  6  4        1        2        3        4
       2  6  4        2        3        4        5
       3  3  3        2        6        5
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:          7 ELEMENTS:          2 MATERIAL:          2 NFLAGS:          1
                           fluid
       0
       1       2
ENDOFSECTION
 BOUNDARY CONDITIONS 2.0.0
                           wall       1       0       0       6
ENDOFSECTION
`

func TestParseGambitNeutral(t *testing.T) {
	m, err := ParseGambitNeutral(strings.NewReader(twoTetNeutral))
	require.NoError(t, err)
	assert.Equal(t, 6, m.NumVertices)
	// The triangle is skipped, only 3D cells are kept
	assert.Equal(t, 2, m.NumElements)
	assert.Equal(t, []ElementType{Tet, Tet}, m.ElementTypes)
	assert.Equal(t, []int{1, 2, 3, 4}, m.EtoV[1])
	assert.Equal(t, []int{7, 7}, m.ElementTags)
	assert.Equal(t, 9, m.NumEdges)
	assert.Equal(t, "wall", m.BoundaryTags[0])
	assert.Equal(t, []float64{1, 1, 1}, m.Vertices[4])
}

func TestReadMeshFile(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "two-tets.neu")
	require.NoError(t, os.WriteFile(fileName, []byte(twoTetNeutral), 0o644))

	m, err := ReadMeshFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumElements)

	_, err = ReadMeshFile(filepath.Join(dir, "mesh.su2"))
	assert.ErrorContains(t, err, "unsupported mesh format")

	_, err = ReadMeshFile(filepath.Join(dir, "missing.neu"))
	assert.Error(t, err)
}

func TestParseGambitNeutral_Malformed(t *testing.T) {
	_, err := ParseGambitNeutral(strings.NewReader("no header here\n"))
	assert.Error(t, err)

	bad := strings.Replace(twoTetNeutral, "2.00000000000e+00   0.00000000000e+00   0.00000000000e+00",
		"2.0x   0.0   0.0", 1)
	_, err = ParseGambitNeutral(strings.NewReader(bad))
	assert.Error(t, err)

	missingNode := strings.Replace(twoTetNeutral, "       2  6  4        2        3        4        5",
		"       2  6  4        2        3        4        9", 1)
	_, err = ParseGambitNeutral(strings.NewReader(missingNode))
	assert.Error(t, err)
}
