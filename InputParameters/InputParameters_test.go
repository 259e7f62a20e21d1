package InputParameters

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hlsfem/DG3D/hls"
)

var yamlInput = `
Title: "Cube test"
CubeDivisions: 3
RenormalizeFrames: false
InteriorFunctionals: kernel-moments
MaxCondition: 1.e+10
Jobs: 4
EvaluationPoints:
  - [0.25, 0.25, 0.25]
  - [0.1, 0.2, 0.3]
`

var tomlInput = `
Title = "Mesh test"
MeshFile = "cube.neu"
InteriorFunctionals = "unresolved"
EvaluationPoints = [[0.5, 0.5, 0.5]]
`

func TestParse(t *testing.T) {
	ip := &InputParametersHLS{}
	require.NoError(t, ip.Parse([]byte(yamlInput)))
	assert.Equal(t, "Cube test", ip.Title)
	assert.Equal(t, 3, ip.CubeDivisions)
	require.NotNil(t, ip.RenormalizeFrames)
	assert.False(t, *ip.RenormalizeFrames)
	assert.Equal(t, 4, ip.Jobs)
	assert.Equal(t, [][3]float64{{0.25, 0.25, 0.25}, {0.1, 0.2, 0.3}}, ip.EvaluationPoints)

	cfg, err := ip.SpaceConfig()
	require.NoError(t, err)
	assert.False(t, cfg.RenormalizeFrames)
	assert.Equal(t, hls.KernelMoments, cfg.Element.Interior)
	assert.Equal(t, 1e10, cfg.Element.MaxCondition)
}

func TestReadInputParameters(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "input.yaml")
	tomlPath := filepath.Join(dir, "input.toml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlInput), 0o644))
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlInput), 0o644))

	ip, err := ReadInputParameters(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "Cube test", ip.Title)

	ip, err = ReadInputParameters(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "Mesh test", ip.Title)
	assert.Equal(t, "cube.neu", ip.MeshFile)
	assert.Nil(t, ip.RenormalizeFrames)
	cfg, err := ip.SpaceConfig()
	require.NoError(t, err)
	assert.True(t, cfg.RenormalizeFrames)
	assert.Equal(t, hls.Unresolved, cfg.Element.Interior)

	_, err = ReadInputParameters(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSpaceConfig_Invalid(t *testing.T) {
	ip := &InputParametersHLS{InteriorFunctionals: "moments-of-something"}
	_, err := ip.SpaceConfig()
	assert.Error(t, err)
	ip = &InputParametersHLS{MaxCondition: -1}
	_, err = ip.SpaceConfig()
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	ip := &InputParametersHLS{}
	require.NoError(t, ip.Parse([]byte(yamlInput)))
	var buf bytes.Buffer
	ip.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "\"Cube test\"")
	assert.Contains(t, out, "[3]\t\t\t\t= Cube Divisions")
	assert.Contains(t, out, "[false]\t\t\t= Renormalize Frames")
	assert.Contains(t, out, "[kernel-moments]\t\t= Interior Functionals")
	assert.Contains(t, out, "1.000e+10\t\t= Max Condition")

	buf.Reset()
	(&InputParametersHLS{MeshFile: "cube.neu"}).Print(&buf)
	assert.Contains(t, buf.String(), "[cube.neu]\t= Mesh File")
	assert.Contains(t, buf.String(), "[true]\t\t\t= Renormalize Frames")
	assert.Contains(t, buf.String(), "[kernel-moments]\t\t= Interior Functionals")
}
