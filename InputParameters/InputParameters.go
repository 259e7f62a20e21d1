package InputParameters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ghodss/yaml"

	"github.com/notargets/hlsfem/DG3D/hls"
	"github.com/notargets/hlsfem/DG3D/hls/space"
	"github.com/notargets/hlsfem/utils"
)

// Parameters obtained from a YAML or TOML input file
type InputParametersHLS struct {
	Title               string       `json:"Title" toml:"Title"`
	MeshFile            string       `json:"MeshFile" toml:"MeshFile"`
	CubeDivisions       int          `json:"CubeDivisions" toml:"CubeDivisions"`
	RenormalizeFrames   *bool        `json:"RenormalizeFrames" toml:"RenormalizeFrames"`
	InteriorFunctionals string       `json:"InteriorFunctionals" toml:"InteriorFunctionals"`
	MaxCondition        float64      `json:"MaxCondition" toml:"MaxCondition"`
	Jobs                int          `json:"Jobs" toml:"Jobs"`
	EvaluationPoints    [][3]float64 `json:"EvaluationPoints" toml:"EvaluationPoints"`
	ExportFile          string       `json:"ExportFile" toml:"ExportFile"`
}

func (ip *InputParametersHLS) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersHLS) ParseTOML(data []byte) error {
	_, err := toml.Decode(string(data), ip)
	return err
}

// ReadInputParameters reads a .toml file as TOML and anything else as YAML
func ReadInputParameters(path string) (ip *InputParametersHLS, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	ip = &InputParametersHLS{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = ip.ParseTOML(data)
	default:
		err = ip.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

// SpaceConfig converts the parameters into a space configuration, unset
// values keep their defaults
func (ip *InputParametersHLS) SpaceConfig() (cfg space.Config, err error) {
	cfg = space.DefaultConfig()
	if ip.RenormalizeFrames != nil {
		cfg.RenormalizeFrames = *ip.RenormalizeFrames
	}
	if cfg.Element.Interior, err = hls.ParseInteriorFunctionals(ip.InteriorFunctionals); err != nil {
		return
	}
	switch {
	case ip.MaxCondition < 0:
		err = fmt.Errorf("MaxCondition must be positive, have %g", ip.MaxCondition)
	case ip.MaxCondition > 0:
		cfg.Element.MaxCondition = ip.MaxCondition
	default:
		cfg.Element.MaxCondition = utils.MAXCOND
	}
	return
}

// Print writes the resolved run parameters to w
func (ip *InputParametersHLS) Print(w io.Writer) {
	renorm := true
	if ip.RenormalizeFrames != nil {
		renorm = *ip.RenormalizeFrames
	}
	interior := ip.InteriorFunctionals
	if interior == "" {
		interior = hls.DefaultConfig().Interior.String()
	}
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	if ip.MeshFile != "" {
		fmt.Fprintf(w, "[%s]\t= Mesh File\n", ip.MeshFile)
	} else {
		fmt.Fprintf(w, "[%d]\t\t\t\t= Cube Divisions\n", ip.CubeDivisions)
	}
	fmt.Fprintf(w, "[%v]\t\t\t= Renormalize Frames\n", renorm)
	fmt.Fprintf(w, "[%s]\t\t= Interior Functionals\n", interior)
	fmt.Fprintf(w, "%8.3e\t\t= Max Condition\n", ip.MaxCondition)
	fmt.Fprintf(w, "[%d]\t\t\t\t= Jobs\n", ip.Jobs)
	if ip.ExportFile != "" {
		fmt.Fprintf(w, "[%s]\t= Export File\n", ip.ExportFile)
	}
	for i, p := range ip.EvaluationPoints {
		fmt.Fprintf(w, "EvaluationPoints[%d] = %v\n", i, p)
	}
}
