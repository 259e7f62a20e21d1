/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/DG3D/hls"
	"github.com/notargets/hlsfem/DG3D/hls/export"
	"github.com/notargets/hlsfem/DG3D/hls/space"
	"github.com/notargets/hlsfem/DG3D/mesh"
	"github.com/notargets/hlsfem/InputParameters"
	"github.com/notargets/hlsfem/utils"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed, color.Bold)
)

type ModelHLS struct {
	MeshFile   string
	InputFile  string
	Cube       int
	Jobs       int
	ExportFile string
}

// ElementCmd represents the element command
var ElementCmd = &cobra.Command{
	Use:   "element",
	Short: "Build the symmetric-curl elements of a tetrahedral mesh",
	Long: `Builds the element of every cell of a Gambit (.neu) mesh or of a
generated unit cube, reports the conditioning of the basis transforms and
optionally exports them in msgpack format`,
	Run: func(cmd *cobra.Command, args []string) {
		mh := &ModelHLS{}
		mh.MeshFile, _ = cmd.Flags().GetString("meshFile")
		mh.InputFile, _ = cmd.Flags().GetString("inputFile")
		mh.Cube, _ = cmd.Flags().GetInt("cube")
		mh.ExportFile, _ = cmd.Flags().GetString("export")
		mh.Jobs = viper.GetInt("jobs")
		ip, err := processInputHLS(mh)
		if err == nil {
			err = RunHLS(context.Background(), os.Stdout, mh, ip)
		}
		if err != nil {
			errColor.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ElementCmd)
	ElementCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in Gambit (.neu) format")
	ElementCmd.Flags().StringP("inputFile", "I", "", "YAML or TOML file of input parameters")
	ElementCmd.Flags().IntP("cube", "n", 0, "use a generated unit cube mesh with n divisions per side")
	ElementCmd.Flags().IntP("jobs", "j", 0, "number of parallel element builds, 0 uses all cores")
	ElementCmd.Flags().StringP("export", "o", "", "write the basis transforms to this msgpack file")
	if err := viper.BindPFlag("jobs", ElementCmd.Flags().Lookup("jobs")); err != nil {
		panic(err)
	}
}

// processInputHLS merges the input file into the command line model, command
// line values take precedence
func processInputHLS(mh *ModelHLS) (ip *InputParameters.InputParametersHLS, err error) {
	if len(mh.InputFile) != 0 {
		if ip, err = InputParameters.ReadInputParameters(mh.InputFile); err != nil {
			return
		}
	} else {
		ip = &InputParameters.InputParametersHLS{Title: "Symmetric-curl elements"}
	}
	if mh.MeshFile == "" {
		mh.MeshFile = ip.MeshFile
	}
	if mh.Cube == 0 {
		mh.Cube = ip.CubeDivisions
	}
	if mh.Jobs == 0 {
		mh.Jobs = ip.Jobs
	}
	if mh.ExportFile == "" {
		mh.ExportFile = ip.ExportFile
	}
	ip.MeshFile, ip.CubeDivisions, ip.Jobs, ip.ExportFile = mh.MeshFile, mh.Cube, mh.Jobs, mh.ExportFile
	if mh.MeshFile == "" && mh.Cube <= 0 {
		err = fmt.Errorf("must supply a mesh file (-F, --meshFile) in .neu (Gambit neutral file) format or a cube size (-n, --cube)")
	}
	return
}

func loadMesh(mh *ModelHLS) (*mesh.Mesh, error) {
	if mh.MeshFile != "" {
		return mesh.ReadMeshFile(mh.MeshFile)
	}
	return mesh.NewCubeMesh(mh.Cube)
}

// RunHLS builds every element of the mesh and writes a report to w
func RunHLS(ctx context.Context, w io.Writer, mh *ModelHLS, ip *InputParameters.InputParametersHLS) (err error) {
	var (
		m   *mesh.Mesh
		cfg space.Config
		sp  *space.Space
	)
	if cfg, err = ip.SpaceConfig(); err != nil {
		return
	}
	if m, err = loadMesh(mh); err != nil {
		return
	}
	headerColor.Fprintf(w, "%s\n", ip.Title)
	ip.Print(w)
	m.PrintStatistics(w)
	if sp, err = space.New(m, cfg); err != nil {
		return
	}
	if m.NumElements == 0 {
		return fmt.Errorf("mesh has no 3D cells")
	}
	start := time.Now()
	elements, err := sp.BuildElements(ctx, mh.Jobs)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "built %d elements in %v, %d global dofs\n", len(elements), time.Since(start), sp.NDof())
	fmt.Fprintln(w, utils.GetMemUsage())
	conds := make([]float64, len(elements))
	for k, el := range elements {
		conds[k] = el.Condition()
	}
	okColor.Fprintf(w, "condition number min %8.3e max %8.3e\n", floats.Min(conds), floats.Max(conds))

	var pattern utils.CSR
	if pattern, err = sp.SparsityPattern(); err != nil {
		return
	}
	fmt.Fprintf(w, "sparsity pattern: %d non zeros\n", pattern.CountNonZero())

	for i, p := range ip.EvaluationPoints {
		if err = reportPoint(w, m, sp, r3.Vec{X: p[0], Y: p[1], Z: p[2]}); err != nil {
			return fmt.Errorf("evaluation point %d: %w", i, err)
		}
	}

	if mh.ExportFile != "" {
		var payload *export.Payload
		if payload, err = export.NewPayload(elements, sp); err != nil {
			return
		}
		if err = export.WriteFile(mh.ExportFile, payload); err != nil {
			return
		}
		okColor.Fprintf(w, "wrote %s\n", mh.ExportFile)
	}
	return
}

// reportPoint prints the norms of the shape functions of the first cell that
// contains p
func reportPoint(w io.Writer, m *mesh.Mesh, sp *space.Space, p r3.Vec) error {
	for k := 0; k < m.CellCount(); k++ {
		el, err := sp.Element(k)
		if err != nil {
			return err
		}
		if !contains(el.Vertices(), p) {
			continue
		}
		psi := el.Evaluate(p)
		norms := make([]float64, hls.NumDofs)
		for j := range norms {
			norms[j] = floats.Norm(psi.Row(j), 2)
		}
		fmt.Fprintf(w, "point %v in cell %d, |ψj| = %8.4f\n", p, k, norms)
		return nil
	}
	return fmt.Errorf("point %v is outside the mesh", p)
}

// contains tests p against the barycentric coordinates of the tetrahedron
func contains(v [4]r3.Vec, p r3.Vec) bool {
	var (
		vol = func(a, b, c, d r3.Vec) float64 {
			return r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a)))
		}
		total = vol(v[0], v[1], v[2], v[3])
	)
	if total == 0 {
		return false
	}
	for a := 0; a < 4; a++ {
		q := v
		q[a] = p
		if vol(q[0], q[1], q[2], q[3])/total < -1e-12 {
			return false
		}
	}
	return true
}
