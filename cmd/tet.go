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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/DG3D/hls"
	"github.com/notargets/hlsfem/DG3D/mesh"
)

// TetCmd represents the tet command
var TetCmd = &cobra.Command{
	Use:   "tet",
	Short: "Evaluate the shape functions of a single tetrahedron",
	Long: `Builds the element of one tetrahedron and prints its shape functions and
their symmetric curls at a point given in reference coordinates`,
	Run: func(cmd *cobra.Command, args []string) {
		vs, _ := cmd.Flags().GetString("vertices")
		ps, _ := cmd.Flags().GetString("point")
		interior, _ := cmd.Flags().GetString("interior")
		rawNormals, _ := cmd.Flags().GetBool("rawNormals")
		err := runTet(os.Stdout, vs, ps, interior, !rawNormals)
		if err != nil {
			errColor.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(TetCmd)
	TetCmd.Flags().StringP("vertices", "v", "0,0,0;1,0,0;0,1,0;0,0,1", "four vertices, x,y,z separated by ;")
	TetCmd.Flags().StringP("point", "p", "0.25,0.25,0.25", "reference coordinates r,s,t")
	TetCmd.Flags().String("interior", "kernel-moments", "interior functionals: kernel-moments or unresolved")
	TetCmd.Flags().Bool("rawNormals", false, "keep the first edge normal at its unnormalized length")
}

func parseTriple(s string) (v [3]float64, err error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		err = fmt.Errorf("expected 3 comma separated values, have %q", s)
		return
	}
	for i, f := range fields {
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64); err != nil {
			return
		}
	}
	return
}

func runTet(w io.Writer, vertices, point, interior string, renormalize bool) (err error) {
	var (
		coords = make([][]float64, 0, 4)
		ref    [3]float64
		cfg    = hls.DefaultConfig()
	)
	for _, vs := range strings.Split(vertices, ";") {
		var v [3]float64
		if v, err = parseTriple(vs); err != nil {
			return
		}
		coords = append(coords, v[:])
	}
	if len(coords) != 4 {
		return fmt.Errorf("a tetrahedron has 4 vertices, have %d", len(coords))
	}
	if ref, err = parseTriple(point); err != nil {
		return
	}
	if cfg.Interior, err = hls.ParseInteriorFunctionals(interior); err != nil {
		return
	}
	m, err := mesh.NewMeshFromArrays(coords, [][]int{{0, 1, 2, 3}}, []mesh.ElementType{mesh.Tet})
	if err != nil {
		return
	}
	table, err := hls.BuildFrameTable(m, 1, renormalize)
	if err != nil {
		return
	}
	el, err := hls.NewCellElement(m, 0, table, cfg)
	if err != nil {
		return
	}
	p := el.ReferenceToPhysical(ref[0], ref[1], ref[2])
	headerColor.Fprintf(w, "condition number %8.3e\n", el.Condition())
	fmt.Fprintf(w, "volume %8.5f\n", hls.Volume(el.Vertices()))
	frames, _ := el.EdgeFrames()
	for e, f := range frames {
		fmt.Fprintf(w, "edge %d t = %v n1 = %v n2 = %v\n", e, vecString(f.Tangent),
			vecString(f.Normal1), vecString(f.Normal2))
	}
	fmt.Fprintf(w, "shape functions at %v\n", vecString(p))
	fmt.Fprint(w, el.Evaluate(p).Print("ψ"))
	fmt.Fprint(w, el.EvaluateSymCurl(p).Print("symcurl ψ"))
	return
}

func vecString(v r3.Vec) string {
	return fmt.Sprintf("(%8.5f,%8.5f,%8.5f)", v.X, v.Y, v.Z)
}
