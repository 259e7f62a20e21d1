package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadGambitNeutral reads a Gambit neutral file
func ReadGambitNeutral(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mesh, err := ParseGambitNeutral(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// ParseGambitNeutral reads the nodal coordinates, 3D cells and element groups
// of a Gambit neutral stream. 1D and 2D cells are skipped.
func ParseGambitNeutral(r io.Reader) (*Mesh, error) {
	mesh := NewMesh()
	scanner := bufio.NewScanner(r)

	var numnp, nelem int
	var err error
	fileElem := make(map[int]int) // Element id in the file to index in EtoV

	// Read until we find the problem size parameters
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Look for the problem size header line
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			// Next line contains the actual values
			if scanner.Scan() {
				values := strings.Fields(scanner.Text())
				if len(values) < 2 {
					return nil, fmt.Errorf("malformed problem size line: %q", scanner.Text())
				}
				if numnp, err = strconv.Atoi(values[0]); err != nil {
					return nil, fmt.Errorf("NUMNP: %w", err)
				}
				if nelem, err = strconv.Atoi(values[1]); err != nil {
					return nil, fmt.Errorf("NELEM: %w", err)
				}
			}
			break
		}
	}
	if numnp == 0 {
		return nil, fmt.Errorf("no NUMNP/NELEM header found")
	}

	// Continue reading sections
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "ENDOFSECTION" {
			continue
		}

		if strings.Contains(line, "NODAL COORDINATES") {
			// Read nodes
			mesh.Vertices = make([][]float64, numnp)

			for scanner.Scan() {
				line = strings.TrimSpace(scanner.Text())
				if line == "ENDOFSECTION" {
					break
				}

				fields := strings.Fields(line)
				if len(fields) < 4 {
					continue
				}
				id, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("node id %q: %w", fields[0], err)
				}
				var xyz [3]float64
				for n := 0; n < 3; n++ {
					if xyz[n], err = strconv.ParseFloat(fields[1+n], 64); err != nil {
						return nil, fmt.Errorf("node %d coordinate: %w", id, err)
					}
				}
				if id < 1 || id > numnp {
					return nil, fmt.Errorf("node id %d outside [1,%d]", id, numnp)
				}
				mesh.Vertices[id-1] = xyz[:]
			}

		} else if strings.Contains(line, "ELEMENTS/CELLS") {
			// Read elements
			mesh.EtoV = make([][]int, 0, nelem)
			mesh.ElementTypes = make([]ElementType, 0, nelem)
			mesh.ElementTags = make([]int, 0, nelem)

			for scanner.Scan() {
				line = strings.TrimSpace(scanner.Text())
				if line == "ENDOFSECTION" {
					break
				}

				fields := strings.Fields(line)
				if len(fields) < 3 {
					continue
				}
				// Format: NE NTYPE NDP NODE1 NODE2 ...
				elemType, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("element type %q: %w", fields[1], err)
				}
				numNodes, err := strconv.Atoi(fields[2])
				if err != nil {
					return nil, fmt.Errorf("element node count %q: %w", fields[2], err)
				}

				// Only process 3D elements
				var etype ElementType
				switch elemType {
				case 4: // Brick
					etype = Hex
				case 5: // Wedge/Prism
					etype = Prism
				case 6: // Tetrahedron
					etype = Tet
				case 7: // Pyramid
					etype = Pyramid
				default: // Edges, quads and triangles are skipped
					continue
				}

				if len(fields) < 3+numNodes {
					return nil, fmt.Errorf("element %s lists %d of %d nodes", fields[0], len(fields)-3, numNodes)
				}
				// Read vertices (convert to 0-indexed)
				verts := make([]int, numNodes)
				for j := 0; j < numNodes; j++ {
					v, err := strconv.Atoi(fields[3+j])
					if err != nil {
						return nil, fmt.Errorf("element %s node: %w", fields[0], err)
					}
					verts[j] = v - 1
				}

				if ne, err := strconv.Atoi(fields[0]); err == nil {
					fileElem[ne] = len(mesh.EtoV)
				}
				mesh.EtoV = append(mesh.EtoV, verts)
				mesh.ElementTypes = append(mesh.ElementTypes, etype)
				mesh.ElementTags = append(mesh.ElementTags, 0) // Default tag
			}

		} else if strings.HasPrefix(line, "GROUP:") {
			// Format: GROUP: NGP ELEMENTS: NELGP MATERIAL: MTYP NFLAGS: NFLAGS
			parts := strings.Fields(line)
			var groupID, numElems int
			for i := 0; i < len(parts)-1; i++ {
				switch parts[i] {
				case "GROUP:":
					groupID, _ = strconv.Atoi(parts[i+1])
				case "ELEMENTS:":
					numElems, _ = strconv.Atoi(parts[i+1])
				}
			}

			// Skip entity name
			scanner.Scan()

			// Skip flags
			scanner.Scan()

			// Read element IDs in this group
			elementsRead := 0
			for elementsRead < numElems && scanner.Scan() {
				line = strings.TrimSpace(scanner.Text())
				if line == "ENDOFSECTION" {
					break
				}

				for _, field := range strings.Fields(line) {
					elemID, _ := strconv.Atoi(field)
					if k, ok := fileElem[elemID]; ok {
						mesh.ElementTags[k] = groupID
					}
					elementsRead++
					if elementsRead >= numElems {
						break
					}
				}
			}

		} else if strings.Contains(line, "BOUNDARY CONDITIONS") {
			scanner.Scan() // Read BC name and info
			parts := strings.Fields(scanner.Text())
			if len(parts) >= 1 {
				mesh.BoundaryTags[len(mesh.BoundaryTags)] = parts[0]
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}

	mesh.NumElements = len(mesh.EtoV)
	mesh.NumVertices = len(mesh.Vertices)
	for i, v := range mesh.Vertices {
		if v == nil {
			return nil, fmt.Errorf("node %d missing from NODAL COORDINATES", i+1)
		}
	}
	if err = mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.BuildConnectivity()

	return mesh, nil
}
