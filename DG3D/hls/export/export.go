package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/notargets/hlsfem/DG3D/hls"
)

// SchemaVersion is bumped whenever the Payload layout changes
const SchemaVersion uint16 = 1

var ErrSchemaMismatch = errors.New("export schema mismatch")

// CellTransform is the basis transform of one cell, row-major 14x14
type CellTransform struct {
	Cell      int
	Edges     [6]int
	Dofs      [hls.NumDofs]int32
	Condition float64
	Transform []float64
}

// Payload is the serialized element data of a whole space
type Payload struct {
	Schema       uint16
	FrameVersion uint64
	NumDofs      int
	ValueDim     int
	GlobalDofs   int
	Cells        []CellTransform
}

// DofSource supplies global dof numbers, satisfied by space.Space
type DofSource interface {
	DofNumbers(cell int) ([hls.NumDofs]int32, error)
	NDof() int
}

// NewPayload collects the transforms of the elements, which must all be built
// from the same frame table version. elements[k] belongs to cell k.
func NewPayload(elements []*hls.Element, dofs DofSource) (p *Payload, err error) {
	p = &Payload{
		Schema:     SchemaVersion,
		NumDofs:    hls.NumDofs,
		ValueDim:   hls.ValueDim,
		GlobalDofs: dofs.NDof(),
		Cells:      make([]CellTransform, 0, len(elements)),
	}
	for k, el := range elements {
		if el == nil {
			continue
		}
		if len(p.Cells) == 0 {
			p.FrameVersion = el.FrameVersion()
		} else if el.FrameVersion() != p.FrameVersion {
			return nil, fmt.Errorf("cell %d: %w: version %d, payload version %d",
				k, hls.ErrStaleFrameTable, el.FrameVersion(), p.FrameVersion)
		}
		ct := CellTransform{
			Cell:      k,
			Edges:     el.Edges(),
			Condition: el.Condition(),
			Transform: el.Transform().DataP,
		}
		if ct.Dofs, err = dofs.DofNumbers(k); err != nil {
			return nil, err
		}
		p.Cells = append(p.Cells, ct)
	}
	return
}

func Write(w io.Writer, p *Payload) error {
	return msgpack.NewEncoder(w).Encode(p)
}

func Read(r io.Reader) (p *Payload, err error) {
	p = &Payload{}
	if err = msgpack.NewDecoder(r).Decode(p); err != nil {
		return nil, err
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: file has %d, expected %d", ErrSchemaMismatch, p.Schema, SchemaVersion)
	}
	return
}

// WriteFile writes the payload to a temporary file next to path and renames
// it into place
func WriteFile(path string, p *Payload) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if err = Write(f, p); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func ReadFile(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
