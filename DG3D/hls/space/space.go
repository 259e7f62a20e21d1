package space

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/hlsfem/DG3D/hls"
	"github.com/notargets/hlsfem/DG3D/mesh"
	"github.com/notargets/hlsfem/utils"
)

type Config struct {
	RenormalizeFrames bool
	Element           hls.Config
}

func DefaultConfig() Config {
	return Config{
		RenormalizeFrames: true,
		Element:           hls.DefaultConfig(),
	}
}

type cacheKey struct {
	version uint64
	cell    int
}

/*
Space is the global finite element space over a mesh topology.

Global dof numbering: edge e owns dofs 2e and 2e+1, cell k owns the two
interior dofs 2E+2k and 2E+2k+1, E being the edge count. Every topology
change through Update publishes a new frame table with the next version,
elements built before it stop passing CheckCurrent. The space works on its
own copy of the topology: a mesh modified in place is not seen until it is
passed to Update, and a failed Update leaves the previous copy in use.
*/
type Space struct {
	mu    sync.RWMutex
	cfg   Config
	topo  hls.Topology
	table *hls.FrameTable
	cache map[cacheKey]*hls.Element
}

func New(topo hls.Topology, cfg Config) (s *Space, err error) {
	s = &Space{
		cfg:   cfg,
		cache: make(map[cacheKey]*hls.Element),
	}
	if err = s.install(topo, 1); err != nil {
		return nil, err
	}
	return
}

// Update replaces the topology and publishes a new frame table
func (s *Space) Update(topo hls.Topology) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installLocked(topo, s.table.Version()+1)
}

func (s *Space) install(topo hls.Topology, version uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installLocked(topo, version)
}

// installLocked copies topo so that changes made to the caller's mesh are
// only seen through the next Update
func (s *Space) installLocked(topo hls.Topology, version uint64) error {
	snap := hls.SnapshotTopology(topo)
	table, err := hls.BuildFrameTable(snap, version, s.cfg.RenormalizeFrames)
	if err != nil {
		return err
	}
	s.topo, s.table = snap, table
	s.cache = make(map[cacheKey]*hls.Element)
	return nil
}

func (s *Space) snapshot() (hls.Topology, *hls.FrameTable) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topo, s.table
}

func (s *Space) Version() uint64 {
	_, table := s.snapshot()
	return table.Version()
}

// FrameTable returns the current frame table, safe to share
func (s *Space) FrameTable() *hls.FrameTable {
	_, table := s.snapshot()
	return table
}

func (s *Space) Topology() hls.Topology {
	topo, _ := s.snapshot()
	return topo
}

func (s *Space) NDof() int {
	topo, _ := s.snapshot()
	return 2*topo.EdgeCount() + 2*topo.CellCount()
}

// DofNumbers returns the global dof of each local dof of a tetrahedral cell
func (s *Space) DofNumbers(cell int) (dofs [hls.NumDofs]int32, err error) {
	topo, _ := s.snapshot()
	return dofNumbers(topo, cell)
}

func dofNumbers(topo hls.Topology, cell int) (dofs [hls.NumDofs]int32, err error) {
	if cell < 0 || cell >= topo.CellCount() {
		err = fmt.Errorf("cell %d outside [0,%d)", cell, topo.CellCount())
		return
	}
	if shape := topo.CellShape(cell); shape != mesh.Tet {
		err = fmt.Errorf("cell %d: %w: %s", cell, hls.ErrUnsupportedElementShape, shape)
		return
	}
	var (
		global = make([]int, 0, hls.NumDofs)
		nEdges = topo.EdgeCount()
	)
	for _, e := range topo.CellEdges(cell) {
		global = append(global, 2*e, 2*e+1)
	}
	global = append(global, 2*nEdges+2*cell, 2*nEdges+2*cell+1)
	for i, g := range global {
		if dofs[i], err = safecast.Conv[int32](g); err != nil {
			err = fmt.Errorf("cell %d dof %d: %w", cell, i, err)
			return
		}
	}
	return
}

// Element returns the element of a cell built against the current frame
// table, from the cache when available
func (s *Space) Element(cell int) (el *hls.Element, err error) {
	topo, table := s.snapshot()
	key := cacheKey{version: table.Version(), cell: cell}
	s.mu.RLock()
	el, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return
	}
	if el, err = hls.NewCellElement(topo, cell, table, s.cfg.Element); err != nil {
		return nil, err
	}
	s.mu.Lock()
	// A concurrent Update replaced the cache, the element is still valid for
	// the caller but is not stored
	if s.table.Version() == key.version {
		s.cache[key] = el
	}
	s.mu.Unlock()
	return
}

// BuildElements builds the elements of every cell. Cells are split into jobs
// contiguous buckets, each built by one goroutine, jobs <= 0 selects
// GOMAXPROCS.
func (s *Space) BuildElements(ctx context.Context, jobs int) ([]*hls.Element, error) {
	topo, _ := s.snapshot()
	nCells := topo.CellCount()
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	elements := make([]*hls.Element, nCells)
	if nCells == 0 {
		return elements, nil
	}
	var (
		pm      = utils.NewPartitionMap(min(jobs, nCells), nCells)
		g, gctx = errgroup.WithContext(ctx)
	)
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		kMin, kMax := pm.GetBucketRange(bn)
		g.Go(func() error {
			for k := kMin; k < kMax; k++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				el, err := s.Element(k)
				if err != nil {
					return err
				}
				elements[k] = el
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return elements, nil
}

// CheckCurrent reports hls.ErrStaleFrameTable for an element built before
// the last Update
func (s *Space) CheckCurrent(el *hls.Element) error {
	return el.CheckVersion(s.FrameTable())
}

// Evaluate returns the shape functions of a cell at a physical point
func (s *Space) Evaluate(cell int, p r3.Vec) (utils.Matrix, error) {
	el, err := s.Element(cell)
	if err != nil {
		return utils.Matrix{}, err
	}
	return el.Evaluate(p), nil
}

// SparsityPattern returns the dof coupling pattern, entry (i,j) is non zero
// when dofs i and j share a cell. Non tetrahedral cells contribute nothing.
func (s *Space) SparsityPattern() (utils.CSR, error) {
	topo, _ := s.snapshot()
	var (
		nDof   = 2*topo.EdgeCount() + 2*topo.CellCount()
		nCells = topo.CellCount()
	)
	if nDof == 0 || nCells == 0 {
		return utils.CSR{}, fmt.Errorf("empty space: %d dofs, %d cells", nDof, nCells)
	}
	incidence := utils.NewDOK(nDof, nCells)
	for k := 0; k < nCells; k++ {
		if topo.CellShape(k) != mesh.Tet {
			continue
		}
		dofs, err := dofNumbers(topo, k)
		if err != nil {
			return utils.CSR{}, err
		}
		for _, d := range dofs {
			incidence.Set(int(d), k, 1)
		}
	}
	return incidence.ToCSR().MulTranspose(), nil
}
