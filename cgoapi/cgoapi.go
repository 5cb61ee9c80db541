// Package cgoapi is the language-interop boundary: an opaque-handle surface
// shaped the way a real cgo ABI would need it, backed by a process-wide
// handle table instead of an actual C caller. Every *distree.DistributedTree
// ever built or loaded through this package lives here, addressed only by
// its Handle, until the caller explicitly Destroys it.
//
// There is no `import "C"` anywhere in this module: no foreign caller
// exists. This package exists so the shape of that boundary — opaque
// handles, borrowed buffers, fail-fast on misuse — is exercised by its own
// tests against real DistributedTree values.
package cgoapi

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/flier/octree/comm"
	"github.com/flier/octree/config"
	"github.com/flier/octree/distree"
	"github.com/flier/octree/internal/xsync"
	"github.com/flier/octree/morton"
	"github.com/flier/octree/octreeerr"
	"github.com/flier/octree/point"
	sinkhdf5 "github.com/flier/octree/sink/hdf5"
	sinkvtk "github.com/flier/octree/sink/vtk"
)

// Handle is an opaque reference to a DistributedTree owned by this package.
// The zero Handle is never issued and is never valid.
type Handle uintptr

var (
	table  xsync.Map[Handle, *distree.DistributedTree]
	nextID atomic.Uint64
)

func newHandle(t *distree.DistributedTree) Handle {
	h := Handle(nextID.Add(1))
	table.Store(h, t)
	return h
}

func lookup(h Handle) *distree.DistributedTree {
	t, ok := table.Load(h)
	if !ok {
		panic(fmt.Errorf("cgoapi: handle %d: %w", h, octreeerr.ErrInvalidHandle))
	}
	return t
}

// Build encodes and distributes n points (points is a borrowed, row-major
// n*3 buffer), builds the local shard of the distributed tree on comm, and
// returns a Handle owning the result. balanced requests 2:1 balancing with
// the package default round cap. Every rank in comm's cohort must call
// Build, since tree construction is a collective operation.
func Build(points []float64, n int, balanced bool, c comm.Communicator) Handle {
	if n*3 != len(points) {
		panic(fmt.Errorf("cgoapi: points has length %d, want %d for n=%d", len(points), n*3, n))
	}

	coords := make([][3]float64, n)
	for i := 0; i < n; i++ {
		coords[i] = [3]float64{points[3*i], points[3*i+1], points[3*i+2]}
	}

	var opts []config.Option
	if balanced {
		opts = append(opts, config.WithBalance(0))
	}

	t, err := distree.Build(context.Background(), c, coords, 0, config.New(opts...))
	if err != nil {
		panic(fmt.Errorf("cgoapi: build: %w", err))
	}

	return newHandle(t)
}

// NKeys returns the number of leaf keys owned by h's rank-local shard.
func NKeys(h Handle) int { return len(lookup(h).Keys) }

// NPoints returns the number of particles owned by h's rank-local shard.
func NPoints(h Handle) int { return len(lookup(h).Points) }

// Keys returns a borrowed view of h's sorted leaf keys, valid until h is
// Destroyed. Callers must not retain it past that point.
func Keys(h Handle) []morton.Key { return lookup(h).Keys }

// Points returns a borrowed view of h's particles, valid until h is
// Destroyed. Callers must not retain it past that point.
func Points(h Handle) []point.Point { return lookup(h).Points }

// Balanced reports whether h's tree was built with 2:1 balancing enabled.
func Balanced(h Handle) bool { return lookup(h).Balanced }

// WriteVTK exports h's tree to path in VTK unstructured-grid XML. comm is
// accepted for ABI symmetry with Build (standing in for the host's
// message-passing handle); the write itself is rank-local, so when comm
// reports more than one rank path is suffixed with ".rank<N>" to keep
// concurrent per-rank writers from clobbering each other.
func WriteVTK(c comm.Communicator, h Handle, path string) error {
	return sinkvtk.Write(perRankPath(c, path), lookup(h))
}

// WriteHDF5 exports h's tree to path as an HDF5 file, under the same
// per-rank path convention as WriteVTK.
func WriteHDF5(c comm.Communicator, h Handle, path string) error {
	return sinkhdf5.Write(perRankPath(c, path), lookup(h))
}

// ReadHDF5 loads an HDF5 file written by WriteHDF5 and returns a Handle
// owning the reconstructed points, keys and domain. The returned tree
// carries no relation maps or statistics, since sink/hdf5 does not persist
// them; NKeys/NPoints/Keys/Points/Balanced all still work normally.
func ReadHDF5(c comm.Communicator, path string) (Handle, error) {
	snap, err := sinkhdf5.Read(perRankPath(c, path))
	if err != nil {
		return 0, fmt.Errorf("cgoapi: read %s: %w", path, err)
	}

	t := &distree.DistributedTree{
		Points:   snap.Points,
		Keys:     snap.Keys,
		Domain:   snap.Domain,
		Balanced: snap.Balanced,
	}

	return newHandle(t), nil
}

// Destroy releases h. Using h after Destroy panics, same as an unknown
// handle.
func Destroy(h Handle) { table.Delete(h) }

func perRankPath(c comm.Communicator, path string) string {
	if c == nil || c.Size() <= 1 {
		return path
	}
	return fmt.Sprintf("%s.rank%d", path, c.Rank())
}
