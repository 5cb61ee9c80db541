// Package hdf5 persists a built distree.DistributedTree to an HDF5 file and
// reads it back, using github.com/scigolib/hdf5. Datasets live flat at the
// file root ("/points", "/keys", "/balanced", "/domain_origin",
// "/domain_diameter"): the library's CreateDataset does not yet support
// nested groups, so this package never asks it to.
//
// Dataset.Read only converts Float64, Float32, Int32 and Int64 back to
// Go values, so keys and the balanced flag are stored as Float64 rather
// than Uint64/Uint8: a morton.Key never exceeds 53 significant bits (48
// for the deepest Morton code plus 5 for the packed level), well inside
// float64's exact integer range.
package hdf5

import (
	"fmt"

	scigohdf5 "github.com/scigolib/hdf5"

	"github.com/flier/octree/distree"
	"github.com/flier/octree/domain"
	"github.com/flier/octree/morton"
	"github.com/flier/octree/pkg/res"
	"github.com/flier/octree/point"
)

const (
	datasetPoints       = "/points"
	datasetKeys         = "/keys"
	datasetBalanced     = "/balanced"
	datasetDomainOrigin = "/domain_origin"
	datasetDomainDiam   = "/domain_diameter"
)

// Write creates path and dumps t's points, keys, domain and balanced flag
// into it. Points are stored as an N x 3 Float64 dataset in Point order;
// keys as a parallel N-length Float64 dataset (see the package doc comment
// for why Float64 rather than Uint64).
func Write(path string, t *distree.DistributedTree) error {
	fw, err := scigohdf5.CreateForWrite(path, scigohdf5.CreateTruncate)
	if err != nil {
		return fmt.Errorf("hdf5: create %s: %w", path, err)
	}
	defer fw.Close()

	n := uint64(len(t.Points))

	pointsDS, err := fw.CreateDataset(datasetPoints, scigohdf5.Float64, []uint64{n, 3})
	if err != nil {
		return fmt.Errorf("hdf5: create %s: %w", datasetPoints, err)
	}
	coords := make([]float64, 0, n*3)
	for _, p := range t.Points {
		coords = append(coords, p.Coordinate[0], p.Coordinate[1], p.Coordinate[2])
	}
	if err := pointsDS.Write(coords); err != nil {
		return fmt.Errorf("hdf5: write %s: %w", datasetPoints, err)
	}

	keysDS, err := fw.CreateDataset(datasetKeys, scigohdf5.Float64, []uint64{uint64(len(t.Keys))})
	if err != nil {
		return fmt.Errorf("hdf5: create %s: %w", datasetKeys, err)
	}
	keys := make([]float64, len(t.Keys))
	for i, k := range t.Keys {
		keys[i] = float64(uint64(k))
	}
	if err := keysDS.Write(keys); err != nil {
		return fmt.Errorf("hdf5: write %s: %w", datasetKeys, err)
	}

	balancedDS, err := fw.CreateDataset(datasetBalanced, scigohdf5.Float64, []uint64{1})
	if err != nil {
		return fmt.Errorf("hdf5: create %s: %w", datasetBalanced, err)
	}
	balancedValue := 0.0
	if t.Balanced {
		balancedValue = 1.0
	}
	if err := balancedDS.Write([]float64{balancedValue}); err != nil {
		return fmt.Errorf("hdf5: write %s: %w", datasetBalanced, err)
	}

	originDS, err := fw.CreateDataset(datasetDomainOrigin, scigohdf5.Float64, []uint64{3})
	if err != nil {
		return fmt.Errorf("hdf5: create %s: %w", datasetDomainOrigin, err)
	}
	if err := originDS.Write([]float64{t.Domain.Origin[0], t.Domain.Origin[1], t.Domain.Origin[2]}); err != nil {
		return fmt.Errorf("hdf5: write %s: %w", datasetDomainOrigin, err)
	}

	diamDS, err := fw.CreateDataset(datasetDomainDiam, scigohdf5.Float64, []uint64{3})
	if err != nil {
		return fmt.Errorf("hdf5: create %s: %w", datasetDomainDiam, err)
	}
	if err := diamDS.Write([]float64{t.Domain.Diameter[0], t.Domain.Diameter[1], t.Domain.Diameter[2]}); err != nil {
		return fmt.Errorf("hdf5: write %s: %w", datasetDomainDiam, err)
	}

	return nil
}

// Snapshot is the subset of a DistributedTree that survives a round trip
// through a file: the relation maps and build statistics are derived data,
// reconstructible from Points and Keys, and are not persisted.
type Snapshot struct {
	Points   []point.Point
	Keys     []morton.Key
	Domain   domain.Domain
	Balanced bool
}

// decoded holds the raw float64 payload of every dataset Read needs before
// it can assemble a Snapshot.
type decoded struct {
	flat    []float64
	rawKeys []float64
	rawBal  []float64
	rawOrig []float64
	rawDiam []float64
}

// readDataset looks up name in found and reads it, folding the "missing
// dataset" and "read failed" cases into a single res.Result so the five
// dataset reads in Read can be threaded together with res.AndThen instead of
// five repeated if-err blocks.
func readDataset(found map[string]*scigohdf5.Dataset, name string) res.Result[[]float64] {
	ds, ok := found[name]
	if !ok {
		return res.Err[[]float64](fmt.Errorf("missing %s dataset", name))
	}
	return res.Wrap(ds.Read())
}

// Read opens path and reconstructs a Snapshot from its datasets. GlobalIndex
// is reassigned by position, since it is not stored separately.
func Read(path string) (Snapshot, error) {
	var snap Snapshot

	f, err := scigohdf5.Open(path)
	if err != nil {
		return snap, fmt.Errorf("hdf5: open %s: %w", path, err)
	}

	found := map[string]*scigohdf5.Dataset{}
	f.Walk(func(name string, obj scigohdf5.Object) {
		if ds, ok := obj.(*scigohdf5.Dataset); ok {
			found[name] = ds
		}
	})

	chain := res.AndThen(readDataset(found, datasetPoints), func(flat []float64) res.Result[decoded] {
		return res.AndThen(readDataset(found, datasetKeys), func(keys []float64) res.Result[decoded] {
			return res.AndThen(readDataset(found, datasetBalanced), func(bal []float64) res.Result[decoded] {
				return res.AndThen(readDataset(found, datasetDomainOrigin), func(orig []float64) res.Result[decoded] {
					return res.Map(readDataset(found, datasetDomainDiam), func(diam []float64) decoded {
						return decoded{flat: flat, rawKeys: keys, rawBal: bal, rawOrig: orig, rawDiam: diam}
					})
				})
			})
		})
	})
	if chain.IsErr() {
		return snap, fmt.Errorf("hdf5: %s: %w", path, chain.Err)
	}
	d := chain.Unwrap()

	if len(d.flat)%3 != 0 {
		return snap, fmt.Errorf("hdf5: %s: %s length %d not a multiple of 3", path, datasetPoints, len(d.flat))
	}
	if len(d.rawBal) != 1 {
		return snap, fmt.Errorf("hdf5: %s: %s has length %d, want 1", path, datasetBalanced, len(d.rawBal))
	}
	if len(d.rawOrig) != 3 || len(d.rawDiam) != 3 {
		return snap, fmt.Errorf("hdf5: %s: domain datasets must have length 3", path)
	}

	snap.Domain = domain.Domain{
		Origin:   [3]float64{d.rawOrig[0], d.rawOrig[1], d.rawOrig[2]},
		Diameter: [3]float64{d.rawDiam[0], d.rawDiam[1], d.rawDiam[2]},
	}
	snap.Balanced = d.rawBal[0] != 0

	snap.Keys = make([]morton.Key, len(d.rawKeys))
	for i, k := range d.rawKeys {
		snap.Keys[i] = morton.Key(uint64(k))
	}

	n := len(d.flat) / 3
	snap.Points = make([]point.Point, n)
	for i := 0; i < n; i++ {
		coord := [3]float64{d.flat[3*i], d.flat[3*i+1], d.flat[3*i+2]}
		snap.Points[i] = point.Point{
			Coordinate:  coord,
			GlobalIndex: uint64(i),
			Key:         morton.EncodePoint(snap.Domain.Relative(coord), morton.LMax),
		}
	}

	return snap, nil
}
