// Package domain computes and represents the axis-aligned bounding box that
// anchors a distributed octree's coordinate system: every Point is encoded
// relative to a Domain's unit cube.
package domain

import (
	"fmt"
	"math"

	"github.com/flier/octree/comm"
	"github.com/flier/octree/octreeerr"
)

// epsilon inflates the computed diameter so that the maximal-coordinate point
// in a point set never lands exactly on the domain's upper face, where it
// would encode to an out-of-range grid index.
const epsilon = 1e-9

// Domain is an immutable axis-aligned bounding box: Origin is the minimal
// corner, Diameter is the (inflated) extent along each axis.
type Domain struct {
	Origin   [3]float64
	Diameter [3]float64
}

// Contains reports whether p lies within d, inclusive of the origin face and
// exclusive of the (already-inflated) far face.
func (d Domain) Contains(p [3]float64) bool {
	for i := 0; i < 3; i++ {
		if p[i] < d.Origin[i] || p[i] >= d.Origin[i]+d.Diameter[i] {
			return false
		}
	}
	return true
}

// Relative maps a point in world coordinates into [0,1)^3 relative to d.
func (d Domain) Relative(p [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = (p[i] - d.Origin[i]) / d.Diameter[i]
	}
	return out
}

// World maps a point already in [0,1)^3 relative coordinates back into world
// coordinates, the inverse of Relative.
func (d Domain) World(relative [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = d.Origin[i] + relative[i]*d.Diameter[i]
	}
	return out
}

// FromLocalPoints computes the element-wise min/max bounding box over a
// rank-local slice of points, inflated by epsilon. Panics on an empty slice
// or a non-finite coordinate: both are programmer errors under §4.5.
func FromLocalPoints(pts [][3]float64) Domain {
	if len(pts) == 0 {
		panic(fmt.Errorf("domain: %w", octreeerr.ErrEmptyPointSet))
	}

	lo, hi := pts[0], pts[0]
	for _, p := range pts {
		for i := 0; i < 3; i++ {
			if math.IsNaN(p[i]) || math.IsInf(p[i], 0) {
				panic(fmt.Errorf("domain: point %v: %w", p, octreeerr.ErrNonFiniteCoordinate))
			}
			if p[i] < lo[i] {
				lo[i] = p[i]
			}
			if p[i] > hi[i] {
				hi[i] = p[i]
			}
		}
	}

	var diameter [3]float64
	for i := 0; i < 3; i++ {
		diameter[i] = hi[i] - lo[i] + epsilon
	}

	return Domain{Origin: lo, Diameter: diameter}
}

// FromGlobalPoints computes the bounding box over the union of every rank's
// local points, via an all-reduce min/max collective over c. Every rank must
// call FromGlobalPoints exactly once with its own local slice; the result is
// identical on every rank.
func FromGlobalPoints(pts [][3]float64, c comm.Communicator) (Domain, error) {
	local := FromLocalPoints(pts)

	lo := local.Origin
	hi := [3]float64{local.Origin[0] + local.Diameter[0], local.Origin[1] + local.Diameter[1], local.Origin[2] + local.Diameter[2]}

	globalLo, err := comm.AllReduceVec3(c, lo, comm.MinOp)
	if err != nil {
		return Domain{}, fmt.Errorf("domain: reducing origin: %w", err)
	}

	globalHi, err := comm.AllReduceVec3(c, hi, comm.MaxOp)
	if err != nil {
		return Domain{}, fmt.Errorf("domain: reducing extent: %w", err)
	}

	var diameter [3]float64
	for i := 0; i < 3; i++ {
		diameter[i] = globalHi[i] - globalLo[i]
	}

	return Domain{Origin: globalLo, Diameter: diameter}, nil
}
