// Package distree builds the full distributed linear octree: domain
// reduction, point encoding, local sort, sample-sort partitioning, local
// completion bracketed by exchanged neighbor bounds, optional 2:1 balancing
// with cross-rank boundary healing, and point-to-leaf assignment.
package distree

import (
	"context"
	"fmt"
	"time"

	"github.com/flier/octree/comm"
	"github.com/flier/octree/config"
	"github.com/flier/octree/domain"
	"github.com/flier/octree/internal/debug"
	"github.com/flier/octree/localtree"
	"github.com/flier/octree/morton"
	"github.com/flier/octree/partition"
	"github.com/flier/octree/point"
	"github.com/flier/octree/relation"
)

// DistributedTree is one rank's view of the distributed tree once Build
// completes: the points and keys this rank owns, the domain they were
// encoded against, and the relation maps and statistics derived from them.
type DistributedTree struct {
	Points   []point.Point
	Keys     []morton.Key
	Domain   domain.Domain
	Balanced bool
	Relation relation.Maps
	Stats    localtree.Statistics

	c     comm.Communicator
	state buildState
}

func (t *DistributedTree) transition(to buildState) {
	debug.Log([]any{"rank %d", t.c.Rank()}, "transition", "%s -> %s", t.state, to)
	t.state = to
}

// Build runs the end-to-end pipeline for one rank. coords is this rank's
// local point set; firstIndex is the global index of coords[0], so that
// callers encoding disjoint local slices of a larger distributed point set
// get non-colliding GlobalIndex values. Every rank in c's cohort must call
// Build with the same cfg and must call it at the same logical point in
// their own control flow, since every step but local sort and encode is a
// collective operation on c.
func Build(ctx context.Context, c comm.Communicator, coords [][3]float64, firstIndex uint64, cfg config.Build) (*DistributedTree, error) {
	started := time.Now()
	t := &DistributedTree{c: c, state: stateInit}

	d, err := domain.FromGlobalPoints(coords, c)
	if err != nil {
		return nil, fmt.Errorf("distree: reduce domain: %w", err)
	}
	t.Domain = d
	t.transition(stateDomainReduced)

	level := cfg.LMax
	if level == 0 || level > morton.LMax {
		level = morton.LMax
	}
	pts := point.Encode(coords, firstIndex, d, level)
	t.transition(stateEncoded)

	point.SortByKey(pts)
	t.transition(stateLocallySorted)

	pts, err = partition.Points(ctx, c, pts)
	if err != nil {
		return nil, fmt.Errorf("distree: partition: %w", err)
	}
	t.transition(statePartitioned)

	first, last, err := blockBounds(ctx, c, pts)
	if err != nil {
		return nil, fmt.Errorf("distree: exchange block bounds: %w", err)
	}

	seeds := make([]morton.Key, len(pts))
	for i, p := range pts {
		seeds[i] = p.Key
	}

	var keys []morton.Key
	if len(seeds) == 0 {
		keys = []morton.Key{}
	} else {
		keys = localtree.CompleteLocalTree(seeds, first, last)
	}
	t.transition(stateCompleted)

	if cfg.Balanced && len(keys) > 0 {
		keys, err = balanceAcrossRanks(ctx, c, keys, first, last, cfg.BalanceMaxRounds)
		if err != nil {
			return nil, fmt.Errorf("distree: balance: %w", err)
		}
		t.Balanced = true
		t.transition(stateBalanced)
	}

	t.Points = pts
	t.Keys = keys
	t.Relation = relation.Build(ctx, keys, pts, cfg.Workers)
	t.Stats = localtree.Summarize(keys, pts, started)
	t.transition(stateReady)

	return t, nil
}

// balanceAcrossRanks runs local 2:1 balancing and cross-rank boundary
// healing to a global fixed point, detected by an all-reduce of "did
// anything change on any rank this round". Bounded by maxRounds (default 8
// when <= 0), though the algorithm's own termination guarantee (levels only
// decrease) means convergence is typically reached in 1-2 rounds.
func balanceAcrossRanks(ctx context.Context, c comm.Communicator, keys []morton.Key, first, last morton.Key, maxRounds int) ([]morton.Key, error) {
	if maxRounds <= 0 {
		maxRounds = 8
	}

	for round := 0; round < maxRounds; round++ {
		balanced := localtree.Balance(keys, first, last)
		changedLocally := !sameKeys(keys, balanced)
		keys = balanced

		healed, rippled, err := healBoundary(ctx, c, keys, first, last)
		if err != nil {
			return nil, err
		}
		keys = healed

		anyChanged, err := c.AllReduceBool(ctx, changedLocally || rippled)
		if err != nil {
			return nil, err
		}
		if !anyChanged {
			break
		}
	}

	return keys, nil
}
