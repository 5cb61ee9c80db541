package distree

import (
	"context"
	"encoding/binary"

	"github.com/flier/octree/comm"
	"github.com/flier/octree/localtree"
	"github.com/flier/octree/morton"
	"github.com/flier/octree/point"
)

func encodeKey(k morton.Key) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(k))
	return b
}

func decodeKey(b []byte) morton.Key {
	if len(b) < 8 {
		return morton.Root
	}
	return morton.Key(binary.LittleEndian.Uint64(b))
}

func boundaryPeers(rank, size int) (left, right int) {
	left, right = rank-1, rank+1
	if left < 0 {
		left = -1
	}
	if right >= size {
		right = -1
	}
	return left, right
}

// blockBounds determines the [first, last] bracket CompleteLocalTree should
// use for this rank's block: the rank's own first key and the right
// neighbor's first owned key, learned via one single-peer SendRecv round.
// The gap between two consecutive blocks is therefore completed by the left
// rank only, and no leaf is produced by both. The first rank uses Root's
// deepest-first descendant as its lower bound and the last rank uses Root's
// deepest-last descendant as its upper bound.
func blockBounds(ctx context.Context, c comm.Communicator, pts []point.Point) (first, last morton.Key, err error) {
	if len(pts) == 0 {
		return morton.Root.DeepestFirstDescendant(), morton.Root.DeepestLastDescendant(), nil
	}

	lo := pts[0].Key
	leftPeer, rightPeer := boundaryPeers(c.Rank(), c.Size())

	rightLoResp, err := c.SendRecv(ctx, rightPeer, encodeKey(lo))
	if err != nil {
		return 0, 0, err
	}

	first = morton.Root.DeepestFirstDescendant()
	if leftPeer >= 0 {
		first = lo
	}

	last = morton.Root.DeepestLastDescendant()
	if rightPeer >= 0 {
		last = decodeKey(rightLoResp)
	}

	return first, last, nil
}

// healBoundary exchanges each rank's outermost leaf with its neighbors and,
// for any of that foreign leaf's algebraic neighbor cells that fall inside
// this rank's own block, adds that cell's parent to the working set before
// re-completing — the same Parent(neighbor)-accumulation localtree.Balance
// uses within one rank's keys, seeded here by a neighboring rank's boundary
// leaf instead. This heals 2:1 violations that straddle a rank boundary,
// which a purely local Balance call cannot see.
func healBoundary(ctx context.Context, c comm.Communicator, keys []morton.Key, first, last morton.Key) (healed []morton.Key, changed bool, err error) {
	if len(keys) == 0 {
		return keys, false, nil
	}

	myFirst, myLast := keys[0], keys[len(keys)-1]
	leftPeer, rightPeer := boundaryPeers(c.Rank(), c.Size())

	rightResp, err := c.SendRecv(ctx, rightPeer, encodeKey(myFirst))
	if err != nil {
		return nil, false, err
	}

	leftResp, err := c.SendRecv(ctx, leftPeer, encodeKey(myLast))
	if err != nil {
		return nil, false, err
	}

	var foreign []morton.Key
	if leftPeer >= 0 {
		foreign = append(foreign, decodeKey(leftResp))
	}
	if rightPeer >= 0 {
		foreign = append(foreign, decodeKey(rightResp))
	}

	working := append([]morton.Key(nil), keys...)
	for _, f := range foreign {
		for _, n := range f.Neighbors() {
			if !(n > first && n < last) {
				continue
			}
			if p := n.Parent(); p.IsSome() {
				working = append(working, p.Unwrap())
			}
		}
	}

	healed = localtree.CompleteLocalTree(working, first, last)

	return healed, !sameKeys(keys, healed), nil
}

func sameKeys(a, b []morton.Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
