// Package partition implements sample-sort re-partitioning of Morton keys
// (and, carried alongside by permutation, their points) across a fixed
// cohort of ranks, so that rank r ends up owning a contiguous Morton range
// with roughly equal counts.
package partition

import (
	"context"
	"fmt"
	"sort"

	"github.com/flier/octree/comm"
	"github.com/flier/octree/morton"
	"github.com/flier/octree/point"
)

// sampleLocal picks up to count equally spaced keys from sorted, which must
// already be in ascending order. Returns fewer than count if sorted is
// shorter.
func sampleLocal(sorted []morton.Key, count int) []morton.Key {
	if len(sorted) == 0 || count <= 0 {
		return nil
	}
	out := make([]morton.Key, 0, count)
	step := float64(len(sorted)) / float64(count+1)
	for i := 1; i <= count; i++ {
		idx := int(float64(i) * step)
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		out = append(out, sorted[idx])
	}
	return out
}

// pickSplitters sorts samples globally and selects p-1 splitters at
// rank-evenly-spaced positions. Ties between equal-valued samples are broken
// by their already-deterministic raw integer order.
func pickSplitters(samples []morton.Key, p int) []morton.Key {
	if p <= 1 || len(samples) == 0 {
		return nil
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	out := make([]morton.Key, 0, p-1)
	step := float64(len(samples)) / float64(p)
	for r := 1; r < p; r++ {
		idx := int(float64(r) * step)
		if idx >= len(samples) {
			idx = len(samples) - 1
		}
		out = append(out, samples[idx])
	}
	return out
}

// binFor returns the destination rank for k: the number of splitters not
// exceeding k, so rank r owns the half-open range [splitters[r-1],
// splitters[r]) with splitters[-1] = -inf and splitters[P-1] = +inf.
func binFor(splitters []morton.Key, k morton.Key) int {
	return sort.Search(len(splitters), func(i int) bool { return splitters[i] > k })
}

// Keys re-partitions keys across the communicator's cohort: every rank
// contributes its local sorted keys and receives back the contiguous Morton
// block it now owns, sorted ascending.
func Keys(ctx context.Context, c comm.Communicator, keys []morton.Key) ([]morton.Key, error) {
	sorted := append([]morton.Key(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	p := c.Size()

	splitters, err := splitterCollective(ctx, c, sorted, p)
	if err != nil {
		return nil, err
	}

	buckets := make([][]morton.Key, p)
	for _, k := range sorted {
		r := binFor(splitters, k)
		buckets[r] = append(buckets[r], k)
	}

	send := make([][]byte, p)
	for r, b := range buckets {
		send[r] = encodeKeys(b)
	}

	recv, err := c.AllToAll(ctx, send)
	if err != nil {
		return nil, fmt.Errorf("partition: exchange keys: %w", err)
	}

	var out []morton.Key
	for _, b := range recv {
		out = append(out, decodeKeys(b)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

// Points re-partitions pts the same way Keys does, keyed by each point's own
// Morton key and carrying the full point payload through the exchange by
// permutation (distree needs points to follow their keys, not just the keys
// themselves).
func Points(ctx context.Context, c comm.Communicator, pts []point.Point) ([]point.Point, error) {
	sorted := append([]point.Point(nil), pts...)
	point.SortByKey(sorted)

	keys := make([]morton.Key, len(sorted))
	for i, pt := range sorted {
		keys[i] = pt.Key
	}

	p := c.Size()

	splitters, err := splitterCollective(ctx, c, keys, p)
	if err != nil {
		return nil, err
	}

	buckets := make([][]point.Point, p)
	for _, pt := range sorted {
		r := binFor(splitters, pt.Key)
		buckets[r] = append(buckets[r], pt)
	}

	send := make([][]byte, p)
	for r, b := range buckets {
		send[r] = encodePoints(b)
	}

	recv, err := c.AllToAll(ctx, send)
	if err != nil {
		return nil, fmt.Errorf("partition: exchange points: %w", err)
	}

	var out []point.Point
	for _, b := range recv {
		out = append(out, decodePoints(b)...)
	}
	point.SortByKey(out)

	return out, nil
}

// splitterCollective runs steps 1-3 of the protocol shared by Keys and
// Points: sample this rank's sorted keys, all-gather every rank's samples,
// and pick the global splitters.
func splitterCollective(ctx context.Context, c comm.Communicator, sorted []morton.Key, p int) ([]morton.Key, error) {
	local := sampleLocal(sorted, p-1)

	gathered, err := c.AllGather(ctx, encodeKeys(local))
	if err != nil {
		return nil, fmt.Errorf("partition: gather samples: %w", err)
	}

	var samples []morton.Key
	for _, b := range gathered {
		samples = append(samples, decodeKeys(b)...)
	}

	return pickSplitters(samples, p), nil
}
