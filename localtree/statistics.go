package localtree

import (
	"time"

	"github.com/flier/octree/morton"
	"github.com/flier/octree/point"
)

// Statistics summarizes a built local tree, supplementing the distilled
// design with the reference implementation's dropped reporting fields
// (particle/leaf counts, level extent, load distribution, build duration).
type Statistics struct {
	NumberOfParticles   int
	NumberOfLeafs       int
	NumberOfKeys        int
	MaxLevel            uint8
	MinParticlesPerLeaf int
	MaxParticlesPerLeaf int
	AvgParticlesPerLeaf float64
	CreationTime        time.Duration
}

// Summarize computes Statistics for a built tree: keys must be the sorted,
// complete leaf sequence and pts the points assigned into it via
// point.AssignLeaf. started is the time the build began, used to fill
// CreationTime.
func Summarize(keys []morton.Key, pts []point.Point, started time.Time) Statistics {
	counts := make([]int, len(keys))
	for _, p := range pts {
		counts[point.AssignLeaf(keys, p)]++
	}

	stats := Statistics{
		NumberOfParticles: len(pts),
		NumberOfLeafs:     len(keys),
		NumberOfKeys:      len(keys),
		CreationTime:      time.Since(started),
	}

	for _, k := range keys {
		if k.Level() > stats.MaxLevel {
			stats.MaxLevel = k.Level()
		}
	}

	if len(counts) == 0 {
		return stats
	}

	stats.MinParticlesPerLeaf, stats.MaxParticlesPerLeaf = counts[0], counts[0]
	sum := 0
	for _, c := range counts {
		if c < stats.MinParticlesPerLeaf {
			stats.MinParticlesPerLeaf = c
		}
		if c > stats.MaxParticlesPerLeaf {
			stats.MaxParticlesPerLeaf = c
		}
		sum += c
	}
	stats.AvgParticlesPerLeaf = float64(sum) / float64(len(counts))

	return stats
}
