package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/flier/octree/comm/chanmesh"
	"github.com/flier/octree/config"
	"github.com/flier/octree/distree"
	"github.com/flier/octree/pkg/pointset"
	sinkhdf5 "github.com/flier/octree/sink/hdf5"
)

var (
	buildInput      string
	buildOutput     string
	buildConfigPath string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a distributed tree from a point set and write it as HDF5",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := LoadBuildSettings(buildConfigPath, cmd.Flags())
		if err != nil {
			return err
		}

		f, err := pointset.Read(buildInput)
		if err != nil {
			return err
		}
		if len(f.Points) == 0 {
			return fmt.Errorf("octreectl: %s has no points", buildInput)
		}

		cfg := config.New(buildOptions(settings)...)

		return runDistributedBuild(f.Points, settings.Ranks, cfg, buildOutput)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildInput, "input", "i", "", "input point-set JSON file (required)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "tree.h5", "output HDF5 file path (suffixed with .rank<N> when ranks > 1)")
	buildCmd.Flags().StringVar(&buildConfigPath, "config", "", "optional YAML/TOML/JSON file overriding build defaults")
	buildCmd.Flags().Int("ranks", 1, "number of simulated ranks to partition the point set across")
	buildCmd.Flags().Bool("balance", false, "enable 2:1 balancing across ranks")
	buildCmd.Flags().Int("balance-max-rounds", 0, "cap on balancing rounds; 0 means the library default")
	buildCmd.Flags().Int("workers", 0, "worker pool size for relation-map construction; 0 means GOMAXPROCS")
	buildCmd.Flags().Int("lmax", 16, "finest Morton encoding level")
	_ = buildCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(buildCmd)
}

func buildOptions(s *BuildSettings) []config.Option {
	opts := []config.Option{config.WithLMax(uint8(s.LMax))}
	if s.Balance {
		opts = append(opts, config.WithBalance(s.BalanceMaxRounds))
	}
	if s.Workers > 0 {
		opts = append(opts, config.WithWorkers(s.Workers))
	}
	return opts
}

// runDistributedBuild partitions pts contiguously across ranks simulated
// ranks on an in-process channel mesh, runs distree.Build concurrently on
// each (a collective operation: every rank must call it), and writes each
// rank's shard to basePath (suffixed ".rank<N>" when ranks > 1).
func runDistributedBuild(pts [][3]float64, ranks int, cfg config.Build, basePath string) error {
	mesh := chanmesh.New(ranks)
	defer mesh.Close()

	chunks := partitionContiguous(pts, ranks)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for rank := 0; rank < ranks; rank++ {
		rank := rank
		wg.Add(1)
		go func() {
			defer wg.Done()

			c := mesh.Rank(rank)
			t, err := distree.Build(context.Background(), c, chunks[rank], firstIndexOf(chunks, rank), cfg)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("octreectl: rank %d: build: %w", rank, err)
				}
				mu.Unlock()
				return
			}

			path := perRankPath(basePath, ranks, rank)
			if err := sinkhdf5.Write(path, t); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("octreectl: rank %d: write %s: %w", rank, path, err)
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			GetLogger().WithField("rank", rank).Info(
				"wrote %d particles, %d leaves, max level %d to %s",
				t.Stats.NumberOfParticles, t.Stats.NumberOfLeafs, t.Stats.MaxLevel, path)
			mu.Unlock()
		}()
	}

	wg.Wait()

	return firstErr
}

// partitionContiguous splits pts into ranks contiguous, near-equal chunks.
func partitionContiguous(pts [][3]float64, ranks int) [][][3]float64 {
	chunks := make([][][3]float64, ranks)

	n := len(pts)
	base, rem := n/ranks, n%ranks

	start := 0
	for r := 0; r < ranks; r++ {
		size := base
		if r < rem {
			size++
		}
		chunks[r] = pts[start : start+size]
		start += size
	}

	return chunks
}

func firstIndexOf(chunks [][][3]float64, rank int) uint64 {
	var idx uint64
	for r := 0; r < rank; r++ {
		idx += uint64(len(chunks[r]))
	}
	return idx
}

func perRankPath(basePath string, ranks, rank int) string {
	if ranks <= 1 {
		return basePath
	}
	return fmt.Sprintf("%s.rank%d", basePath, rank)
}
