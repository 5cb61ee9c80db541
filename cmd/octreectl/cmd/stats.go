package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flier/octree/localtree"
	sinkhdf5 "github.com/flier/octree/sink/hdf5"
)

var statsInput string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print summary statistics for a built tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := sinkhdf5.Read(statsInput)
		if err != nil {
			return err
		}

		// sink/hdf5 does not persist Statistics (it is derived data), so it is
		// recomputed here; CreationTime reports the time since the read, not the
		// tree's original build duration.
		stats := localtree.Summarize(snap.Keys, snap.Points, time.Now())

		printStats(cmd, stats, snap.Balanced)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsInput, "input", "i", "", "input HDF5 tree file (required)")
	_ = statsCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(statsCmd)
}

func printStats(cmd *cobra.Command, stats localtree.Statistics, balanced bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Octree Statistics")
	fmt.Fprintln(out, "==============================")
	fmt.Fprintf(out, "Number of particles:      %d\n", stats.NumberOfParticles)
	fmt.Fprintf(out, "Maximum level:            %d\n", stats.MaxLevel)
	fmt.Fprintf(out, "Number of leaf keys:      %d\n", stats.NumberOfLeafs)
	fmt.Fprintf(out, "Number of keys in tree:   %d\n", stats.NumberOfKeys)
	fmt.Fprintf(out, "Balanced:                 %t\n", balanced)
	fmt.Fprintf(out, "Min particles per leaf:   %d\n", stats.MinParticlesPerLeaf)
	fmt.Fprintf(out, "Max particles per leaf:   %d\n", stats.MaxParticlesPerLeaf)
	fmt.Fprintf(out, "Avg particles per leaf:   %.2f\n", stats.AvgParticlesPerLeaf)
	fmt.Fprintln(out, "==============================")
	fmt.Fprintln(out)
}
