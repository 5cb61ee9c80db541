package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flier/octree/pkg/clilog"
)

var (
	verbose bool
	logger  clilog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "octreectl",
	Short: "Build, inspect and export distributed octrees",
	Long: `octreectl drives the distributed octree library from the command line:
build runs a simulated multi-rank build over an in-process channel mesh,
stats reports on a previously built tree, and export writes it to VTK, HDF5
or JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := clilog.LevelInfo
		if verbose {
			level = clilog.LevelDebug
		}
		logger = clilog.New(level, os.Stdout)
		return nil
	},
}

// Execute runs the root command, exiting the process with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	binName := BinName()
	rootCmd.Example = `  # Build a 4-rank tree from a generated point set
  ` + binName + ` build -i points.json -o tree.h5 --ranks 4 --balance

  # Print summary statistics for a single-rank tree
  ` + binName + ` stats -i tree.h5

  # Export a built tree to VTK for visualization
  ` + binName + ` export vtk -i tree.h5 -o tree.vtu`
}

// BinName returns the base name of the running executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}

// GetLogger returns the logger configured by the root command's PersistentPreRunE.
func GetLogger() clilog.Logger {
	return logger
}
