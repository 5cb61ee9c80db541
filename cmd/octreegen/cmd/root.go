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
	Use:   "octreegen",
	Short: "Generate synthetic point sets for octreectl",
	Long: `octreegen writes a synthetic point set (uniform or clustered) to a flat
JSON file, in the format octreectl build expects as input.`,
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
	rootCmd.Example = `  # 10000 uniformly distributed points in the unit cube
  ` + binName + ` generate -n 10000 -o points.json

  # 5000 points clustered around 8 centers
  ` + binName + ` generate -n 5000 --distribution clustered --clusters 8 -o points.json`
}

// BinName returns the base name of the running executable, used to build
// examples that match however the binary was actually invoked.
func BinName() string {
	return filepath.Base(os.Args[0])
}

// GetLogger returns the logger configured by the root command's PersistentPreRunE.
func GetLogger() clilog.Logger {
	return logger
}
