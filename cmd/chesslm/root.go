package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags.
	corpusDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "chesslm",
	Short: "Build and sample chess language-model training corpora",
	Long: `chesslm is a CLI tool for preparing transformer training data from
chess game archives.

It parses PGN files into games, encodes moves against a stable
vocabulary, and writes an aligned corpus file pair (moves + results)
that the sampler serves as shuffled fixed-length token windows.

Examples:
  # Build a corpus from a directory of PGN archives
  chesslm build --input ./pgn --corpus ./corpus

  # Check corpus alignment
  chesslm verify

  # Show corpus statistics
  chesslm stats

  # Draw a few samples the way the training loop would
  chesslm sample --count 3`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&corpusDir, "corpus", "c", "./corpus", "corpus directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// newLogger builds the CLI logger honoring --verbose.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
