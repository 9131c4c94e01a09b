package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/feat7/chess-lm/internal/corpus"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check corpus file pair alignment",
	Long: `Verify that the moves and results files have matching line counts
and that every line parses.

A line-count mismatch means the corpus is corrupt and must be rebuilt;
training on a misaligned pair would pair games with the wrong results.

Example:
  chesslm verify --corpus ./corpus`,
	RunE: runVerify,
}

var deepVerify bool

func init() {
	verifyCmd.Flags().BoolVar(&deepVerify, "deep", false, "also parse every line, not just count them")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	games, err := corpus.CountPair(context.Background(), corpusDir)
	if err != nil {
		return err
	}
	fmt.Printf("Aligned: %d games\n", games)

	manifest, err := corpus.ReadManifest(corpusDir)
	if err == nil && manifest.Games != games {
		return fmt.Errorf("manifest records %d games, corpus has %d", manifest.Games, games)
	}

	if !deepVerify {
		return nil
	}

	reader, err := corpus.OpenReader(corpusDir)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		_, _, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	fmt.Printf("Parsed:  %d games, no errors\n", reader.Line())
	return nil
}
