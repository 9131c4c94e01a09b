package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/feat7/chess-lm/internal/pgn"
	"github.com/feat7/chess-lm/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Build a move vocabulary from PGN archives",
	Long: `Scan a directory of PGN files and write the move vocabulary as a
JSON object mapping move notation to token id.

Ids are stable: control tokens hold fixed low ids and move tokens are
assigned in lexicographic order, so two scans of the same games produce
identical vocabularies.

Example:
  chesslm vocab --input ./pgn --output ./assets/moves.json`,
	RunE: runVocab,
}

var (
	vocabInputDir string
	vocabOutput   string
)

func init() {
	vocabCmd.Flags().StringVarP(&vocabInputDir, "input", "i", "./pgn", "directory of PGN files")
	vocabCmd.Flags().StringVarP(&vocabOutput, "output", "o", "moves.json", "output vocabulary file")
	rootCmd.AddCommand(vocabCmd)
}

func runVocab(cmd *cobra.Command, args []string) error {
	src, err := pgn.OpenDir(vocabInputDir)
	if err != nil {
		return err
	}
	defer src.Close()

	seen := make(map[string]struct{})
	ctx := context.Background()
	for {
		game, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		for _, m := range game.Moves {
			seen[m] = struct{}{}
		}
	}

	stats := src.Stats()
	if stats.Loaded == 0 {
		return pgn.ErrNoGames
	}

	moves := make([]string, 0, len(seen))
	for m := range seen {
		moves = append(moves, m)
	}
	v, err := vocab.FromMoves(moves)
	if err != nil {
		return err
	}
	if err := v.Save(vocabOutput); err != nil {
		return err
	}

	fmt.Printf("Games scanned: %d (%d loaded)\n", stats.Found, stats.Loaded)
	fmt.Printf("Vocabulary:    %d tokens -> %s\n", v.Len(), vocabOutput)
	return nil
}
