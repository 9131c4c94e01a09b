package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/feat7/chess-lm/internal/encode"
	"github.com/feat7/chess-lm/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the training corpus from PGN archives",
	Long: `Parse a directory of PGN files and write the corpus file pair.

This command will:
1. Scan the input games once to build the move vocabulary
   (or load an existing one with --vocab)
2. Encode every game's moves and result against the vocabulary
3. Append aligned lines to moves.txt and results.txt

Compressed archives (.pgn.zst, .pgn.gz) are read transparently.
Malformed games are skipped and counted, never fatal; the final report
shows games found versus games loaded so data loss is visible.

Examples:
  # Build from a directory of archives
  chesslm build --input ./pgn --corpus ./corpus

  # Reuse a fixed vocabulary, mapping unseen moves to [unk]
  chesslm build --input ./pgn --vocab ./assets/moves.json --allow-unknown`,
	RunE: runBuild,
}

var (
	inputDir     string
	vocabPath    string
	allowUnknown bool
	flushEvery   int
)

func init() {
	buildCmd.Flags().StringVarP(&inputDir, "input", "i", "./pgn", "directory of PGN files")
	buildCmd.Flags().StringVar(&vocabPath, "vocab", "", "existing vocabulary file (skips the vocabulary pass)")
	buildCmd.Flags().BoolVar(&allowUnknown, "allow-unknown", false, "encode unmapped moves as [unk] instead of skipping the game")
	buildCmd.Flags().IntVar(&flushEvery, "flush-every", pipeline.DefaultFlushEvery, "games between corpus flushes")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	policy := encode.Strict
	if allowUnknown {
		policy = encode.SubstituteUnknown
	}

	// Setup context with cancellation.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, stopping...")
		cancel()
	}()

	p := pipeline.New(
		pipeline.WithInputDir(inputDir),
		pipeline.WithOutputDir(corpusDir),
		pipeline.WithVocabPath(vocabPath),
		pipeline.WithPolicy(policy),
		pipeline.WithFlushEvery(flushEvery),
		pipeline.WithProgress(pipeline.DefaultProgressFunc),
		pipeline.WithLogger(logger),
	)

	fmt.Printf("Building corpus\n")
	fmt.Printf("  Input:  %s\n", inputDir)
	fmt.Printf("  Output: %s\n", corpusDir)
	if vocabPath != "" {
		fmt.Printf("  Vocab:  %s\n", vocabPath)
	} else {
		fmt.Printf("  Vocab:  built from input\n")
	}
	fmt.Println()

	report, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nGames found:   %d\n", report.Parse.Found)
	fmt.Printf("Games loaded:  %d (%.2f%%)\n", report.Parse.Loaded, report.Parse.LoadRate()*100)
	fmt.Printf("Games written: %d\n", report.GamesWritten)
	if report.UnknownSkipped > 0 {
		fmt.Printf("Skipped (unknown move): %d\n", report.UnknownSkipped)
	}
	fmt.Printf("Vocabulary:    %d tokens\n", report.VocabSize)
	fmt.Printf("Elapsed:       %s\n", pipeline.FormatDuration(report.Elapsed))
	return nil
}
