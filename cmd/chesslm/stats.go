package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feat7/chess-lm/internal/corpus"
	"github.com/feat7/chess-lm/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Long: `Stream the corpus and report the game-length and result
distributions, plus the number of training windows the corpus yields at
a given window size.

Example:
  chesslm stats --corpus ./corpus --window 60`,
	RunE: runStats,
}

var statsWindow int

func init() {
	statsCmd.Flags().IntVar(&statsWindow, "window", 60, "window size for the window count")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	reader, err := corpus.OpenReader(corpusDir)
	if err != nil {
		return err
	}
	defer reader.Close()

	summary, err := report.Summarize(reader)
	if err != nil {
		return err
	}

	if err := reader.Reset(); err != nil {
		return err
	}
	windows, err := report.CountWindows(reader, statsWindow)
	if err != nil {
		return err
	}

	fmt.Printf("Games:      %d (%d empty)\n", summary.Games, summary.EmptyGames)
	fmt.Printf("Results:    %d white, %d black, %d draws\n",
		summary.WhiteWins, summary.BlackWins, summary.Draws)
	fmt.Printf("Plies:      mean %.1f, stddev %.1f, min %d, max %d\n",
		summary.MeanPlies, summary.StdDevPlies, summary.MinPlies, summary.MaxPlies)
	fmt.Printf("Quantiles:  p50 %.0f, p90 %.0f, p99 %.0f\n",
		summary.P50Plies, summary.P90Plies, summary.P99Plies)
	fmt.Printf("Windows:    %d at size %d\n", windows, statsWindow)
	return nil
}
