// Package report computes summary statistics over a built corpus.
package report

import (
	"io"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/feat7/chess-lm/internal/corpus"
	"github.com/feat7/chess-lm/internal/pgn"
	"github.com/feat7/chess-lm/internal/window"
)

// Summary describes the game-length and result distributions of a corpus.
type Summary struct {
	Games      int64
	EmptyGames int64

	WhiteWins int64
	BlackWins int64
	Draws     int64

	MeanPlies   float64
	StdDevPlies float64
	MinPlies    int
	MaxPlies    int
	P50Plies    float64
	P90Plies    float64
	P99Plies    float64
}

// Summarize streams the corpus through r and computes a Summary.
// The reader is consumed to the end.
func Summarize(r *corpus.Reader) (*Summary, error) {
	s := &Summary{MinPlies: -1}

	var plies []float64
	for {
		ids, result, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		s.Games++
		switch result {
		case pgn.WhiteWin:
			s.WhiteWins++
		case pgn.BlackWin:
			s.BlackWins++
		default:
			s.Draws++
		}

		n := len(ids)
		if n == 0 {
			s.EmptyGames++
		}
		plies = append(plies, float64(n))
		if s.MinPlies < 0 || n < s.MinPlies {
			s.MinPlies = n
		}
		if n > s.MaxPlies {
			s.MaxPlies = n
		}
	}

	if len(plies) == 0 {
		s.MinPlies = 0
		return s, nil
	}

	s.MeanPlies = stat.Mean(plies, nil)
	s.StdDevPlies = stat.StdDev(plies, nil)

	sort.Float64s(plies)
	s.P50Plies = stat.Quantile(0.5, stat.Empirical, plies, nil)
	s.P90Plies = stat.Quantile(0.9, stat.Empirical, plies, nil)
	s.P99Plies = stat.Quantile(0.99, stat.Empirical, plies, nil)
	return s, nil
}

// CountWindows streams the corpus and counts the training windows it
// yields at the given window size.
func CountWindows(r *corpus.Reader, size int) (int64, error) {
	if err := (window.Config{Size: size}).Validate(); err != nil {
		return 0, err
	}

	var total int64
	for {
		ids, _, err := r.Next()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return 0, err
		}
		total += int64(window.Count(len(ids), size))
	}
}
