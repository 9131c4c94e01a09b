package report

import (
	"testing"

	"github.com/feat7/chess-lm/internal/corpus"
	"github.com/feat7/chess-lm/internal/pgn"
)

func buildCorpus(t *testing.T, games [][]int, results []pgn.Result) *corpus.Reader {
	t.Helper()
	dir := t.TempDir()
	w, err := corpus.NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	for i, ids := range games {
		if err := w.Append(ids, results[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := corpus.OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSummarize(t *testing.T) {
	games := [][]int{
		{10, 11, 12, 13},
		{20, 21},
		{},
		{30, 31, 32, 33, 34, 35},
	}
	results := []pgn.Result{pgn.WhiteWin, pgn.BlackWin, pgn.Draw, pgn.WhiteWin}
	r := buildCorpus(t, games, results)

	s, err := Summarize(r)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if s.Games != 4 {
		t.Errorf("Games = %d, want 4", s.Games)
	}
	if s.EmptyGames != 1 {
		t.Errorf("EmptyGames = %d, want 1", s.EmptyGames)
	}
	if s.WhiteWins != 2 || s.BlackWins != 1 || s.Draws != 1 {
		t.Errorf("results = %d/%d/%d, want 2/1/1", s.WhiteWins, s.BlackWins, s.Draws)
	}
	if s.MinPlies != 0 || s.MaxPlies != 6 {
		t.Errorf("plies range = [%d,%d], want [0,6]", s.MinPlies, s.MaxPlies)
	}
	if want := 3.0; s.MeanPlies != want {
		t.Errorf("MeanPlies = %v, want %v", s.MeanPlies, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	r := buildCorpus(t, nil, nil)
	s, err := Summarize(r)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.Games != 0 || s.MinPlies != 0 || s.MaxPlies != 0 {
		t.Errorf("summary = %+v, want zero values", s)
	}
}

func TestCountWindows(t *testing.T) {
	games := [][]int{
		{10, 11, 12},                 // 4 tokens with prefix, 1 window at size 6
		{},                           // no windows
		{20, 21, 22, 23, 24, 25, 26}, // 8 tokens, 2 windows
	}
	results := []pgn.Result{pgn.WhiteWin, pgn.Draw, pgn.BlackWin}
	r := buildCorpus(t, games, results)

	n, err := CountWindows(r, 6)
	if err != nil {
		t.Fatalf("CountWindows() error = %v", err)
	}
	if n != 3 {
		t.Errorf("CountWindows() = %d, want 3", n)
	}
}

func TestCountWindows_RejectsBadSize(t *testing.T) {
	games := [][]int{{10, 11, 12}}
	results := []pgn.Result{pgn.WhiteWin}
	r := buildCorpus(t, games, results)

	for _, size := range []int{0, -1, 1} {
		if _, err := CountWindows(r, size); err == nil {
			t.Errorf("CountWindows(size=%d) error = nil, want size error", size)
		}
	}
}
