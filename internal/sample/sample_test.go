package sample

import (
	"fmt"
	"io"
	"testing"

	"github.com/feat7/chess-lm/internal/corpus"
	"github.com/feat7/chess-lm/internal/pgn"
	"github.com/feat7/chess-lm/internal/window"
)

const (
	testPadID  = 0
	testGameID = 1
)

func testWindow(size int) window.Config {
	return window.Config{Size: size, PadID: testPadID, GameID: testGameID}
}

// buildCorpus writes games to a fresh corpus in dir. Each entry is the
// game's token ids; results cycle white/draw/black.
func buildCorpus(t *testing.T, dir string, games [][]int) {
	t.Helper()
	w, err := corpus.NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	results := []pgn.Result{pgn.WhiteWin, pgn.Draw, pgn.BlackWin}
	for i, ids := range games {
		if err := w.Append(ids, results[i%3]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func openSampler(t *testing.T, dir string, cfg Config) *Sampler {
	t.Helper()
	r, err := corpus.OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })

	s, err := New(r, cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

// drainEpoch collects one epoch as a multiset keyed by window content.
func drainEpoch(t *testing.T, s *Sampler) map[string]int {
	t.Helper()
	seen := make(map[string]int)
	for {
		w, err := s.Next()
		if err == io.EOF {
			return seen
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		seen[fmt.Sprint(w.InputIDs, w.ValueTargets, w.Mask)]++
	}
}

func testGames() [][]int {
	return [][]int{
		{10, 11, 12},
		{},                           // zero-move game, must be skipped without crashing
		{20, 21, 22, 23, 24, 25, 26}, // spans two windows at size 6
		{30},
		{40, 41, 42, 43, 44},
	}
}

func wantWindows(games [][]int, size int) int {
	var n int
	for _, g := range games {
		n += window.Count(len(g), size)
	}
	return n
}

func TestSampler_BufferAndFullSameMultiset(t *testing.T) {
	dir := t.TempDir()
	games := testGames()
	buildCorpus(t, dir, games)

	buffered := openSampler(t, dir, Config{
		Window:     testWindow(6),
		Mode:       BufferMode,
		BufferSize: 2, // force buffer churn
		Seed:       7,
	})
	full := openSampler(t, dir, Config{
		Window: testWindow(6),
		Mode:   FullMode,
		Seed:   99,
	})

	bufSet := drainEpoch(t, buffered)
	fullSet := drainEpoch(t, full)

	want := wantWindows(games, 6)
	var bufTotal, fullTotal int
	for _, n := range bufSet {
		bufTotal += n
	}
	for _, n := range fullSet {
		fullTotal += n
	}
	if bufTotal != want || fullTotal != want {
		t.Fatalf("windows = %d buffered, %d full, want %d", bufTotal, fullTotal, want)
	}

	if len(bufSet) != len(fullSet) {
		t.Fatalf("distinct windows = %d buffered, %d full, want equal", len(bufSet), len(fullSet))
	}
	for k, n := range fullSet {
		if bufSet[k] != n {
			t.Errorf("window %s count = %d buffered, %d full", k, bufSet[k], n)
		}
	}
}

func TestSampler_SeedReproducible(t *testing.T) {
	dir := t.TempDir()
	buildCorpus(t, dir, testGames())

	ordered := func() []string {
		s := openSampler(t, dir, Config{
			Window:     testWindow(6),
			Mode:       BufferMode,
			BufferSize: 3,
			Seed:       42,
		})
		var order []string
		for {
			w, err := s.Next()
			if err == io.EOF {
				return order
			}
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			order = append(order, fmt.Sprint(w.InputIDs))
		}
	}

	first := ordered()
	second := ordered()
	if len(first) != len(second) {
		t.Fatalf("epochs yielded %d and %d windows, want equal", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("draw %d = %s and %s, want identical order", i, first[i], second[i])
		}
	}
}

func TestSampler_ResetNewEpoch(t *testing.T) {
	dir := t.TempDir()
	games := testGames()
	buildCorpus(t, dir, games)

	s := openSampler(t, dir, Config{
		Window:     testWindow(6),
		Mode:       BufferMode,
		BufferSize: 4,
		Seed:       1,
	})

	first := drainEpoch(t, s)
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if s.Epoch() != 1 {
		t.Errorf("Epoch() = %d, want 1", s.Epoch())
	}
	second := drainEpoch(t, s)

	// Same multiset every epoch.
	if len(first) != len(second) {
		t.Fatalf("distinct windows = %d and %d, want equal", len(first), len(second))
	}
	for k, n := range first {
		if second[k] != n {
			t.Errorf("window %s count = %d then %d", k, n, second[k])
		}
	}
}

func TestSampler_SmallBufferLargeCorpus(t *testing.T) {
	dir := t.TempDir()
	var games [][]int
	for i := 0; i < 200; i++ {
		games = append(games, []int{i, i + 1, i + 2})
	}
	buildCorpus(t, dir, games)

	s := openSampler(t, dir, Config{
		Window:     testWindow(8),
		Mode:       BufferMode,
		BufferSize: 10,
		Seed:       3,
	})

	var total int
	for {
		_, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		total++
	}
	if total != 200 {
		t.Errorf("drew %d windows, want 200", total)
	}
}

func TestSampler_EmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	buildCorpus(t, dir, nil)

	s := openSampler(t, dir, Config{Window: testWindow(6), Seed: 1})
	if _, err := s.Next(); err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestSampler_RejectsBadWindow(t *testing.T) {
	dir := t.TempDir()
	buildCorpus(t, dir, testGames())

	r, err := corpus.OpenReader(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := New(r, Config{Window: testWindow(1)}, nil); err == nil {
		t.Error("New() error = nil, want window size error")
	}
}
