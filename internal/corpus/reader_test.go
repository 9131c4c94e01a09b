package corpus

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feat7/chess-lm/internal/pgn"
)

func writePair(t *testing.T, dir, moves, results string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, MovesFile), []byte(moves), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ResultsFile), []byte(results), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReader_StreamsPairs(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "3 4 5\n\n6 7\n", "1\n0\n-1\n")

	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer r.Close()

	want := []struct {
		ids    []int
		result pgn.Result
	}{
		{[]int{3, 4, 5}, pgn.WhiteWin},
		{[]int{}, pgn.Draw},
		{[]int{6, 7}, pgn.BlackWin},
	}
	for i, tt := range want {
		ids, result, err := r.Next()
		if err != nil {
			t.Fatalf("Next() %d error = %v", i, err)
		}
		if result != tt.result {
			t.Errorf("pair %d result = %v, want %v", i, result, tt.result)
		}
		if len(ids) != len(tt.ids) {
			t.Fatalf("pair %d has %d ids, want %d", i, len(ids), len(tt.ids))
		}
		for j := range tt.ids {
			if ids[j] != tt.ids[j] {
				t.Errorf("pair %d id %d = %d, want %d", i, j, ids[j], tt.ids[j])
			}
		}
	}

	if _, _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() at end error = %v, want io.EOF", err)
	}
	if r.Line() != 3 {
		t.Errorf("Line() = %d, want 3", r.Line())
	}
}

func TestReader_AlignmentError(t *testing.T) {
	tests := []struct {
		name    string
		moves   string
		results string
	}{
		{"moves longer", "1\n2\n3\n", "1\n0\n"},
		{"results longer", "1\n", "1\n0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writePair(t, dir, tt.moves, tt.results)

			r, err := OpenReader(dir)
			if err != nil {
				t.Fatalf("OpenReader() error = %v", err)
			}
			defer r.Close()

			for {
				_, _, err = r.Next()
				if err != nil {
					break
				}
			}
			if !errors.Is(err, ErrAlignment) {
				t.Errorf("Next() error = %v, want ErrAlignment", err)
			}
		})
	}
}

func TestReader_OversizedLineNotAlignment(t *testing.T) {
	dir := t.TempDir()

	// A moves line past the scanner's limit stops the moves scanner with
	// bufio.ErrTooLong while the results scanner still has lines. The
	// reader must surface the read error, not call the pair misaligned.
	huge := strings.Repeat("1 ", 3*1024*1024)
	writePair(t, dir, huge+"\n", "1\n")

	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer r.Close()

	_, _, err = r.Next()
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("Next() error = %v, want bufio.ErrTooLong", err)
	}
	if errors.Is(err, ErrAlignment) {
		t.Error("Next() reported ErrAlignment for a read failure")
	}
}

func TestReader_Reset(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "1 2\n3\n", "1\n-1\n")

	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer r.Close()

	for {
		if _, _, err := r.Next(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}

	if err := r.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	ids, result, err := r.Next()
	if err != nil {
		t.Fatalf("Next() after Reset error = %v", err)
	}
	if len(ids) != 2 || result != pgn.WhiteWin {
		t.Errorf("Next() after Reset = %v, %v", ids, result)
	}
}

func TestReader_BadLines(t *testing.T) {
	tests := []struct {
		name    string
		moves   string
		results string
	}{
		{"bad token", "1 x 3\n", "1\n"},
		{"bad result", "1 2\n", "7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writePair(t, dir, tt.moves, tt.results)

			r, err := OpenReader(dir)
			if err != nil {
				t.Fatalf("OpenReader() error = %v", err)
			}
			defer r.Close()

			if _, _, err := r.Next(); err == nil {
				t.Error("Next() error = nil, want parse error")
			}
		})
	}
}

func TestCountPair_Mismatch(t *testing.T) {
	dir := t.TempDir()
	writePair(t, dir, "1\n2\n", "1\n")

	_, err := CountPair(context.Background(), dir)
	if !errors.Is(err, ErrAlignment) {
		t.Errorf("CountPair() error = %v, want ErrAlignment", err)
	}
}
