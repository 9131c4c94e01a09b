package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/feat7/chess-lm/internal/pgn"
)

// Reader streams aligned (token ids, result) pairs from a corpus
// directory. Each Reader owns independent read-only file handles, so any
// number of Readers may consume the same corpus concurrently.
type Reader struct {
	dir     string
	moves   *os.File
	results *os.File
	mscan   *bufio.Scanner
	rscan   *bufio.Scanner
	line    int64
	closed  bool
}

// OpenReader opens the corpus pair in dir for sequential reading.
func OpenReader(dir string) (*Reader, error) {
	moves, err := os.Open(filepath.Join(dir, MovesFile))
	if err != nil {
		return nil, fmt.Errorf("opening moves file: %w", err)
	}
	results, err := os.Open(filepath.Join(dir, ResultsFile))
	if err != nil {
		moves.Close()
		return nil, fmt.Errorf("opening results file: %w", err)
	}

	r := &Reader{dir: dir, moves: moves, results: results}
	r.resetScanners()
	return r, nil
}

func (r *Reader) resetScanners() {
	r.mscan = bufio.NewScanner(r.moves)
	r.mscan.Buffer(make([]byte, 64*1024), 4*1024*1024)
	r.rscan = bufio.NewScanner(r.results)
	r.line = 0
}

// Next returns the next aligned pair, io.EOF at the end of the corpus,
// or ErrAlignment if one file ends before the other.
func (r *Reader) Next() ([]int, pgn.Result, error) {
	if r.closed {
		return nil, 0, ErrClosed
	}

	mOK := r.mscan.Scan()
	rOK := r.rscan.Scan()

	// A scanner stopping on a read error is not evidence of
	// misalignment; report the real failure.
	if !mOK {
		if err := r.mscan.Err(); err != nil {
			return nil, 0, fmt.Errorf("reading moves file: %w", err)
		}
	}
	if !rOK {
		if err := r.rscan.Err(); err != nil {
			return nil, 0, fmt.Errorf("reading results file: %w", err)
		}
	}
	if mOK != rOK {
		return nil, 0, fmt.Errorf("%w (at line %d)", ErrAlignment, r.line+1)
	}
	if !mOK {
		return nil, 0, io.EOF
	}

	ids, err := parseIDs(r.mscan.Text())
	if err != nil {
		return nil, 0, fmt.Errorf("moves line %d: %w", r.line+1, err)
	}
	result, err := parseResult(r.rscan.Text())
	if err != nil {
		return nil, 0, fmt.Errorf("results line %d: %w", r.line+1, err)
	}

	r.line++
	return ids, result, nil
}

// Line returns the number of pairs read so far.
func (r *Reader) Line() int64 {
	return r.line
}

// Reset rewinds the reader to the start of the corpus.
func (r *Reader) Reset() error {
	if r.closed {
		return ErrClosed
	}
	if _, err := r.moves.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding moves file: %w", err)
	}
	if _, err := r.results.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding results file: %w", err)
	}
	r.resetScanners()
	return nil
}

// Close releases both file handles.
func (r *Reader) Close() error {
	if r.closed {
		return ErrClosed
	}
	r.closed = true
	mErr := r.moves.Close()
	rErr := r.results.Close()
	if mErr != nil {
		return mErr
	}
	return rErr
}

// CountPair counts the lines of the moves and results files, reading
// both concurrently. It returns ErrAlignment when the counts differ.
func CountPair(ctx context.Context, dir string) (int64, error) {
	var movesN, resultsN int64

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := countCompleteLines(filepath.Join(dir, MovesFile))
		movesN = n
		return err
	})
	g.Go(func() error {
		n, err := countCompleteLines(filepath.Join(dir, ResultsFile))
		resultsN = n
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if movesN != resultsN {
		return 0, fmt.Errorf("%w (moves %d, results %d)", ErrAlignment, movesN, resultsN)
	}
	return movesN, nil
}
