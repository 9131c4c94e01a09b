package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"github.com/feat7/chess-lm/internal/pgn"
)

// Writer appends encoded games to the corpus file pair. The pair is
// append-only; a filesystem lock enforces the single-writer model.
//
// The moves line and result line for a game are buffered together and
// flushed moves-first, so after a crash the results file can only be
// behind the moves file by games that were never reported as flushed.
// Repair on open truncates both files back to the last aligned pair.
type Writer struct {
	dir  string
	lock *flock.Flock

	moves   *os.File
	results *os.File
	mbuf    *bufio.Writer
	rbuf    *bufio.Writer

	games  int64
	closed bool
}

// NewWriter opens dir for appending, creating it if needed. It acquires
// the corpus lock (ErrLocked if another writer holds it) and repairs any
// tail misalignment left by a previous crash before appending.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring corpus lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	movesPath := filepath.Join(dir, MovesFile)
	resultsPath := filepath.Join(dir, ResultsFile)

	games, err := repairPair(movesPath, resultsPath)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	moves, err := os.OpenFile(movesPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("opening moves file: %w", err)
	}
	results, err := os.OpenFile(resultsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		moves.Close()
		lock.Unlock()
		return nil, fmt.Errorf("opening results file: %w", err)
	}

	return &Writer{
		dir:     dir,
		lock:    lock,
		moves:   moves,
		results: results,
		mbuf:    bufio.NewWriterSize(moves, 1024*1024),
		rbuf:    bufio.NewWriterSize(results, 64*1024),
		games:   games,
	}, nil
}

// Append buffers one game's moves line and result line as a unit.
// The lines hit disk together on the next Flush or Close.
func (w *Writer) Append(ids []int, result pgn.Result) error {
	if w.closed {
		return ErrClosed
	}

	if _, err := w.mbuf.WriteString(formatIDs(ids)); err != nil {
		return fmt.Errorf("writing moves line: %w", err)
	}
	if err := w.mbuf.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing moves line: %w", err)
	}

	if _, err := w.rbuf.WriteString(strconv.Itoa(int(result))); err != nil {
		return fmt.Errorf("writing result line: %w", err)
	}
	if err := w.rbuf.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing result line: %w", err)
	}

	w.games++
	return nil
}

// Flush writes both buffers to disk and syncs, moves file first.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if err := w.mbuf.Flush(); err != nil {
		return fmt.Errorf("flushing moves file: %w", err)
	}
	if err := w.moves.Sync(); err != nil {
		return fmt.Errorf("syncing moves file: %w", err)
	}
	if err := w.rbuf.Flush(); err != nil {
		return fmt.Errorf("flushing results file: %w", err)
	}
	if err := w.results.Sync(); err != nil {
		return fmt.Errorf("syncing results file: %w", err)
	}
	return nil
}

// Games returns the number of games in the corpus, counting repaired
// pre-existing lines plus appended games.
func (w *Writer) Games() int64 {
	return w.games
}

// Dir returns the corpus directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Close flushes pending games, closes both files, and releases the lock.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	flushErr := w.Flush()
	w.closed = true

	if err := w.moves.Close(); flushErr == nil && err != nil {
		flushErr = fmt.Errorf("closing moves file: %w", err)
	}
	if err := w.results.Close(); flushErr == nil && err != nil {
		flushErr = fmt.Errorf("closing results file: %w", err)
	}
	if err := w.lock.Unlock(); flushErr == nil && err != nil {
		flushErr = fmt.Errorf("releasing corpus lock: %w", err)
	}
	return flushErr
}

// repairPair truncates both files to their common count of complete
// newline-terminated lines and returns that count. A partial trailing
// line (crash mid-write) is dropped along with any unmatched lines in
// the longer file.
func repairPair(movesPath, resultsPath string) (int64, error) {
	mLines, err := countCompleteLines(movesPath)
	if err != nil {
		return 0, err
	}
	rLines, err := countCompleteLines(resultsPath)
	if err != nil {
		return 0, err
	}

	n := mLines
	if rLines < n {
		n = rLines
	}
	if err := truncateToLines(movesPath, n, mLines); err != nil {
		return 0, err
	}
	if err := truncateToLines(resultsPath, n, rLines); err != nil {
		return 0, err
	}
	return n, nil
}

// countCompleteLines counts newline-terminated lines in path.
// A missing file counts as zero lines.
func countCompleteLines(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var count int64
	buf := make([]byte, 256*1024)
	for {
		n, err := f.Read(buf)
		for _, b := range buf[:n] {
			if b == '\n' {
				count++
			}
		}
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
	}
}

// truncateToLines truncates path so it contains exactly n complete
// lines. have is the current complete-line count; when the file already
// holds exactly n complete lines and no trailing partial, it is left
// untouched.
func truncateToLines(path string, n, have int64) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		if os.IsNotExist(err) && n == 0 {
			return nil
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var offset int64
	var seen int64
	buf := make([]byte, 256*1024)
scan:
	for seen < n {
		read, err := f.Read(buf)
		for i, b := range buf[:read] {
			if b == '\n' {
				seen++
				if seen == n {
					offset += int64(i) + 1
					break scan
				}
			}
		}
		offset += int64(read)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if seen < n {
		return fmt.Errorf("corpus: %s has %d complete lines, want %d", path, seen, n)
	}
	if offset == info.Size() && have == n {
		return nil
	}
	if err := f.Truncate(offset); err != nil {
		return fmt.Errorf("truncating %s: %w", path, err)
	}
	return f.Sync()
}
