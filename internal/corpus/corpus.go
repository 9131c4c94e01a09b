// Package corpus reads and writes the training corpus file pair: a
// moves file of space-delimited token ids (one game per line) and a
// results file of one result code per line.
//
// Line i of the two files always describes the same game. The writer
// maintains this invariant across crashes by repairing the pair on open;
// readers treat any observed mismatch as fatal corruption.
package corpus

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/feat7/chess-lm/internal/pgn"
)

// Well-known file names inside a corpus directory.
const (
	MovesFile   = "moves.txt"
	ResultsFile = "results.txt"
	VocabFile   = "moves.json"
	lockFile    = ".lock"
)

// Delimiter separates token ids on a moves-file line.
const Delimiter = " "

// Sentinel errors.
var (
	// ErrAlignment indicates the moves and results files disagree on
	// line count. The corpus must be rejected, not truncated.
	ErrAlignment = errors.New("corpus: moves/results line counts differ")

	// ErrLocked indicates another writer holds the corpus lock.
	ErrLocked = errors.New("corpus: already locked by another writer")

	// ErrClosed indicates the reader or writer has been closed.
	ErrClosed = errors.New("corpus: closed")
)

// formatIDs renders a token id sequence as one moves-file line, without
// the trailing newline. An empty sequence renders as an empty line.
func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(Delimiter)
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

// parseIDs parses one moves-file line. An empty line is a zero-move game.
func parseIDs(line string) ([]int, error) {
	fields := strings.Fields(line)
	ids := make([]int, len(fields))
	for i, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("corpus: bad token %q: %w", f, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// parseResult parses one results-file line.
func parseResult(line string) (pgn.Result, error) {
	switch strings.TrimSpace(line) {
	case "1":
		return pgn.WhiteWin, nil
	case "-1":
		return pgn.BlackWin, nil
	case "0":
		return pgn.Draw, nil
	default:
		return 0, fmt.Errorf("corpus: bad result code %q", strings.TrimSpace(line))
	}
}
