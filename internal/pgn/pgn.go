// Package pgn reads directories of PGN archive files and produces parsed
// games for encoding.
//
// Files are visited in sorted path order and games within a file in file
// order, so re-reading a directory with stable contents yields the same
// game sequence. Compressed archives (.pgn.zst, .pgn.gz) are decompressed
// transparently.
package pgn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// ErrNoGames indicates that an input set contained no loadable games.
var ErrNoGames = errors.New("pgn: no games loaded")

// Result is the outcome of a game, from White's perspective.
type Result int8

// Result codes as written to the results file.
const (
	WhiteWin Result = 1
	BlackWin Result = -1
	Draw     Result = 0
)

// String returns the PGN result tag for r.
func (r Result) String() string {
	switch r {
	case WhiteWin:
		return "1-0"
	case BlackWin:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

// Game is one parsed PGN record.
type Game struct {
	// Moves holds the game's moves in standard algebraic notation.
	Moves []string

	// Result is the game outcome.
	Result Result

	// Source is the path of the file the game came from.
	Source string
}

// Stats accumulates parse counts so data loss is observable. The expected
// yield on real archives is high but not perfect; callers compare Found
// against Loaded rather than assuming every block parses.
type Stats struct {
	// Found is the number of PGN blocks encountered.
	Found int64

	// Loaded is the number of games successfully parsed.
	Loaded int64

	// SkippedMalformed counts blocks with unrecoverable syntax.
	SkippedMalformed int64

	// SkippedNoResult counts blocks without a decisive result tag
	// (unterminated games, "*").
	SkippedNoResult int64
}

// Skipped returns the total number of skipped blocks.
func (s Stats) Skipped() int64 {
	return s.SkippedMalformed + s.SkippedNoResult
}

// LoadRate returns Loaded/Found, or 1 for an empty input.
func (s Stats) LoadRate() float64 {
	if s.Found == 0 {
		return 1
	}
	return float64(s.Loaded) / float64(s.Found)
}

// parseGame parses one PGN block into a Game. A block whose result is "*"
// or absent returns errNoResult; syntax errors come back from the chess
// library.
func parseGame(block, source string) (*Game, error) {
	fn, err := chess.PGN(strings.NewReader(block))
	if err != nil {
		return nil, fmt.Errorf("parsing block: %w", err)
	}
	g := chess.NewGame(fn)

	result, ok := resultOf(g)
	if !ok {
		return nil, errNoResult
	}

	moves := g.Moves()
	positions := g.Positions()
	san := make([]string, len(moves))
	notation := chess.AlgebraicNotation{}
	for i, m := range moves {
		san[i] = notation.Encode(positions[i], m)
	}

	return &Game{
		Moves:  san,
		Result: result,
		Source: source,
	}, nil
}

var errNoResult = errors.New("pgn: no decisive result")

// resultOf derives the result code from a parsed game, falling back to
// the Result tag pair when the movetext carried no termination marker.
func resultOf(g *chess.Game) (Result, bool) {
	outcome := g.Outcome()
	if outcome == chess.NoOutcome {
		if tag := g.GetTagPair("Result"); tag != nil {
			outcome = chess.Outcome(tag.Value)
		}
	}
	switch outcome {
	case chess.WhiteWon:
		return WhiteWin, true
	case chess.BlackWon:
		return BlackWin, true
	case chess.Draw:
		return Draw, true
	default:
		return 0, false
	}
}
