// Package encode converts parsed games into integer token sequences
// using a fixed vocabulary.
package encode

import (
	"fmt"

	"github.com/feat7/chess-lm/internal/pgn"
	"github.com/feat7/chess-lm/internal/vocab"
)

// Policy controls how moves absent from the vocabulary are handled.
type Policy int

const (
	// Strict fails the game's encoding with an *UnknownMoveError.
	Strict Policy = iota

	// SubstituteUnknown maps unmapped moves to the [unk] token.
	SubstituteUnknown
)

// UnknownMoveError reports a move string with no vocabulary mapping.
type UnknownMoveError struct {
	Move   string
	Ply    int
	Source string
}

func (e *UnknownMoveError) Error() string {
	return fmt.Sprintf("encode: move %q (ply %d, %s) not in vocabulary", e.Move, e.Ply, e.Source)
}

// Encoder encodes games against one vocabulary. The same game and
// vocabulary always produce the same output.
type Encoder struct {
	vocab  *vocab.Vocab
	policy Policy
}

// New creates an Encoder over v.
func New(v *vocab.Vocab, policy Policy) *Encoder {
	return &Encoder{vocab: v, policy: policy}
}

// Encode returns the token id sequence and result code for a game.
// Games with no moves encode to an empty (non-nil) sequence.
func (e *Encoder) Encode(g *pgn.Game) ([]int, pgn.Result, error) {
	ids := make([]int, 0, len(g.Moves))
	for ply, move := range g.Moves {
		id, ok := e.vocab.ID(move)
		if !ok {
			if e.policy == Strict {
				return nil, 0, &UnknownMoveError{Move: move, Ply: ply, Source: g.Source}
			}
			id = vocab.UnknownID
		}
		ids = append(ids, id)
	}
	return ids, g.Result, nil
}

// Vocab returns the encoder's vocabulary.
func (e *Encoder) Vocab() *vocab.Vocab {
	return e.vocab
}
