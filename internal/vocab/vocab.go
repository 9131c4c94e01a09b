// Package vocab maintains the move-notation vocabulary: a stable mapping
// from SAN move strings to integer token ids.
//
// Control tokens occupy fixed low ids so they survive vocabulary rebuilds;
// move tokens follow in lexicographic order, which makes ids a pure
// function of the move set and therefore stable across runs.
package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Control tokens.
const (
	PadToken     = "[pad]"
	GameToken    = "[GAME]"
	UnknownToken = "[unk]"
)

// Fixed ids for the control tokens.
const (
	PadID     = 0
	GameID    = 1
	UnknownID = 2

	numControl = 3
)

// Vocab is an immutable move-to-id mapping.
type Vocab struct {
	ids   map[string]int
	moves []string // indexed by id
}

// FromMoves builds a vocabulary from a set of move strings. Duplicates
// are collapsed; control tokens are always present and must not appear
// in moves.
func FromMoves(moves []string) (*Vocab, error) {
	set := make(map[string]struct{}, len(moves))
	for _, m := range moves {
		switch m {
		case PadToken, GameToken, UnknownToken:
			return nil, fmt.Errorf("vocab: %q is a reserved control token", m)
		case "":
			return nil, fmt.Errorf("vocab: empty move string")
		}
		set[m] = struct{}{}
	}

	sorted := make([]string, 0, len(set))
	for m := range set {
		sorted = append(sorted, m)
	}
	sort.Strings(sorted)

	v := &Vocab{
		ids:   make(map[string]int, len(sorted)+numControl),
		moves: make([]string, 0, len(sorted)+numControl),
	}
	for _, m := range []string{PadToken, GameToken, UnknownToken} {
		v.ids[m] = len(v.moves)
		v.moves = append(v.moves, m)
	}
	for _, m := range sorted {
		v.ids[m] = len(v.moves)
		v.moves = append(v.moves, m)
	}
	return v, nil
}

// ID returns the token id for a move string.
func (v *Vocab) ID(move string) (int, bool) {
	id, ok := v.ids[move]
	return id, ok
}

// Move returns the move string for a token id.
func (v *Vocab) Move(id int) (string, bool) {
	if id < 0 || id >= len(v.moves) {
		return "", false
	}
	return v.moves[id], true
}

// Len returns the vocabulary size, including control tokens.
func (v *Vocab) Len() int {
	return len(v.moves)
}

// Moves returns the non-control move strings in id order.
func (v *Vocab) Moves() []string {
	out := make([]string, len(v.moves)-numControl)
	copy(out, v.moves[numControl:])
	return out
}

// Decode maps token ids back to move strings. Unknown ids decode to
// UnknownToken rather than failing, since decoding is used for
// evaluation output, not training input.
func (v *Vocab) Decode(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		m, ok := v.Move(id)
		if !ok {
			m = UnknownToken
		}
		out[i] = m
	}
	return out
}

// Save writes the vocabulary as a JSON object mapping move string to id.
func (v *Vocab) Save(path string) error {
	data, err := json.MarshalIndent(v.ids, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling vocabulary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing vocabulary: %w", err)
	}
	return nil
}

// Load reads a vocabulary previously written by Save.
func Load(path string) (*Vocab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}
	var ids map[string]int
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}

	moves := make([]string, len(ids))
	for m, id := range ids {
		if id < 0 || id >= len(moves) {
			return nil, fmt.Errorf("vocab: id %d for %q out of range [0,%d)", id, m, len(moves))
		}
		if moves[id] != "" {
			return nil, fmt.Errorf("vocab: duplicate id %d (%q, %q)", id, moves[id], m)
		}
		moves[id] = m
	}
	for _, want := range []struct {
		id   int
		move string
	}{{PadID, PadToken}, {GameID, GameToken}, {UnknownID, UnknownToken}} {
		if len(moves) <= want.id || moves[want.id] != want.move {
			return nil, fmt.Errorf("vocab: control token %s missing at id %d", want.move, want.id)
		}
	}
	return &Vocab{ids: ids, moves: moves}, nil
}
