// Package window slices encoded games into fixed-length training
// windows.
//
// Policy, fixed so sample counts are reproducible between runs: each
// game is prefixed with the [GAME] token, the resulting sequence is cut
// into consecutive windows of exactly Size tokens, and the final short
// window is right-padded with [pad]. A game with L moves therefore
// yields ceil((L+1)/Size) windows; a game with no moves yields none.
//
// Value targets follow the game result from White's perspective and
// alternate sign per ply, with 0 at the [GAME] token and at padding.
// The mask is 1 for real tokens and 0 for padding.
package window

import (
	"fmt"

	"github.com/feat7/chess-lm/internal/pgn"
)

// Sample is one fixed-length training window.
type Sample struct {
	// InputIDs has exactly the configured window size.
	InputIDs []int

	// ValueTargets holds the per-position value target, aligned with
	// InputIDs.
	ValueTargets []float32

	// Mask is 1 where InputIDs holds a real token, 0 at padding.
	Mask []int8
}

// Config fixes the windowing policy parameters.
type Config struct {
	// Size is the window length in tokens (n_positions).
	Size int

	// PadID is the padding token id.
	PadID int

	// GameID is the game-start token id.
	GameID int
}

// Validate reports whether the config can produce windows.
func (c Config) Validate() error {
	if c.Size < 2 {
		return fmt.Errorf("window: size %d too small, need at least 2", c.Size)
	}
	return nil
}

// Count returns the number of windows produced for a game of moveLen
// moves under window size, counting the [GAME] prefix token. Empty games
// and non-positive sizes yield zero windows.
func Count(moveLen, size int) int {
	if moveLen == 0 || size <= 0 {
		return 0
	}
	tokens := moveLen + 1
	return (tokens + size - 1) / size
}

// Split cuts one encoded game into windows. Empty games return nil.
func Split(ids []int, result pgn.Result, cfg Config) []Sample {
	if len(ids) == 0 {
		return nil
	}

	seq := make([]int, 0, len(ids)+1)
	seq = append(seq, cfg.GameID)
	seq = append(seq, ids...)

	values := make([]float32, len(seq))
	for ply := range ids {
		// White moves on even plies.
		v := float32(result)
		if ply%2 == 1 {
			v = -v
		}
		values[ply+1] = v
	}

	n := Count(len(ids), cfg.Size)
	samples := make([]Sample, 0, n)
	for start := 0; start < len(seq); start += cfg.Size {
		end := start + cfg.Size
		real := cfg.Size
		if end > len(seq) {
			real = len(seq) - start
			end = len(seq)
		}

		s := Sample{
			InputIDs:     make([]int, cfg.Size),
			ValueTargets: make([]float32, cfg.Size),
			Mask:         make([]int8, cfg.Size),
		}
		copy(s.InputIDs, seq[start:end])
		copy(s.ValueTargets, values[start:end])
		for i := 0; i < real; i++ {
			s.Mask[i] = 1
		}
		for i := real; i < cfg.Size; i++ {
			s.InputIDs[i] = cfg.PadID
		}
		samples = append(samples, s)
	}
	return samples
}
