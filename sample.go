package chesslm

// Sample is one fixed-length training window: token ids with aligned
// per-position value targets and an attention mask.
type Sample struct {
	// InputIDs holds exactly WindowSize token ids, padded with the pad
	// token after the game ends.
	InputIDs []int

	// ValueTargets holds the value-head target per position: the game
	// result from the perspective of the side making that move, 0 at
	// the game-start token and at padding.
	ValueTargets []float32

	// Mask is 1 where InputIDs holds a real token, 0 at padding.
	Mask []int8
}
