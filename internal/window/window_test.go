package window

import (
	"testing"

	"github.com/feat7/chess-lm/internal/pgn"
)

const (
	testPadID  = 0
	testGameID = 1
)

func testConfig(size int) Config {
	return Config{Size: size, PadID: testPadID, GameID: testGameID}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name    string
		moveLen int
		size    int
		want    int
	}{
		{"empty game", 0, 6, 0},
		{"shorter than window", 3, 6, 1},
		{"fills window exactly with prefix", 5, 6, 1},
		{"equal to window", 6, 6, 2},
		{"longer than window", 12, 6, 3},
		{"much longer", 100, 6, 17},
		{"zero size", 5, 0, 0},
		{"negative size", 5, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.moveLen, tt.size); got != tt.want {
				t.Errorf("Count(%d, %d) = %d, want %d", tt.moveLen, tt.size, got, tt.want)
			}
		})
	}
}

func TestSplit_EmptyGame(t *testing.T) {
	if got := Split(nil, pgn.WhiteWin, testConfig(6)); got != nil {
		t.Errorf("Split(empty) = %v, want nil", got)
	}
}

func TestSplit_PadsShortGame(t *testing.T) {
	ids := []int{10, 11, 12}
	samples := Split(ids, pgn.WhiteWin, testConfig(6))
	if len(samples) != 1 {
		t.Fatalf("len(samples) = %d, want 1", len(samples))
	}

	s := samples[0]
	wantIDs := []int{testGameID, 10, 11, 12, testPadID, testPadID}
	wantMask := []int8{1, 1, 1, 1, 0, 0}
	wantValues := []float32{0, 1, -1, 1, 0, 0}
	for i := range wantIDs {
		if s.InputIDs[i] != wantIDs[i] {
			t.Errorf("InputIDs[%d] = %d, want %d", i, s.InputIDs[i], wantIDs[i])
		}
		if s.Mask[i] != wantMask[i] {
			t.Errorf("Mask[%d] = %d, want %d", i, s.Mask[i], wantMask[i])
		}
		if s.ValueTargets[i] != wantValues[i] {
			t.Errorf("ValueTargets[%d] = %v, want %v", i, s.ValueTargets[i], wantValues[i])
		}
	}
}

func TestSplit_LongGame(t *testing.T) {
	ids := make([]int, 12)
	for i := range ids {
		ids[i] = 100 + i
	}
	samples := Split(ids, pgn.BlackWin, testConfig(6))
	if len(samples) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(samples))
	}

	// First window starts with the game token, no padding.
	if samples[0].InputIDs[0] != testGameID {
		t.Errorf("first token = %d, want game token", samples[0].InputIDs[0])
	}
	for _, m := range samples[0].Mask {
		if m != 1 {
			t.Error("first window should have no padding")
			break
		}
	}

	// Second window continues the sequence without a game token.
	if samples[1].InputIDs[0] != 105 {
		t.Errorf("second window first token = %d, want 105", samples[1].InputIDs[0])
	}

	// Third window holds the last token plus padding.
	if samples[2].InputIDs[0] != 111 {
		t.Errorf("third window first token = %d, want 111", samples[2].InputIDs[0])
	}
	wantMask := []int8{1, 0, 0, 0, 0, 0}
	for i, m := range samples[2].Mask {
		if m != wantMask[i] {
			t.Errorf("third window Mask[%d] = %d, want %d", i, m, wantMask[i])
		}
	}
}

func TestSplit_ValueSignsAlternate(t *testing.T) {
	ids := []int{10, 11, 12, 13}
	samples := Split(ids, pgn.BlackWin, testConfig(8))
	s := samples[0]

	// Black won: even plies (White to move) carry -1, odd plies +1.
	want := []float32{0, -1, 1, -1, 1, 0, 0, 0}
	for i := range want {
		if s.ValueTargets[i] != want[i] {
			t.Errorf("ValueTargets[%d] = %v, want %v", i, s.ValueTargets[i], want[i])
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	ids := []int{5, 6, 7, 8, 9}
	a := Split(ids, pgn.Draw, testConfig(4))
	b := Split(ids, pgn.Draw, testConfig(4))
	if len(a) != len(b) {
		t.Fatalf("len = %d and %d, want equal", len(a), len(b))
	}
	for i := range a {
		for j := range a[i].InputIDs {
			if a[i].InputIDs[j] != b[i].InputIDs[j] {
				t.Fatalf("windows differ at [%d][%d]", i, j)
			}
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := testConfig(1).Validate(); err == nil {
		t.Error("Validate(size=1) = nil, want error")
	}
	if err := testConfig(2).Validate(); err != nil {
		t.Errorf("Validate(size=2) = %v, want nil", err)
	}
}
