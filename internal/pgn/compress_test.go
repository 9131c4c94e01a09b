package pgn

import (
	"os"
	"strings"
	"testing"

	"github.com/feat7/chess-lm/internal/codec"
	"github.com/feat7/chess-lm/internal/codec/gzipcodec"
	"github.com/feat7/chess-lm/internal/codec/noopcodec"
	"github.com/feat7/chess-lm/internal/codec/zstdcodec"
)

func TestCompressArchive_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		codec   codec.Codec
		wantExt string
	}{
		{"zstd", zstdcodec.New(), ".pgn.zst"},
		{"gzip", gzipcodec.New(), ".pgn.gz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			plain := writePGN(t, dir, "games.pgn", scholarsMate, foolsMate)

			out, err := CompressArchive(plain, tt.codec)
			if err != nil {
				t.Fatalf("CompressArchive() error = %v", err)
			}
			if !strings.HasSuffix(out, tt.wantExt) {
				t.Errorf("output = %q, want %s suffix", out, tt.wantExt)
			}

			// The compressed archive alone must yield the same games.
			if err := os.Remove(plain); err != nil {
				t.Fatal(err)
			}
			src, err := OpenDir(dir)
			if err != nil {
				t.Fatalf("OpenDir() error = %v", err)
			}
			defer src.Close()

			games := drain(t, src)
			if len(games) != 2 {
				t.Fatalf("got %d games, want 2", len(games))
			}
			if games[0].Result != WhiteWin || games[1].Result != BlackWin {
				t.Errorf("results = %v, %v, want 1-0, 0-1", games[0].Result, games[1].Result)
			}
		})
	}
}

func TestCompressArchive_RejectsExtensionless(t *testing.T) {
	dir := t.TempDir()
	plain := writePGN(t, dir, "games.pgn", scholarsMate)

	if _, err := CompressArchive(plain, noopcodec.New()); err == nil {
		t.Error("CompressArchive() error = nil, want extension error")
	}
}

func TestCompressArchive_MissingInput(t *testing.T) {
	if _, err := CompressArchive("/nonexistent/games.pgn", zstdcodec.New()); err == nil {
		t.Error("CompressArchive() error = nil, want open error")
	}
}
