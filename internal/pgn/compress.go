package pgn

import (
	"fmt"
	"io"
	"os"

	"github.com/feat7/chess-lm/internal/codec"
)

// CompressArchive rewrites the PGN file at path as a compressed archive
// next to it, named path plus the codec's extension. The original file
// is left in place; the partial output is removed on failure.
func CompressArchive(path string, c codec.Codec) (string, error) {
	ext := c.Extension()
	if ext == "" {
		return "", fmt.Errorf("pgn: codec %T has no extension", c)
	}

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer in.Close()

	outPath := path + "." + ext
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", outPath, err)
	}

	if err := compressInto(in, out, c); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("compressing %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("closing %s: %w", outPath, err)
	}
	return outPath, nil
}

func compressInto(in io.Reader, out io.Writer, c codec.Codec) error {
	w, err := c.Writer(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
