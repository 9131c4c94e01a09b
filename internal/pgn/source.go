package pgn

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/feat7/chess-lm/internal/codec"
	"github.com/feat7/chess-lm/internal/codec/gzipcodec"
	"github.com/feat7/chess-lm/internal/codec/noopcodec"
	"github.com/feat7/chess-lm/internal/codec/zstdcodec"
)

// maxLineBytes bounds a single PGN line; comment-heavy exports can have
// very long movetext lines.
const maxLineBytes = 10 * 1024 * 1024

// Source lazily yields games from a directory of PGN archives.
// A Source is not safe for concurrent use; open one per consumer.
type Source struct {
	files []string
	stats Stats

	fileIdx int
	file    io.ReadCloser
	raw     *os.File
	scanner *bufio.Scanner

	// block holds lines of the game currently being accumulated.
	block   strings.Builder
	inBlock bool
}

// OpenDir creates a Source over all PGN files in dir. Files with
// extensions .pgn, .pgn.zst and .pgn.gz are included, in sorted order.
func OpenDir(dir string) (*Source, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	return &Source{files: files}, nil
}

// ListFiles returns the sorted PGN file paths under dir.
// The directory is not walked recursively.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".pgn"),
			strings.HasSuffix(name, ".pgn.zst"),
			strings.HasSuffix(name, ".pgn.gz"):
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Next returns the next parseable game, or io.EOF when the input set is
// exhausted. Malformed blocks are skipped and counted, never returned as
// errors; I/O failures are fatal.
func (s *Source) Next(ctx context.Context) (*Game, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		block, source, err := s.nextBlock()
		if err != nil {
			return nil, err
		}

		s.stats.Found++
		game, err := parseGame(block, source)
		if err != nil {
			if err == errNoResult {
				s.stats.SkippedNoResult++
			} else {
				s.stats.SkippedMalformed++
			}
			continue
		}
		s.stats.Loaded++
		return game, nil
	}
}

// Stats returns the accumulated parse counts.
func (s *Source) Stats() Stats {
	return s.stats
}

// Reset rewinds the source to the beginning of the input set and zeroes
// the stats, so a fresh pass yields the same sequence.
func (s *Source) Reset() error {
	if err := s.closeFile(); err != nil {
		return err
	}
	s.fileIdx = 0
	s.stats = Stats{}
	s.block.Reset()
	s.inBlock = false
	return nil
}

// Close releases the currently open file, if any.
func (s *Source) Close() error {
	return s.closeFile()
}

// nextBlock returns the next raw PGN block and its source path.
// Blocks are delimited by lines starting with "[Event "; text before the
// first such line in a file is ignored.
func (s *Source) nextBlock() (string, string, error) {
	for {
		if s.scanner == nil {
			if s.fileIdx >= len(s.files) {
				return "", "", io.EOF
			}
			if err := s.openFile(s.files[s.fileIdx]); err != nil {
				return "", "", err
			}
		}
		source := s.files[s.fileIdx]

		for s.scanner.Scan() {
			line := s.scanner.Text()
			if strings.HasPrefix(line, "[Event ") {
				if s.inBlock && s.block.Len() > 0 {
					block := s.block.String()
					s.block.Reset()
					s.block.WriteString(line)
					s.block.WriteString("\n")
					return block, source, nil
				}
				s.inBlock = true
			}
			if s.inBlock {
				s.block.WriteString(line)
				s.block.WriteString("\n")
			}
		}
		if err := s.scanner.Err(); err != nil {
			return "", "", fmt.Errorf("reading %s: %w", source, err)
		}

		// File exhausted; flush the trailing block before advancing.
		if err := s.closeFile(); err != nil {
			return "", "", err
		}
		s.fileIdx++
		if s.inBlock && s.block.Len() > 0 {
			block := s.block.String()
			s.block.Reset()
			s.inBlock = false
			return block, source, nil
		}
		s.inBlock = false
	}
}

func (s *Source) openFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	reader, err := codecFor(path).Reader(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decompressing %s: %w", path, err)
	}

	s.raw = f
	s.file = reader
	s.scanner = bufio.NewScanner(reader)
	s.scanner.Buffer(make([]byte, 1024*1024), maxLineBytes)
	return nil
}

func (s *Source) closeFile() error {
	if s.file == nil {
		return nil
	}
	s.file.Close()
	err := s.raw.Close()
	s.file = nil
	s.raw = nil
	s.scanner = nil
	return err
}

// codecFor selects a codec by file extension.
func codecFor(path string) codec.Codec {
	switch filepath.Ext(path) {
	case ".zst":
		return zstdcodec.New()
	case ".gz":
		return gzipcodec.New()
	default:
		return noopcodec.New()
	}
}
