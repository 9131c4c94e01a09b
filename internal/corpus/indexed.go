package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/feat7/chess-lm/internal/pgn"
)

// DefaultBlockLines is the number of corpus lines grouped into one
// cacheable block.
const DefaultBlockLines = 1024

// IndexedReader provides random access to corpus games by line number.
// It keeps a byte-offset index over both files, built once at open time,
// and caches recently decoded blocks of lines with an LRU so evaluation
// tooling can revisit nearby games cheaply.
//
// An IndexedReader is safe for concurrent use.
type IndexedReader struct {
	movesPath   string
	resultsPath string
	blockLines  int64

	// movesOffsets[b] and resultsOffsets[b] are the byte offsets of
	// line b*blockLines in the respective files.
	movesOffsets   []int64
	resultsOffsets []int64
	games          int64

	mu    sync.Mutex
	cache *lru.Cache[int64, *block]
}

type block struct {
	moves   [][]int
	results []pgn.Result
}

// OpenIndexed builds an index over the corpus pair in dir, caching up to
// cacheBlocks decoded blocks. It fails with ErrAlignment when the two
// files disagree on line count.
func OpenIndexed(dir string, cacheBlocks int) (*IndexedReader, error) {
	if cacheBlocks <= 0 {
		cacheBlocks = 16
	}

	r := &IndexedReader{
		movesPath:   filepath.Join(dir, MovesFile),
		resultsPath: filepath.Join(dir, ResultsFile),
		blockLines:  DefaultBlockLines,
	}

	movesOffsets, movesLines, err := lineOffsets(r.movesPath, r.blockLines)
	if err != nil {
		return nil, err
	}
	resultsOffsets, resultsLines, err := lineOffsets(r.resultsPath, r.blockLines)
	if err != nil {
		return nil, err
	}
	if movesLines != resultsLines {
		return nil, fmt.Errorf("%w (moves %d, results %d)", ErrAlignment, movesLines, resultsLines)
	}

	cache, err := lru.New[int64, *block](cacheBlocks)
	if err != nil {
		return nil, err
	}

	r.movesOffsets = movesOffsets
	r.resultsOffsets = resultsOffsets
	r.games = movesLines
	r.cache = cache
	return r, nil
}

// Len returns the number of games in the corpus.
func (r *IndexedReader) Len() int64 {
	return r.games
}

// Game returns the token ids and result for the i-th game (0-based).
func (r *IndexedReader) Game(i int64) ([]int, pgn.Result, error) {
	if i < 0 || i >= r.games {
		return nil, 0, fmt.Errorf("corpus: game %d out of range [0,%d)", i, r.games)
	}

	blockID := i / r.blockLines
	b, err := r.loadBlock(blockID)
	if err != nil {
		return nil, 0, err
	}

	off := int(i % r.blockLines)
	return b.moves[off], b.results[off], nil
}

func (r *IndexedReader) loadBlock(blockID int64) (*block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.cache.Get(blockID); ok {
		return b, nil
	}

	lines := r.blockLines
	if rest := r.games - blockID*r.blockLines; rest < lines {
		lines = rest
	}

	moveLines, err := readLines(r.movesPath, r.movesOffsets[blockID], lines)
	if err != nil {
		return nil, err
	}
	resultLines, err := readLines(r.resultsPath, r.resultsOffsets[blockID], lines)
	if err != nil {
		return nil, err
	}

	b := &block{
		moves:   make([][]int, lines),
		results: make([]pgn.Result, lines),
	}
	for j := int64(0); j < lines; j++ {
		ids, err := parseIDs(moveLines[j])
		if err != nil {
			return nil, fmt.Errorf("moves line %d: %w", blockID*r.blockLines+j+1, err)
		}
		result, err := parseResult(resultLines[j])
		if err != nil {
			return nil, fmt.Errorf("results line %d: %w", blockID*r.blockLines+j+1, err)
		}
		b.moves[j] = ids
		b.results[j] = result
	}

	r.cache.Add(blockID, b)
	return b, nil
}

// lineOffsets scans path recording the byte offset of every blockLines-th
// line start, and returns the offsets plus the total complete-line count.
func lineOffsets(path string, blockLines int64) ([]int64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	offsets := []int64{0}
	var lines, pos int64
	buf := make([]byte, 256*1024)
	for {
		n, err := f.Read(buf)
		for i, c := range buf[:n] {
			if c == '\n' {
				lines++
				if lines%blockLines == 0 {
					offsets = append(offsets, pos+int64(i)+1)
				}
			}
		}
		pos += int64(n)
		if err == io.EOF {
			return offsets, lines, nil
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading %s: %w", path, err)
		}
	}
}

// readLines reads count lines from path starting at offset.
func readLines(path string, offset, count int64) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking %s: %w", path, err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lines := make([]string, 0, count)
	for int64(len(lines)) < count && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if int64(len(lines)) < count {
		return nil, fmt.Errorf("corpus: %s truncated mid-block", path)
	}
	return lines, nil
}
