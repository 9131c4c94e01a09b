// Package chesslm turns archives of chess games into training data for a
// move-prediction language model: PGN files are parsed, encoded against a
// move vocabulary, and written as an aligned corpus file pair, which a
// Dataset then serves as shuffled fixed-length token windows.
//
// Example usage:
//
//	ds, err := chesslm.Open(
//	    chesslm.WithDataDir("/path/to/corpus"),
//	    chesslm.WithWindowSize(60),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ds.Close()
//
//	for {
//	    s, err := ds.Next()
//	    if err == io.EOF {
//	        break // end of epoch
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    feed(s.InputIDs, s.ValueTargets, s.Mask)
//	}
package chesslm

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/feat7/chess-lm/internal/corpus"
	"github.com/feat7/chess-lm/internal/sample"
	"github.com/feat7/chess-lm/internal/stats"
	"github.com/feat7/chess-lm/internal/vocab"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNoCorpus indicates no corpus directory was provided.
	ErrNoCorpus = errors.New("chesslm: no corpus directory provided")

	// ErrClosed indicates the dataset has been closed.
	ErrClosed = errors.New("chesslm: dataset closed")
)

// Dataset serves shuffled training windows from a built corpus.
//
// A Dataset owns its own read handles and shuffle state; it is not safe
// for concurrent use. Parallel data-loading workers should each open
// their own Dataset over the same corpus directory.
type Dataset struct {
	dir      string
	games    int64
	vocab    *vocab.Vocab
	reader   *corpus.Reader
	sampler  *sample.Sampler
	stats    stats.Collector
	logger   *zap.Logger
	windowSz int
	closed   atomic.Bool
}

// Open creates a Dataset over a corpus directory. The corpus pair's line
// counts are verified before any sampling; a mismatch is fatal.
func Open(opts ...Option) (*Dataset, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.dir == "" {
		return nil, ErrNoCorpus
	}

	manifest, err := corpus.ReadManifest(cfg.dir)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	games, err := corpus.CountPair(context.Background(), cfg.dir)
	if err != nil {
		return nil, err
	}
	if games != manifest.Games {
		cfg.logger.Warn("manifest game count disagrees with corpus",
			zap.Int64("manifest", manifest.Games),
			zap.Int64("corpus", games),
		)
	}

	v, err := vocab.Load(filepath.Join(cfg.dir, manifest.VocabFile))
	if err != nil {
		return nil, err
	}

	reader, err := corpus.OpenReader(cfg.dir)
	if err != nil {
		return nil, err
	}

	sampler, err := sample.New(reader, sample.Config{
		Window:     windowConfig(cfg.windowSize),
		Mode:       cfg.mode,
		BufferSize: cfg.bufferSize,
		Seed:       cfg.seed,
	}, cfg.stats)
	if err != nil {
		reader.Close()
		return nil, err
	}

	d := &Dataset{
		dir:      cfg.dir,
		games:    games,
		vocab:    v,
		reader:   reader,
		sampler:  sampler,
		stats:    cfg.stats,
		logger:   cfg.logger,
		windowSz: cfg.windowSize,
	}

	d.logger.Debug("dataset opened",
		zap.String("dir", cfg.dir),
		zap.Int64("games", games),
		zap.Int("vocabSize", v.Len()),
		zap.Int("windowSize", cfg.windowSize),
		zap.Bool("fullShuffle", cfg.mode == sample.FullMode),
	)
	return d, nil
}

// Next returns the next training window, or io.EOF at the end of the
// epoch. Call Reset to begin another epoch.
func (d *Dataset) Next() (*Sample, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}

	w, err := d.sampler.Next()
	if err != nil {
		return nil, err
	}
	return &Sample{
		InputIDs:     w.InputIDs,
		ValueTargets: w.ValueTargets,
		Mask:         w.Mask,
	}, nil
}

// Reset rewinds the dataset to the start of a fresh epoch.
func (d *Dataset) Reset() error {
	if d.closed.Load() {
		return ErrClosed
	}
	return d.sampler.Reset()
}

// Games returns the number of games in the corpus.
func (d *Dataset) Games() int64 {
	return d.games
}

// WindowSize returns the configured window length (n_positions).
func (d *Dataset) WindowSize() int {
	return d.windowSz
}

// VocabSize returns the vocabulary size including control tokens.
func (d *Dataset) VocabSize() int {
	return d.vocab.Len()
}

// PadID returns the padding token id.
func (d *Dataset) PadID() int {
	return vocab.PadID
}

// DecodeMoves maps token ids back to move strings, for evaluation output.
func (d *Dataset) DecodeMoves(ids []int) []string {
	return d.vocab.Decode(ids)
}

// Close releases the dataset's file handles.
// After Close, the dataset should not be used.
func (d *Dataset) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return d.reader.Close()
}
