package chesslm

import (
	"go.uber.org/zap"

	"github.com/feat7/chess-lm/internal/sample"
	"github.com/feat7/chess-lm/internal/stats"
	"github.com/feat7/chess-lm/internal/vocab"
	"github.com/feat7/chess-lm/internal/window"
)

// DefaultWindowSize is the default window length (n_positions).
const DefaultWindowSize = 60

// Option configures a Dataset.
type Option interface {
	apply(*options)
}

// options holds the dataset configuration.
type options struct {
	dir        string
	windowSize int
	mode       sample.Mode
	bufferSize int
	seed       int64
	stats      stats.Collector
	logger     *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		windowSize: DefaultWindowSize,
		mode:       sample.BufferMode,
		bufferSize: sample.DefaultBufferSize,
		stats:      stats.NewNoop(),
		logger:     zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithDataDir sets the corpus directory to sample from.
func WithDataDir(dir string) Option {
	return optionFunc(func(o *options) {
		o.dir = dir
	})
}

// WithWindowSize sets the window length (n_positions).
// Default is 60.
func WithWindowSize(n int) Option {
	return optionFunc(func(o *options) {
		o.windowSize = n
	})
}

// WithShuffleBuffer selects buffer-mode shuffling with a pool of n
// windows. Larger buffers decorrelate samples better at the cost of
// memory; full-load shuffling (WithFullShuffle) decorrelates exactly.
func WithShuffleBuffer(n int) Option {
	return optionFunc(func(o *options) {
		o.mode = sample.BufferMode
		o.bufferSize = n
	})
}

// WithFullShuffle loads the whole corpus into memory and shuffles
// exactly once per epoch.
func WithFullShuffle() Option {
	return optionFunc(func(o *options) {
		o.mode = sample.FullMode
	})
}

// WithSeed fixes the shuffle seed so draw order is reproducible.
func WithSeed(seed int64) Option {
	return optionFunc(func(o *options) {
		o.seed = seed
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// windowConfig builds the fixed windowing policy for a window size.
func windowConfig(size int) window.Config {
	return window.Config{
		Size:   size,
		PadID:  vocab.PadID,
		GameID: vocab.GameID,
	}
}
