// Package sample turns the on-disk corpus into a shuffled stream of
// fixed-length training windows.
//
// Two shuffle modes are supported. Buffer mode keeps a bounded pool of
// windows and swaps a uniformly random slot with each draw, which
// approximates a shuffle in O(buffer) memory; full mode loads every
// window and applies an exact Fisher-Yates permutation. The two modes
// produce the same multiset of windows per epoch and differ only in
// draw order.
package sample

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/feat7/chess-lm/internal/corpus"
	"github.com/feat7/chess-lm/internal/stats"
	"github.com/feat7/chess-lm/internal/window"
)

// Mode selects the shuffle strategy.
type Mode int

const (
	// BufferMode approximates a shuffle with a bounded buffer.
	BufferMode Mode = iota

	// FullMode loads the whole corpus and shuffles exactly.
	FullMode
)

// DefaultBufferSize is the buffer-mode pool size in windows.
const DefaultBufferSize = 10000

// Config holds the sampler configuration.
type Config struct {
	// Window fixes the windowing policy.
	Window window.Config

	// Mode selects buffer or full-load shuffling.
	Mode Mode

	// BufferSize is the pool size for BufferMode. Zero means
	// DefaultBufferSize.
	BufferSize int

	// Seed determines the draw order. Epoch e draws with Seed+e so
	// epochs differ but the whole run is reproducible.
	Seed int64
}

// Sampler yields shuffled windows from one corpus reader. Not safe for
// concurrent use; open one Sampler (with its own reader) per consumer.
type Sampler struct {
	reader    *corpus.Reader
	cfg       Config
	collector stats.Collector

	epoch int64
	rng   *rand.Rand

	// pending holds windows of the most recently read game that have
	// not yet entered the buffer.
	pending    []window.Sample
	streamDone bool

	// buffer mode state.
	buf []window.Sample

	// full mode state.
	all  []window.Sample
	perm []int
	pos  int

	primed bool
}

// New creates a Sampler over reader. The reader must be positioned at
// the start of the corpus.
func New(reader *corpus.Reader, cfg Config, collector stats.Collector) (*Sampler, error) {
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Sampler{
		reader:    reader,
		cfg:       cfg,
		collector: collector,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Next returns the next window, or io.EOF at the end of the epoch.
func (s *Sampler) Next() (*window.Sample, error) {
	if !s.primed {
		if err := s.prime(); err != nil {
			return nil, err
		}
	}

	var out *window.Sample
	var err error
	if s.cfg.Mode == FullMode {
		out, err = s.nextFull()
	} else {
		out, err = s.nextBuffered()
	}
	if err != nil {
		return nil, err
	}
	s.collector.IncCounter(stats.MetricSamples, 1)
	return out, nil
}

// Reset starts a new epoch from the beginning of the corpus.
func (s *Sampler) Reset() error {
	if err := s.reader.Reset(); err != nil {
		return err
	}
	s.epoch++
	s.rng = rand.New(rand.NewSource(s.cfg.Seed + s.epoch))
	s.pending = nil
	s.streamDone = false
	s.buf = nil
	s.all = nil
	s.perm = nil
	s.pos = 0
	s.primed = false
	s.collector.IncCounter(stats.MetricEpochs, 1)
	return nil
}

// Epoch returns the current epoch number, starting at 0.
func (s *Sampler) Epoch() int64 {
	return s.epoch
}

func (s *Sampler) prime() error {
	if s.cfg.Mode == FullMode {
		for {
			w, ok, err := s.nextFromStream()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			s.all = append(s.all, w)
		}
		s.perm = s.rng.Perm(len(s.all))
		s.pos = 0
	} else {
		for len(s.buf) < s.cfg.BufferSize {
			w, ok, err := s.nextFromStream()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			s.buf = append(s.buf, w)
		}
		s.collector.SetGauge(stats.MetricBufferSize, int64(len(s.buf)))
	}
	s.primed = true
	return nil
}

func (s *Sampler) nextFull() (*window.Sample, error) {
	if s.pos >= len(s.perm) {
		return nil, io.EOF
	}
	out := s.all[s.perm[s.pos]]
	s.pos++
	return &out, nil
}

func (s *Sampler) nextBuffered() (*window.Sample, error) {
	if len(s.buf) == 0 {
		return nil, io.EOF
	}

	idx := s.rng.Intn(len(s.buf))
	out := s.buf[idx]

	w, ok, err := s.nextFromStream()
	if err != nil {
		return nil, err
	}
	if ok {
		s.buf[idx] = w
	} else {
		last := len(s.buf) - 1
		s.buf[idx] = s.buf[last]
		s.buf = s.buf[:last]
	}
	s.collector.SetGauge(stats.MetricBufferSize, int64(len(s.buf)))
	return &out, nil
}

// nextFromStream returns the next window from the corpus, reading more
// games as needed. Zero-move games produce no windows and are skipped.
func (s *Sampler) nextFromStream() (window.Sample, bool, error) {
	for len(s.pending) == 0 {
		if s.streamDone {
			return window.Sample{}, false, nil
		}

		ids, result, err := s.reader.Next()
		if err == io.EOF {
			s.streamDone = true
			return window.Sample{}, false, nil
		}
		if err != nil {
			return window.Sample{}, false, fmt.Errorf("sampling corpus: %w", err)
		}

		s.collector.ObserveHistogram(stats.MetricGamePlies, float64(len(ids)))
		s.pending = window.Split(ids, result, s.cfg.Window)
	}

	w := s.pending[0]
	s.pending = s.pending[1:]
	return w, true, nil
}
