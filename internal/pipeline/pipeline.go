// Package pipeline orchestrates the corpus build: parse PGN archives,
// encode games against a vocabulary, and append to the corpus file pair.
package pipeline

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/feat7/chess-lm/internal/corpus"
	"github.com/feat7/chess-lm/internal/encode"
	"github.com/feat7/chess-lm/internal/pgn"
	"github.com/feat7/chess-lm/internal/stats"
	"github.com/feat7/chess-lm/internal/vocab"
)

// DefaultFlushEvery is how many games are appended between flushes of
// the corpus pair.
const DefaultFlushEvery = 1000

// Pipeline builds a corpus from a directory of PGN archives.
type Pipeline struct {
	inputDir   string
	outputDir  string
	vocabPath  string
	policy     encode.Policy
	flushEvery int
	progress   ProgressFunc
	logger     *zap.Logger
	collector  stats.Collector
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithInputDir sets the PGN input directory.
func WithInputDir(dir string) Option {
	return func(p *Pipeline) { p.inputDir = dir }
}

// WithOutputDir sets the corpus output directory.
func WithOutputDir(dir string) Option {
	return func(p *Pipeline) { p.outputDir = dir }
}

// WithVocabPath loads an existing vocabulary instead of building one
// from the input games.
func WithVocabPath(path string) Option {
	return func(p *Pipeline) { p.vocabPath = path }
}

// WithPolicy sets the unknown-move policy for encoding.
func WithPolicy(policy encode.Policy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// WithFlushEvery sets the number of games between corpus flushes.
func WithFlushEvery(n int) Option {
	return func(p *Pipeline) { p.flushEvery = n }
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return func(p *Pipeline) { p.collector = c }
}

// New creates a Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		inputDir:   "./pgn",
		outputDir:  "./corpus",
		policy:     encode.Strict,
		flushEvery: DefaultFlushEvery,
		logger:     zap.NewNop(),
		collector:  stats.NewNoop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report summarizes a completed build.
type Report struct {
	Parse          pgn.Stats
	GamesWritten   int64
	UnknownSkipped int64
	SourceFiles    int
	VocabSize      int
	Elapsed        time.Duration
}

// Run executes the build: an optional vocabulary pass followed by the
// encode-and-write pass. It fails with pgn.ErrNoGames when the input
// set yields no loadable games.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()

	files, err := pgn.ListFiles(p.inputDir)
	if err != nil {
		return nil, err
	}

	src, err := pgn.OpenDir(p.inputDir)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	v, err := p.vocabulary(ctx, src, startTime)
	if err != nil {
		return nil, err
	}
	p.logger.Info("vocabulary ready",
		zap.Int("size", v.Len()),
		zap.Bool("loaded", p.vocabPath != ""),
	)

	writer, err := corpus.NewWriter(p.outputDir)
	if err != nil {
		return nil, err
	}
	defer writer.Close()

	enc := encode.New(v, p.policy)
	report, err := p.encodeAll(ctx, src, enc, writer, startTime)
	if err != nil {
		return nil, err
	}
	report.SourceFiles = len(files)
	report.VocabSize = v.Len()

	if report.Parse.Loaded == 0 {
		return nil, pgn.ErrNoGames
	}

	if err := v.Save(filepath.Join(p.outputDir, corpus.VocabFile)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	manifest := &corpus.Manifest{
		Version:     1,
		Games:       report.GamesWritten,
		MovesFile:   corpus.MovesFile,
		ResultsFile: corpus.ResultsFile,
		VocabFile:   corpus.VocabFile,
		VocabSize:   v.Len(),
		Delimiter:   corpus.Delimiter,
		SourceFiles: len(files),
		BuiltAt:     time.Now(),
	}
	if err := corpus.WriteManifest(p.outputDir, manifest); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(startTime)
	p.reportProgress(Progress{
		Phase:        "done",
		GamesFound:   report.Parse.Found,
		GamesLoaded:  report.Parse.Loaded,
		GamesWritten: report.GamesWritten,
		StartTime:    startTime,
	})
	p.logger.Info("corpus built",
		zap.Int64("found", report.Parse.Found),
		zap.Int64("loaded", report.Parse.Loaded),
		zap.Int64("written", report.GamesWritten),
		zap.Float64("loadRate", report.Parse.LoadRate()),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// vocabulary loads the configured vocabulary or builds one from a full
// pass over the input, leaving src rewound for the encode pass.
func (p *Pipeline) vocabulary(ctx context.Context, src *pgn.Source, startTime time.Time) (*vocab.Vocab, error) {
	if p.vocabPath != "" {
		return vocab.Load(p.vocabPath)
	}

	seen := make(map[string]struct{})
	for {
		game, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, m := range game.Moves {
			seen[m] = struct{}{}
		}
		if src.Stats().Found%10000 == 0 {
			p.reportProgress(Progress{
				Phase:      "vocab",
				GamesFound: src.Stats().Found,
				StartTime:  startTime,
			})
		}
	}

	moves := make([]string, 0, len(seen))
	for m := range seen {
		moves = append(moves, m)
	}
	v, err := vocab.FromMoves(moves)
	if err != nil {
		return nil, err
	}
	if err := src.Reset(); err != nil {
		return nil, err
	}
	return v, nil
}

// encodeAll runs the encode-and-write pass.
func (p *Pipeline) encodeAll(ctx context.Context, src *pgn.Source, enc *encode.Encoder, writer *corpus.Writer, startTime time.Time) (*Report, error) {
	report := &Report{}

	var sinceFlush int
	for {
		game, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		ids, result, err := enc.Encode(game)
		if err != nil {
			var unknownErr *encode.UnknownMoveError
			if errors.As(err, &unknownErr) {
				// Fatal to this game's encoding only.
				report.UnknownSkipped++
				p.collector.IncCounter(stats.MetricUnknownMoves, 1)
				p.logger.Warn("skipping game with unmapped move",
					zap.String("move", unknownErr.Move),
					zap.String("source", unknownErr.Source),
				)
				continue
			}
			return nil, err
		}
		p.collector.IncCounter(stats.MetricGamesEncoded, 1)

		if err := writer.Append(ids, result); err != nil {
			return nil, err
		}
		report.GamesWritten++
		p.collector.IncCounter(stats.MetricGamesWritten, 1)

		sinceFlush++
		if sinceFlush >= p.flushEvery {
			if err := writer.Flush(); err != nil {
				return nil, err
			}
			sinceFlush = 0
			p.reportProgress(Progress{
				Phase:        "encode",
				GamesFound:   src.Stats().Found,
				GamesLoaded:  src.Stats().Loaded,
				GamesWritten: report.GamesWritten,
				StartTime:    startTime,
			})
		}
	}

	if err := writer.Flush(); err != nil {
		return nil, err
	}

	report.Parse = src.Stats()
	p.collector.IncCounter(stats.MetricGamesFound, report.Parse.Found)
	p.collector.IncCounter(stats.MetricGamesLoaded, report.Parse.Loaded)
	p.collector.IncCounter(stats.MetricGamesSkipped, report.Parse.Skipped())
	p.collector.SetGauge(stats.MetricCorpusGames, writer.Games())
	return report, nil
}

func (p *Pipeline) reportProgress(pr Progress) {
	if p.progress != nil {
		p.progress(pr)
	}
}
