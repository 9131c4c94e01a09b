// Package datasetfx provides an fx module for a corpus-backed dataset.
package datasetfx

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	chesslm "github.com/feat7/chess-lm"
	"github.com/feat7/chess-lm/internal/stats"
	"github.com/feat7/chess-lm/internal/stats/logger"
	promstats "github.com/feat7/chess-lm/internal/stats/prometheus"
)

// Config holds configuration for the dataset.
type Config struct {
	// DataDir is the corpus directory.
	DataDir string

	// WindowSize is the window length (n_positions).
	// Default is chesslm.DefaultWindowSize.
	WindowSize int

	// BufferSize is the shuffle-buffer size in windows. Ignored when
	// FullShuffle is set.
	BufferSize int

	// FullShuffle loads the whole corpus and shuffles exactly.
	FullShuffle bool

	// Seed fixes the shuffle seed.
	Seed int64

	// Metrics receives the dataset's metrics when set. When nil,
	// metrics are logged at debug level instead.
	Metrics prometheus.Registerer
}

// Module provides a corpus-backed dataset.
// Requires a *zap.Logger and a Config to be provided.
var Module = fx.Module("dataset",
	fx.Provide(
		newStatsCollector,
		newDataset,
	),
)

func newStatsCollector(cfg Config, log *zap.Logger) stats.Collector {
	if cfg.Metrics != nil {
		return promstats.New(cfg.Metrics)
	}
	return logger.New(log.Named("chesslm.stats"))
}

// Params holds dependencies for creating the dataset.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided dataset.
type Result struct {
	fx.Out

	Dataset *chesslm.Dataset
}

func newDataset(p Params) (Result, error) {
	opts := []chesslm.Option{
		chesslm.WithDataDir(p.Config.DataDir),
		chesslm.WithSeed(p.Config.Seed),
		chesslm.WithStats(p.Collector),
		chesslm.WithLogger(p.Logger.Named("chesslm")),
	}
	if p.Config.WindowSize > 0 {
		opts = append(opts, chesslm.WithWindowSize(p.Config.WindowSize))
	}
	if p.Config.FullShuffle {
		opts = append(opts, chesslm.WithFullShuffle())
	} else if p.Config.BufferSize > 0 {
		opts = append(opts, chesslm.WithShuffleBuffer(p.Config.BufferSize))
	}

	ds, err := chesslm.Open(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ds.Close()
		},
	})

	return Result{Dataset: ds}, nil
}
