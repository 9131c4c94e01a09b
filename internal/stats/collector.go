// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Parser metrics.
	MetricGamesFound   = "chesslm_games_found_total"
	MetricGamesLoaded  = "chesslm_games_loaded_total"
	MetricGamesSkipped = "chesslm_games_skipped_total"

	// Encoder metrics.
	MetricGamesEncoded = "chesslm_games_encoded_total"
	MetricUnknownMoves = "chesslm_unknown_moves_total"

	// Corpus metrics.
	MetricGamesWritten = "chesslm_games_written_total"
	MetricCorpusGames  = "chesslm_corpus_games"

	// Sampler metrics.
	MetricSamples    = "chesslm_samples_total"
	MetricEpochs     = "chesslm_epochs_total"
	MetricBufferSize = "chesslm_buffer_size"
	MetricGamePlies  = "chesslm_game_plies"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
