package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest contains metadata about a built corpus.
type Manifest struct {
	Version     int       `json:"version"`
	Games       int64     `json:"games"`
	MovesFile   string    `json:"moves_file"`
	ResultsFile string    `json:"results_file"`
	VocabFile   string    `json:"vocab_file"`
	VocabSize   int       `json:"vocab_size"`
	Delimiter   string    `json:"delimiter"`
	SourceFiles int       `json:"source_files"`
	BuiltAt     time.Time `json:"built_at"`
}

const manifestFilename = "manifest.json"

// WriteManifest writes the manifest to the corpus directory.
func WriteManifest(dir string, m *Manifest) error {
	path := filepath.Join(dir, manifestFilename)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads the manifest from a corpus directory.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
