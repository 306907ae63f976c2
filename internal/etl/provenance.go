// internal/etl/provenance.go
package etl

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DatasetProvenance records what one dataset load produced.
type DatasetProvenance struct {
	Dataset  string `json:"dataset"`
	Path     string `json:"path"`
	Loaded   int    `json:"loaded"`
	Rejected int    `json:"rejected"`
}

// Provenance is the manifest written after every ETL run. Consumers
// treat its presence as "datasets are loaded" and its timestamp as the
// data vintage.
type Provenance struct {
	GeneratedAt string              `json:"generatedAt"`
	Datasets    []DatasetProvenance `json:"datasets"`
}

// BuildProvenance assembles the manifest from load results.
func BuildProvenance(results []*LoadResult) Provenance {
	p := Provenance{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, r := range results {
		p.Datasets = append(p.Datasets, DatasetProvenance{
			Dataset:  r.Dataset,
			Path:     r.Path,
			Loaded:   r.Loaded,
			Rejected: r.Rejected,
		})
	}
	return p
}

// WriteProvenance writes the manifest as indented JSON.
func WriteProvenance(path string, p Provenance) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return nil
}
