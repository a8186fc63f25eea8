package seedadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
)

// seedAdapter reads a batch of raw catalog records from a JSON array file,
// the export format of the legacy data scripts. Field names are left as-is,
// remapping to the canonical schema happens during ingestion.
type seedAdapter struct {
	fs   afero.Fs
	path string
	log  *slog.Logger
}

func NewSeedAdapter(path string, log *slog.Logger) *seedAdapter {
	return NewSeedAdapterWithFS(afero.NewOsFs(), path, log)
}

func NewSeedAdapterWithFS(fs afero.Fs, path string, log *slog.Logger) *seedAdapter {
	return &seedAdapter{
		fs:   fs,
		path: path,
		log:  log.With(slog.String("item", "SeedAdapter")),
	}
}

func (a *seedAdapter) Scan(_ context.Context) ([]map[string]any, error) {
	content, err := afero.ReadFile(a.fs, a.path)
	if err != nil {
		return nil, fmt.Errorf("cannot read data file %s: %w", a.path, err)
	}

	var records []map[string]any
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("cannot parse data file %s: %w", a.path, err)
	}

	a.log.Info("Read data file", slog.String("path", a.path), slog.Int("records", len(records)))

	return records, nil
}
