package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/codewithdevelpors/hackorbit/internal/common"
	"github.com/codewithdevelpors/hackorbit/internal/config"
	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

const (
	serviceName = "ingest"
)

type RecordSource interface {
	Scan(ctx context.Context) ([]map[string]any, error)
}

type CatalogRepository interface {
	Insert(ctx context.Context, files []*entity.File) (int, error)
	Upsert(ctx context.Context, files []*entity.File) (int, int, error)
}

type ingestService struct {
	running atomic.Bool
	source  RecordSource
	repo    CatalogRepository
	mode    string
	log     *slog.Logger
}

func NewIngestService(source RecordSource, repo CatalogRepository, mode string, log *slog.Logger) *ingestService {
	return &ingestService{
		source: source,
		repo:   repo,
		mode:   mode,
		log:    log.With(slog.String("service", serviceName)),
	}
}

// Ingest reads the configured source, normalizes and validates every record
// and applies the batch in the configured mode. Bad records are rejected
// individually, the batch continues. Only one ingest runs at a time.
func (s *ingestService) Ingest(ctx context.Context) (*entity.IngestReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, common.ErrIngestHasAlreadyStartedError
	}
	defer s.running.Store(false)

	records, err := s.source.Scan(ctx)
	if err != nil {
		s.log.Error("Cannot scan record source", slog.Any("error", err))

		return nil, fmt.Errorf("cannot scan record source: %w", err)
	}

	report := &entity.IngestReport{}

	files := make([]*entity.File, 0, len(records))
	for i, record := range records {
		file, err := buildFile(record)
		if err != nil {
			rejection := entity.Rejection{Index: i, Reason: err.Error()}
			if name, ok := remapFields(record)["fileName"].(string); ok {
				rejection.FileName = name
			}
			report.Rejected = append(report.Rejected, rejection)

			s.log.Warn("Rejected record", slog.Int("index", i), slog.Any("error", err))

			continue
		}

		files = append(files, file)
	}

	switch s.mode {
	case config.IngestModeInsert:
		inserted, err := s.repo.Insert(ctx, files)
		if err != nil {
			return nil, fmt.Errorf("cannot insert files: %w", err)
		}
		report.Inserted = inserted
	case config.IngestModeUpsert:
		upserted, modified, err := s.repo.Upsert(ctx, files)
		if err != nil {
			return nil, fmt.Errorf("cannot upsert files: %w", err)
		}
		report.Inserted = upserted
		report.Replaced = modified
	default:
		return nil, fmt.Errorf("unknown ingest mode %q", s.mode)
	}

	s.log.Info("Ingest finished", slog.Int("inserted", report.Inserted),
		slog.Int("replaced", report.Replaced), slog.Int("rejected", len(report.Rejected)))

	return report, nil
}
