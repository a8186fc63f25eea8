package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/codewithdevelpors/hackorbit/internal/common"
	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

const (
	serviceName = "download"
)

type CatalogRepository interface {
	FindByID(ctx context.Context, id string) (*entity.File, error)
}

type CounterRepository interface {
	IncDownloadCounter(ctx context.Context, id string) (int64, error)
	GetCounters(ctx context.Context) (map[string]int64, error)
}

type downloadService struct {
	repo     CatalogRepository
	counters CounterRepository
	log      *slog.Logger
}

// NewDownloadService wires the catalog lookup with the counter store.
// counters may be nil when the counter store is unreachable; downloads
// then proceed without statistics.
func NewDownloadService(repo CatalogRepository, counters CounterRepository, log *slog.Logger) *downloadService {
	return &downloadService{
		repo:     repo,
		counters: counters,
		log:      log.With(slog.String("service", serviceName)),
	}
}

// Download resolves the direct download URL for a file. No bytes are
// transferred here, the client follows the returned URL itself. A record
// without a direct link is an error, the preview image is never served as
// a substitute.
func (s *downloadService) Download(ctx context.Context, id string) (string, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("cannot get file %s: %w", id, err)
	}

	if file.DirectDownloadLink == "" {
		return "", common.ErrNoDownloadLinkError
	}

	if s.counters != nil {
		counter, err := s.counters.IncDownloadCounter(ctx, id)
		if err != nil {
			// Counters are best-effort, the download itself must not fail.
			s.log.Error("Cannot increment download counter", slog.String("id", id), slog.Any("error", err))
		} else {
			s.log.Info("Download file", slog.String("id", id), slog.Int64("counter", counter))
		}
	}

	return file.DirectDownloadLink, nil
}

func (s *downloadService) Counters(ctx context.Context) (map[string]int64, error) {
	if s.counters == nil {
		return nil, common.ErrCountersUnavailableError
	}

	counters, err := s.counters.GetCounters(ctx)
	if err != nil {
		s.log.Error("Cannot get download counters", slog.Any("error", err))

		return nil, fmt.Errorf("cannot get download counters: %w", err)
	}

	return counters, nil
}

// DumpCounters writes a yaml snapshot of the download counters, joined
// with the catalog file names where the lookup succeeds.
func (s *downloadService) DumpCounters(ctx context.Context, fileName string) error {
	counters, err := s.Counters(ctx)
	if err != nil {
		return err
	}

	dump := make([]entity.FileCounter, 0, len(counters))
	for id, counter := range counters {
		fc := entity.FileCounter{ID: id, Counter: counter}

		if file, err := s.repo.FindByID(ctx, id); err == nil {
			fc.FileName = file.FileName
		}

		dump = append(dump, fc)
	}

	data, err := yaml.Marshal(dump)
	if err != nil {
		return fmt.Errorf("cannot marshal counters: %w", err)
	}

	if err := os.WriteFile(fileName, data, 0644); err != nil {
		return fmt.Errorf("cannot write counters dump %s: %w", fileName, err)
	}

	s.log.Info("Dumped counters", slog.String("file", fileName), slog.Int("count", len(dump)))

	return nil
}
