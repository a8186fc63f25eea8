package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codewithdevelpors/hackorbit/internal/common"
	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

const (
	serviceName = "catalog"
)

type CatalogRepository interface {
	FindPage(ctx context.Context, page, pageSize int) ([]*entity.File, error)
	FindByFilter(ctx context.Context, category, fileType, query string) ([]*entity.File, error)
	FindByID(ctx context.Context, id string) (*entity.File, error)
}

type Translator interface {
	Apply(files []*entity.File, lang string)
}

type catalogService struct {
	repo     CatalogRepository
	tr       Translator
	pageSize int
	log      *slog.Logger
}

func NewCatalogService(repo CatalogRepository, tr Translator, pageSize int, log *slog.Logger) *catalogService {
	return &catalogService{
		repo:     repo,
		tr:       tr,
		pageSize: pageSize,
		log:      log.With(slog.String("service", serviceName)),
	}
}

// List returns one page of the catalog in natural order. Pages are 1-based,
// a page beyond the end is an empty slice, not an error. A non-positive
// pageSize falls back to the configured default.
func (s *catalogService) List(ctx context.Context, page, pageSize int, lang string) ([]*entity.File, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.pageSize
	}

	files, err := s.repo.FindPage(ctx, page, pageSize)
	if err != nil {
		s.log.Error("Cannot list files", slog.Int("page", page), slog.Any("error", err))

		return nil, fmt.Errorf("cannot list page %d: %w", page, err)
	}

	s.tr.Apply(files, lang)

	return files, nil
}

// Search AND's the exact-match filters and the optional text query. An
// empty result is an error only when a text query was supplied; a
// filter-only miss is a normal empty slice.
func (s *catalogService) Search(ctx context.Context, query, category, fileType, lang string) ([]*entity.File, error) {
	files, err := s.repo.FindByFilter(ctx, category, fileType, query)
	if err != nil {
		s.log.Error("Cannot search files", slog.String("query", query), slog.Any("error", err))

		return nil, fmt.Errorf("cannot search files: %w", err)
	}

	if len(files) == 0 && query != "" {
		return nil, common.ErrNoMatchesFoundError
	}

	s.tr.Apply(files, lang)

	return files, nil
}

func (s *catalogService) Details(ctx context.Context, id, lang string) (*entity.File, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get file %s details: %w", id, err)
	}

	s.tr.Apply([]*entity.File{file}, lang)

	return file, nil
}
