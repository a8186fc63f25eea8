package rating

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codewithdevelpors/hackorbit/internal/common"
	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

const (
	serviceName = "rating"
)

type RatingRepository interface {
	UpdateRating(ctx context.Context, id string, rating int) (*entity.File, error)
}

type ratingService struct {
	repo RatingRepository
	log  *slog.Logger
}

func NewRatingService(repo RatingRepository, log *slog.Logger) *ratingService {
	return &ratingService{
		repo: repo,
		log:  log.With(slog.String("service", serviceName)),
	}
}

// Rate folds one vote into the file's running mean. Votes outside [1,5]
// are rejected before the store is touched.
func (s *ratingService) Rate(ctx context.Context, id string, rating int) (*entity.File, error) {
	if rating < entity.RatingMin || rating > entity.RatingMax {
		return nil, common.ErrInvalidRatingError
	}

	file, err := s.repo.UpdateRating(ctx, id, rating)
	if err != nil {
		s.log.Error("Cannot update rating", slog.String("id", id), slog.Int("rating", rating), slog.Any("error", err))

		return nil, fmt.Errorf("cannot rate file %s: %w", id, err)
	}

	s.log.Info("Rating updated", slog.String("id", id), slog.Int("rating", rating),
		slog.Float64("average", file.Rating), slog.Int64("count", file.RatingsCount))

	return file, nil
}
