package downloads

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyFileStats maps a file id to its download counter. HINCRBY keeps the
	// increment atomic across concurrent downloaders.
	KeyFileStats = "hackorbit:stats"
)

type downloadsRepository struct {
	cl  *redis.Client
	log *slog.Logger
}

func NewDownloadsRepository(cl *redis.Client, log *slog.Logger) *downloadsRepository {
	return &downloadsRepository{
		cl:  cl,
		log: log.With(slog.String("item", "DownloadsRepository")),
	}
}

func (r *downloadsRepository) IncDownloadCounter(ctx context.Context, id string) (int64, error) {
	counter, err := r.cl.HIncrBy(ctx, KeyFileStats, id, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("cannot increment file %s counter: %w", id, err)
	}

	return counter, nil
}

func (r *downloadsRepository) GetCounters(ctx context.Context) (map[string]int64, error) {
	raw, err := r.cl.HGetAll(ctx, KeyFileStats).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot get download counters: %w", err)
	}

	counters := make(map[string]int64, len(raw))
	for id, val := range raw {
		c, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			r.log.Error("cannot convert counter to int", slog.String("file_id", id), slog.Any("error", err))

			continue
		}

		counters[id] = c
	}

	return counters, nil
}
