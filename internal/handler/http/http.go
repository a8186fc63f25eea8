package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/codewithdevelpors/hackorbit/internal/common"
	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

const (
	healthTimeout = 2 * time.Second
)

var (
	idRegexp = regexp.MustCompile(`^[a-f\d]{24}$`)
)

type CatalogService interface {
	List(ctx context.Context, page, pageSize int, lang string) ([]*entity.File, error)
	Search(ctx context.Context, query, category, fileType, lang string) ([]*entity.File, error)
	Details(ctx context.Context, id, lang string) (*entity.File, error)
}

type RatingService interface {
	Rate(ctx context.Context, id string, rating int) (*entity.File, error)
}

type DownloadService interface {
	Download(ctx context.Context, id string) (string, error)
	Counters(ctx context.Context) (map[string]int64, error)
}

type IngestService interface {
	Ingest(ctx context.Context) (*entity.IngestReport, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type messageResponse struct {
	Message string `json:"message"`
}

func NewListHandler(srv CatalogService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "ListHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page, err := strconv.Atoi(q.Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		// limit is optional, the service applies the configured default.
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			limit = 0
		}

		files, err := srv.List(r.Context(), page, limit, q.Get("lang"))
		if err != nil {
			writeError(w, log, err, "Failed to fetch files")

			return
		}

		writeJSON(w, http.StatusOK, files)
	}
}

func NewSearchHandler(srv CatalogService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "SearchHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		files, err := srv.Search(r.Context(), q.Get("query"), q.Get("category"), q.Get("type"), q.Get("lang"))
		if err != nil {
			switch {
			case errors.Is(err, common.ErrNoMatchesFoundError):
				writeJSON(w, http.StatusNotFound, messageResponse{Message: "No data found"})
			default:
				writeError(w, log, err, "Search failed")
			}

			return
		}

		writeJSON(w, http.StatusOK, files)
	}
}

func NewDetailsHandler(srv CatalogService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "DetailsHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !idRegexp.MatchString(id) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Bad request"})

			return
		}

		file, err := srv.Details(r.Context(), id, r.URL.Query().Get("lang"))
		if err != nil {
			writeError(w, log, err, "Failed to fetch details")

			return
		}

		writeJSON(w, http.StatusOK, file)
	}
}

func NewRateHandler(srv RatingService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "RateHandler"))

	type rateRequest struct {
		Rating int `json:"rating"`
	}

	type rateResponse struct {
		Message string       `json:"message"`
		File    *entity.File `json:"file"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !idRegexp.MatchString(id) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Bad request"})

			return
		}

		var req rateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Bad request"})

			return
		}

		file, err := srv.Rate(r.Context(), id, req.Rating)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrInvalidRatingError):
				writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Rating must be an integer between 1 and 5"})
			default:
				writeError(w, log, err, "Failed to rate file")
			}

			return
		}

		writeJSON(w, http.StatusOK, rateResponse{Message: "Rating updated", File: file})
	}
}

func NewDownloadHandler(srv DownloadService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "DownloadHandler"))

	type downloadResponse struct {
		Message string `json:"message"`
		FileURL string `json:"fileUrl"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if !idRegexp.MatchString(id) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Bad request"})

			return
		}

		fileURL, err := srv.Download(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrNoDownloadLinkError):
				writeJSON(w, http.StatusNotFound, messageResponse{Message: "File has no download link"})
			default:
				writeError(w, log, err, "Download failed")
			}

			return
		}

		writeJSON(w, http.StatusOK, downloadResponse{Message: "Download started", FileURL: fileURL})
	}
}

func NewStatsHandler(srv DownloadService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "StatsHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := srv.Counters(r.Context())
		if err != nil {
			writeError(w, log, err, "Failed to fetch download stats")

			return
		}

		writeJSON(w, http.StatusOK, counters)
	}
}

func NewIngestHandler(srv IngestService, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "IngestHandler"))

	return func(w http.ResponseWriter, r *http.Request) {
		report, err := srv.Ingest(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, common.ErrIngestHasAlreadyStartedError):
				writeJSON(w, http.StatusConflict, messageResponse{Message: "Ingest has already started"})
			default:
				writeError(w, log, err, "Ingest failed")
			}

			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

// NewHealthHandler reports liveness and store connectivity. The process
// stays alive when the store is down, this endpoint is how that shows.
func NewHealthHandler(pinger Pinger, log *slog.Logger) http.HandlerFunc {
	log = log.With(slog.String("handler", "HealthHandler"))

	type healthResponse struct {
		Server string `json:"server"`
		DB     string `json:"db"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		db := "connected"
		if err := pinger.Ping(ctx); err != nil {
			log.Warn("Store ping failed", slog.Any("error", err))
			db = "disconnected"
		}

		writeJSON(w, http.StatusOK, healthResponse{Server: "running", DB: db})
	}
}

// NewStatusHandler answers the bare root probe used by deployment checks.
func NewStatusHandler() http.HandlerFunc {
	type statusResponse struct {
		ActiveStatus bool `json:"activeStatus"`
		Error        bool `json:"error"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{ActiveStatus: true, Error: false})
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, common.ErrFileNotFoundError):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "File not found"})
	case errors.Is(err, common.ErrStoreUnavailableError):
		log.Error("Store unavailable", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: msg})
	default:
		log.Error("Request failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: msg})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
