package httphandler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewithdevelpors/hackorbit/internal/common"
	"github.com/codewithdevelpors/hackorbit/internal/entity"
)

const testID = "65a1b2c3d4e5f6a7b8c9d0e1"

type stubCatalog struct {
	files []*entity.File
	file  *entity.File
	err   error
}

func (s *stubCatalog) List(context.Context, int, int, string) ([]*entity.File, error) {
	return s.files, s.err
}

func (s *stubCatalog) Search(context.Context, string, string, string, string) ([]*entity.File, error) {
	return s.files, s.err
}

func (s *stubCatalog) Details(context.Context, string, string) (*entity.File, error) {
	return s.file, s.err
}

type stubRating struct {
	file   *entity.File
	err    error
	gotID  string
	gotVal int
}

func (s *stubRating) Rate(_ context.Context, id string, rating int) (*entity.File, error) {
	s.gotID = id
	s.gotVal = rating

	return s.file, s.err
}

type stubDownload struct {
	url      string
	counters map[string]int64
	err      error
}

func (s *stubDownload) Download(context.Context, string) (string, error) {
	return s.url, s.err
}

func (s *stubDownload) Counters(context.Context) (map[string]int64, error) {
	return s.counters, s.err
}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error { return s.err }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestListHandler(t *testing.T) {
	srv := &stubCatalog{files: []*entity.File{{FileName: "demo.py"}}}
	handler := NewListHandler(srv, newTestLogger())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/developers/files?page=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var files []entity.File
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	require.Len(t, files, 1)
	require.Equal(t, "demo.py", files[0].FileName)
}

func TestListHandlerStoreDown(t *testing.T) {
	srv := &stubCatalog{err: fmt.Errorf("list: %w", common.ErrStoreUnavailableError)}
	handler := NewListHandler(srv, newTestLogger())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/developers/files", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearchHandlerNoMatches(t *testing.T) {
	srv := &stubCatalog{err: common.ErrNoMatchesFoundError}
	handler := NewSearchHandler(srv, newTestLogger())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/developers/search?query=nothing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "No data found", decodeBody(t, rec)["message"])
}

func TestDetailsHandler(t *testing.T) {
	testCases := []struct {
		name       string
		id         string
		srv        *stubCatalog
		expectCode int
	}{
		{
			name:       "found",
			id:         testID,
			srv:        &stubCatalog{file: &entity.File{FileName: "demo.py"}},
			expectCode: http.StatusOK,
		},
		{
			name:       "malformed id",
			id:         "not-an-object-id",
			srv:        &stubCatalog{},
			expectCode: http.StatusBadRequest,
		},
		{
			name:       "unknown id",
			id:         testID,
			srv:        &stubCatalog{err: common.ErrFileNotFoundError},
			expectCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.Handle("GET /developers/details/{id}", NewDetailsHandler(tc.srv, newTestLogger()))

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/developers/details/"+tc.id, nil))

			require.Equal(t, tc.expectCode, rec.Code)
		})
	}
}

func TestRateHandler(t *testing.T) {
	srv := &stubRating{file: &entity.File{FileName: "demo.py", Rating: 3, RatingsCount: 2}}

	mux := http.NewServeMux()
	mux.Handle("POST /developers/rate/{id}", NewRateHandler(srv, newTestLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/developers/rate/"+testID, strings.NewReader(`{"rating": 4}`))
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, testID, srv.gotID)
	require.Equal(t, 4, srv.gotVal)

	body := decodeBody(t, rec)
	require.Equal(t, "Rating updated", body["message"])
	require.NotNil(t, body["file"])
}

func TestRateHandlerInvalidRating(t *testing.T) {
	srv := &stubRating{err: common.ErrInvalidRatingError}

	mux := http.NewServeMux()
	mux.Handle("POST /developers/rate/{id}", NewRateHandler(srv, newTestLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/developers/rate/"+testID, strings.NewReader(`{"rating": 9}`))
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateHandlerBadBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("POST /developers/rate/{id}", NewRateHandler(&stubRating{}, newTestLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/developers/rate/"+testID, strings.NewReader(`not json`))
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadHandler(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /developers/download/{id}", NewDownloadHandler(&stubDownload{url: "https://dl.example.com/a.zip"}, newTestLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/developers/download/"+testID, nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Download started", body["message"])
	require.Equal(t, "https://dl.example.com/a.zip", body["fileUrl"])
}

func TestDownloadHandlerNoLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /developers/download/{id}", NewDownloadHandler(&stubDownload{err: common.ErrNoDownloadLinkError}, newTestLogger()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/developers/download/"+testID, nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	testCases := []struct {
		name     string
		pingErr  error
		expectDB string
	}{
		{name: "connected", expectDB: "connected"},
		{name: "disconnected", pingErr: common.ErrStoreUnavailableError, expectDB: "disconnected"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHealthHandler(&stubPinger{err: tc.pingErr}, newTestLogger())

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/developers/health", nil))

			require.Equal(t, http.StatusOK, rec.Code)

			body := decodeBody(t, rec)
			require.Equal(t, "running", body["server"])
			require.Equal(t, tc.expectDB, body["db"])
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var gotID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	})

	handler := RequestID(next, newTestLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/developers/files", nil))

	require.NotEmpty(t, gotID)
	require.Equal(t, gotID, rec.Header().Get(HeaderXRequestID))

	// A caller-supplied id is kept.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/developers/files", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	handler.ServeHTTP(rec, req)

	require.Equal(t, "abc-123", gotID)
}
