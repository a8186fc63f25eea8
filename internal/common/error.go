package common

import "fmt"

var (
	ErrFileNotFoundError            = fmt.Errorf("file not found")
	ErrNoMatchesFoundError          = fmt.Errorf("no matches found")
	ErrInvalidRatingError           = fmt.Errorf("invalid rating")
	ErrNoDownloadLinkError          = fmt.Errorf("no download link")
	ErrStoreUnavailableError        = fmt.Errorf("store unavailable")
	ErrIngestHasAlreadyStartedError = fmt.Errorf("ingest process has already started")
	ErrCountersUnavailableError     = fmt.Errorf("download counters unavailable")
)
