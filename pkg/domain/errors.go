package domain

import (
	"errors"
	"fmt"
)

// ErrReportNotFound is returned when the rendered report is absent from object storage.
var ErrReportNotFound = errors.New("report not found")

// ErrStorageUnavailable is returned when no object storage client is configured.
var ErrStorageUnavailable = errors.New("object storage unavailable")

// ErrReloadUnsupported is returned when the reload capability is not configured.
var ErrReloadUnsupported = errors.New("reload not supported")

// ErrUnknownBackend is returned when configuration names a backend that does not exist.
var ErrUnknownBackend = errors.New("unknown backend")

// ReloadError reports which safe-reload file failed to load.
type ReloadError struct {
	Path string
	Err  error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("reload %s: %v", e.Path, e.Err)
}

func (e *ReloadError) Unwrap() error {
	return e.Err
}
