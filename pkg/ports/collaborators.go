package ports

import (
	"context"
)

// Collector aggregates coverage in process and reports it to the store.
type Collector interface {
	ReportCoverage(ctx context.Context) error
}

// GenerateOptions tunes a single report generation.
type GenerateOptions struct {
	// OpenReport asks the generator to hand the rendered report to its opener.
	OpenReport bool
}

// ReportGenerator renders store data into a static HTML report kept in object storage.
type ReportGenerator interface {
	Generate(ctx context.Context, store CoverageStore, opts GenerateOptions) error
}

// ObjectStorage reads and writes report documents.
type ObjectStorage interface {
	// GetObject returns the object body.
	// Returns domain.ErrReportNotFound if the key does not exist.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// PutObject stores body under key.
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

// Reloader re-reads safe-reload files and reconfigures the running process.
// It is an optional capability; the admin surface hides the reload action without it.
type Reloader interface {
	// Reload loads a single safe-reload file.
	Reload(ctx context.Context, path string) error

	// Reconfigure applies everything loaded since the previous call.
	Reconfigure(ctx context.Context) error
}

// BatchReloader is implemented by reloaders that can read a set of files and
// apply them as one step.
type BatchReloader interface {
	ReloadAll(ctx context.Context, paths []string) error
}
