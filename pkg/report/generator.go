// Package report renders stored coverage into a static HTML document kept in object storage.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

// Opener receives the object key of a freshly generated report when the
// caller asked for it to be opened.
type Opener func(ctx context.Context, bucket, key string) error

// Generator implements ports.ReportGenerator.
type Generator struct {
	objects ports.ObjectStorage
	bucket  string
	version string
	opener  Opener
	logger  *slog.Logger

	settings atomic.Pointer[Settings]
}

type Option func(*Generator)

// WithSettings sets the initial settings.
func WithSettings(s Settings) Option {
	return func(g *Generator) {
		g.settings.Store(&s)
	}
}

// WithOpener sets the hook invoked for GenerateOptions.OpenReport.
func WithOpener(o Opener) Option {
	return func(g *Generator) {
		g.opener = o
	}
}

// WithVersion sets the version printed in the report footer.
func WithVersion(v string) Option {
	return func(g *Generator) {
		g.version = v
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a generator writing into bucket. objects may be nil, in which
// case Generate fails with domain.ErrStorageUnavailable.
func New(objects ports.ObjectStorage, bucket string, opts ...Option) *Generator {
	g := &Generator{
		objects: objects,
		bucket:  bucket,
		version: "dev",
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.settings.Load() == nil {
		s := DefaultSettings()
		g.settings.Store(&s)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g
}

// Settings returns the active settings.
func (g *Generator) Settings() Settings {
	return *g.settings.Load()
}

// Apply swaps the active settings. Generations already running keep the old ones.
func (g *Generator) Apply(s Settings) {
	if s.Title == "" {
		s.Title = DefaultSettings().Title
	}
	g.settings.Store(&s)
	g.logger.Info("report settings applied", "title", s.Title, "ignore", len(s.Ignore))
}

// Render writes the report document for report into w.
func (g *Generator) Render(ctx context.Context, w io.Writer, report domain.Report) error {
	settings := g.Settings()

	view := pageView{
		Title:       settings.Title,
		Version:     g.version,
		GeneratedAt: time.Now(),
	}
	for _, file := range report.Files() {
		if settings.Ignored(file) {
			continue
		}
		hits := report[file]
		fv := fileView{
			Name:    settings.DisplayName(file),
			Anchor:  anchor(len(view.Files)),
			Hits:    hits,
			Summary: hits.Summary(),
		}
		view.Total = view.Total.Add(fv.Summary)
		view.Files = append(view.Files, fv)
	}

	return reportPage(view).Render(ctx, w)
}

// Generate loads the store, renders the report and uploads it under domain.ReportKey.
func (g *Generator) Generate(ctx context.Context, store ports.CoverageStore, opts ports.GenerateOptions) error {
	if g.objects == nil {
		return domain.ErrStorageUnavailable
	}

	report, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load coverage: %w", err)
	}

	var buf bytes.Buffer
	if err := g.Render(ctx, &buf, report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if err := g.objects.PutObject(ctx, g.bucket, domain.ReportKey, buf.Bytes(), "text/html"); err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	g.logger.Info("report generated", "bucket", g.bucket, "key", domain.ReportKey, "files", len(report), "bytes", buf.Len())

	if opts.OpenReport && g.opener != nil {
		if err := g.opener(ctx, g.bucket, domain.ReportKey); err != nil {
			return fmt.Errorf("open report: %w", err)
		}
	}
	return nil
}
