package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/pkg/adapters/file"
	httpAdapter "github.com/aretw0/tally/pkg/adapters/http"
	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/adapters/redis"
	"github.com/aretw0/tally/pkg/adapters/s3"
	"github.com/aretw0/tally/pkg/adapters/sqlite"
	"github.com/aretw0/tally/pkg/collector"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/persistence/middleware"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/reload"
	"github.com/aretw0/tally/pkg/report"
)

// App holds the collaborators built from a Config.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Store     ports.CoverageStore
	Objects   ports.ObjectStorage
	Bucket    string
	Collector *collector.Collector
	Generator *report.Generator
	Reloader  *reload.Loader

	metrics *httpAdapter.Metrics

	// backend is the unwrapped store behind Store.
	backend ports.CoverageStore

	// Out receives the location of reports generated with OpenReport.
	Out io.Writer

	closers []func() error
}

// Build wires the application. Callers must Close the returned App.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger, Out: os.Stdout}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = httpAdapter.NewMetrics(app.Registry)

	filter, err := middleware.NewFilterMiddleware(cfg.Store.Exclude)
	if err != nil {
		return nil, err
	}

	backend, err := app.createStore()
	if err != nil {
		return nil, err
	}
	app.backend = backend
	store := middleware.Chain(backend, middleware.NewInstrumentMiddleware(app.Registry), filter)
	app.Store = store

	objects, bucket, err := createObjects(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Objects = objects
	app.Bucket = bucket

	app.Collector = collector.New(store,
		collector.WithProfiles(cfg.ProfilePaths...),
		collector.WithLogger(logger.With("component", "collector")),
	)
	app.Generator = report.New(objects, bucket,
		report.WithVersion(cfg.Version),
		report.WithLogger(logger.With("component", "report")),
		report.WithOpener(app.openReport),
	)
	app.Reloader = reload.New(app.Generator.Apply,
		reload.WithBase(app.Generator.Settings()),
		reload.WithLogger(logger.With("component", "reload")),
	)

	if err := app.ReloadSettings(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// ReloadSettings loads every safe reload file, then applies the result.
func (a *App) ReloadSettings(ctx context.Context) error {
	if len(a.Config.SafeReloadFiles) == 0 {
		return nil
	}
	return a.Reloader.ReloadAll(ctx, a.Config.SafeReloadFiles)
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) createStore() (ports.CoverageStore, error) {
	sc := a.Config.Store
	switch strings.ToLower(sc.Backend) {
	case "", "memory":
		return memory.NewStore(), nil
	case "redis":
		store := redis.New(sc.RedisAddr, sc.RedisPassword, sc.RedisDB, redis.WithPrefix(sc.RedisPrefix))
		a.closers = append(a.closers, store.Close)
		a.Logger.Debug("coverage store ready", "backend", "redis", "addr", sc.RedisAddr)
		return store, nil
	case "sqlite":
		store, err := sqlite.Open(sc.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		a.Logger.Debug("coverage store ready", "backend", "sqlite", "path", sc.SQLitePath)
		return store, nil
	default:
		return nil, fmt.Errorf("%w: store %q", domain.ErrUnknownBackend, sc.Backend)
	}
}

func createObjects(ctx context.Context, cfg config.Config) (ports.ObjectStorage, string, error) {
	switch strings.ToLower(cfg.ReportBackend) {
	case "", "file":
		return file.New(cfg.ReportDir), cfg.S3.Bucket, nil
	case "memory":
		return memory.NewObjects(), cfg.S3.Bucket, nil
	case "s3":
		storage, err := s3.New(ctx, s3.Options{
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, "", err
		}
		return storage, cfg.S3.Bucket, nil
	default:
		return nil, "", fmt.Errorf("%w: report backend %q", domain.ErrUnknownBackend, cfg.ReportBackend)
	}
}

// openReport prints where the freshly generated report can be found.
func (a *App) openReport(ctx context.Context, bucket, key string) error {
	var location string
	switch storage := a.Objects.(type) {
	case *file.Storage:
		abs, err := filepath.Abs(filepath.Join(storage.BasePath, bucket, filepath.FromSlash(key)))
		if err != nil {
			return err
		}
		location = "file://" + filepath.ToSlash(abs)
	case *s3.Storage:
		location = "s3://" + bucket + "/" + key
	default:
		location = bucket + "/" + key
	}
	_, err := fmt.Fprintf(a.Out, "report written to %s\n", location)
	return err
}
