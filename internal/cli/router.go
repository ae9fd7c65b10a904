package cli

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/aretw0/tally/pkg/adapters/http"
)

// NewRouter mounts the admin dispatcher under the configured mount point and
// exposes the application registry at /metrics.
func (a *App) NewRouter() http.Handler {
	dispatcher := httpAdapter.New(httpAdapter.Config{
		Store:           a.Store,
		Collector:       a.Collector,
		Generator:       a.Generator,
		Objects:         a.Objects,
		Bucket:          a.Bucket,
		Reloader:        a.Reloader,
		SafeReloadFiles: a.Config.SafeReloadFiles,
		Logger:          a.Logger.With("component", "dispatcher"),
		Metrics:         a.metrics,
		Version:         a.Config.Version,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	mount := normalizeMount(a.Config.Mount)
	if mount == "/" {
		r.Handle("/*", dispatcher)
		return r
	}
	r.Handle(mount, http.RedirectHandler(mount+"/", http.StatusMovedPermanently))
	r.Handle(mount+"/*", dispatcher)
	return r
}

// normalizeMount returns a clean absolute path without a trailing slash,
// or "/" for the root.
func normalizeMount(mount string) string {
	if mount == "" {
		return "/"
	}
	if !strings.HasPrefix(mount, "/") {
		mount = "/" + mount
	}
	return path.Clean(mount)
}
