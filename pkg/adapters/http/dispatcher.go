// Package http exposes the coverage admin surface: a handler mountable at any
// path prefix that serves the index page, the stored report, report assets and
// the mutating actions (clear, update_report, collect_coverage, reload_files).
//
// Routing is by substring: a POST whose path contains "/clear" anywhere clears
// the store, whether it is /coverage/clear or /admin/clearish. Links and
// redirects are built from the base path derived from each request, so the
// handler needs no knowledge of where it is mounted.
//
// The surface has no authentication and no CSRF protection; mount it behind an
// operator-trusted boundary.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

const defaultHomepage = "https://github.com/aretw0/tally"

var errNotConfigured = errors.New("collaborator not configured")

// Config carries the collaborators of the dispatcher.
type Config struct {
	Store     ports.CoverageStore
	Collector ports.Collector
	Generator ports.ReportGenerator

	// Objects is optional; without it the report view answers 503.
	Objects ports.ObjectStorage
	Bucket  string

	// Reloader is optional; without it the reload action is hidden and answers 501.
	Reloader        ports.Reloader
	SafeReloadFiles []string

	// Assets defaults to DefaultAssets().
	Assets fs.FS

	Logger   *slog.Logger
	Metrics  *Metrics
	Version  string
	Homepage string
}

// Dispatcher implements http.Handler. It keeps no per-request state and is
// safe for concurrent use.
type Dispatcher struct {
	cfg    Config
	static http.Handler
	posts  []postRoute

	// reloadMu keeps one request's Reload...Reconfigure sequence whole.
	reloadMu sync.Mutex
}

type postRoute struct {
	action domain.Action
	run    func(ctx context.Context) error
}

// New creates a Dispatcher.
func New(cfg Config) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Assets == nil {
		cfg.Assets = DefaultAssets()
	}
	if cfg.Homepage == "" {
		cfg.Homepage = defaultHomepage
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	d := &Dispatcher{
		cfg:    cfg,
		static: staticHandler{fsys: cfg.Assets},
	}
	// Evaluated in order; the first action whose name appears in the path wins.
	d.posts = []postRoute{
		{domain.ActionClear, d.clear},
		{domain.ActionUpdateReport, d.updateReport},
		{domain.ActionCollectCoverage, d.collectCoverage},
		{domain.ActionReloadFiles, d.reloadFiles},
	}
	return d
}

// ServeHTTP dispatches on method, then on path.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		d.servePost(w, r)
	case http.MethodGet, http.MethodHead:
		d.serveGet(w, r)
	default:
		notFound(w)
	}
}

func (d *Dispatcher) servePost(w http.ResponseWriter, r *http.Request) {
	for _, route := range d.posts {
		if strings.Contains(r.URL.Path, "/"+string(route.action)) {
			d.runAction(w, r, route)
			return
		}
	}
	notFound(w)
}

func (d *Dispatcher) serveGet(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	switch {
	case IsAsset(p):
		d.static.ServeHTTP(w, r)
	case strings.Contains(p, "/show"):
		d.show(w, r)
	case strings.HasSuffix(p, "/"):
		d.index(w, r)
	default:
		notFound(w)
	}
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, "404 error!")
}

// noticeLocation builds the redirect target carrying the notice.
func noticeLocation(base string, notice domain.Notice) string {
	return base + "?" + url.Values{"notice": {string(notice)}}.Encode()
}

func (d *Dispatcher) runAction(w http.ResponseWriter, r *http.Request, route postRoute) {
	name := string(route.action)
	if err := route.run(r.Context()); err != nil {
		status, msg := actionFailure(route.action, err)
		d.cfg.Logger.Error("admin action failed", "action", name, "path", r.URL.Path, "status", status, "error", err)
		d.cfg.Metrics.action(name, "error")
		http.Error(w, msg, status)
		return
	}

	d.cfg.Logger.Info("admin action", "action", name, "path", r.URL.Path)
	d.cfg.Metrics.action(name, "ok")
	w.Header().Set("Location", noticeLocation(BasePath(r.URL.EscapedPath()), route.action.Notice()))
	w.WriteHeader(http.StatusMovedPermanently)
}

func actionFailure(action domain.Action, err error) (int, string) {
	var reloadErr *domain.ReloadError
	switch {
	case errors.Is(err, domain.ErrReloadUnsupported):
		return http.StatusNotImplemented, "reload is not supported by this deployment"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "report storage unavailable"
	case errors.Is(err, errNotConfigured):
		return http.StatusServiceUnavailable, fmt.Sprintf("%s is not configured", action)
	case errors.As(err, &reloadErr):
		return http.StatusInternalServerError, fmt.Sprintf("reload failed: %s", reloadErr.Path)
	}
	return http.StatusInternalServerError, fmt.Sprintf("%s failed", action)
}

func (d *Dispatcher) clear(ctx context.Context) error {
	if d.cfg.Store == nil {
		return errNotConfigured
	}
	return d.cfg.Store.Clear(ctx)
}

func (d *Dispatcher) updateReport(ctx context.Context) error {
	if d.cfg.Generator == nil || d.cfg.Store == nil {
		return errNotConfigured
	}
	return d.cfg.Generator.Generate(ctx, d.cfg.Store, ports.GenerateOptions{OpenReport: false})
}

func (d *Dispatcher) collectCoverage(ctx context.Context) error {
	if d.cfg.Collector == nil {
		return errNotConfigured
	}
	return d.cfg.Collector.ReportCoverage(ctx)
}

// reloadFiles loads every safe-reload file, stopping at the first failure, then reconfigures.
func (d *Dispatcher) reloadFiles(ctx context.Context) error {
	if d.cfg.Reloader == nil {
		return domain.ErrReloadUnsupported
	}
	if batch, ok := d.cfg.Reloader.(ports.BatchReloader); ok {
		return batch.ReloadAll(ctx, d.cfg.SafeReloadFiles)
	}

	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()
	for _, path := range d.cfg.SafeReloadFiles {
		if err := d.cfg.Reloader.Reload(ctx, path); err != nil {
			var reloadErr *domain.ReloadError
			if errors.As(err, &reloadErr) {
				return err
			}
			return &domain.ReloadError{Path: path, Err: err}
		}
	}
	return d.cfg.Reloader.Reconfigure(ctx)
}

func (d *Dispatcher) show(w http.ResponseWriter, r *http.Request) {
	if d.cfg.Objects == nil {
		d.cfg.Logger.Error("report view requested without object storage", "path", r.URL.Path)
		d.cfg.Metrics.action("show", "error")
		http.Error(w, "report storage unavailable", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	body, err := d.cfg.Objects.GetObject(r.Context(), d.cfg.Bucket, domain.ReportKey)
	d.cfg.Metrics.fetchDone(start)
	if err != nil {
		d.cfg.Logger.Error("report fetch failed", "bucket", d.cfg.Bucket, "key", domain.ReportKey, "error", err)
		d.cfg.Metrics.action("show", "error")
		msg := "report unavailable"
		if errors.Is(err, domain.ErrReportNotFound) {
			msg = "report not generated yet"
		}
		http.Error(w, msg, http.StatusBadGateway)
		return
	}

	d.cfg.Metrics.action("show", "ok")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, RewriteReport(string(body), BasePath(r.URL.EscapedPath())))
}

func (d *Dispatcher) index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	view := indexView{
		Base:      BasePath(r.URL.EscapedPath()),
		Notice:    query.Get("notice"),
		HasNotice: query.Has("notice"),
		CanReload: d.cfg.Reloader != nil,
		Version:   d.cfg.Version,
		Homepage:  d.cfg.Homepage,
	}

	var buf bytes.Buffer
	if err := indexPage(view).Render(r.Context(), &buf); err != nil {
		d.cfg.Logger.Error("index render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	d.cfg.Metrics.action("index", "ok")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
