// Package reload re-reads settings fragments named in the safe-reload list and
// applies them to the running report generator.
//
// Each fragment is a YAML document. Fragments are merged in the order they are
// loaded, later keys winning, and decoded into report.Settings.
package reload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/report"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ApplyFunc receives freshly decoded settings.
type ApplyFunc func(report.Settings)

// Loader implements ports.Reloader.
type Loader struct {
	apply  ApplyFunc
	base   report.Settings
	logger *slog.Logger

	mu      sync.Mutex
	staged  []map[string]any
	current report.Settings
}

type Option func(*Loader)

// WithBase sets the settings that fragments are layered on.
func WithBase(s report.Settings) Option {
	return func(l *Loader) {
		l.base = s
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a loader handing decoded settings to apply.
func New(apply ApplyFunc, opts ...Option) *Loader {
	l := &Loader{
		apply: apply,
		base:  report.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l.current = l.base
	return l
}

// Reload parses one fragment and stages it.
// A failure discards everything staged so far so a later Reconfigure never
// applies a partial reload.
func (l *Loader) Reload(ctx context.Context, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fragment, err := readFragment(path)
	if err != nil {
		l.staged = nil
		return &domain.ReloadError{Path: path, Err: err}
	}
	l.staged = append(l.staged, fragment)
	l.logger.Debug("settings fragment staged", "path", path, "keys", len(fragment))
	return nil
}

// Reconfigure decodes the staged fragments over the base settings and applies
// them. The staging area is emptied whatever the outcome. With nothing staged
// the last applied settings are applied again.
func (l *Loader) Reconfigure(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fragments := l.staged
	l.staged = nil
	if len(fragments) == 0 {
		l.publish(l.current)
		return nil
	}
	return l.applyFragments(fragments)
}

// ReloadAll reads every path and applies the result in one step. Nothing is
// staged or applied when any file fails, and concurrent callers never see each
// other's fragments.
func (l *Loader) ReloadAll(ctx context.Context, paths []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fragments := make([]map[string]any, 0, len(paths))
	for _, path := range paths {
		fragment, err := readFragment(path)
		if err != nil {
			return &domain.ReloadError{Path: path, Err: err}
		}
		fragments = append(fragments, fragment)
	}
	return l.applyFragments(fragments)
}

func (l *Loader) applyFragments(fragments []map[string]any) error {
	settings, err := l.decode(fragments)
	if err != nil {
		return err
	}
	l.publish(settings)
	return nil
}

func (l *Loader) publish(settings report.Settings) {
	l.current = settings
	if l.apply != nil {
		l.apply(settings)
	}
	l.logger.Info("reconfigured", "title", settings.Title, "ignore", len(settings.Ignore))
}

// decode layers fragments, in order, over the base settings.
func (l *Loader) decode(fragments []map[string]any) (report.Settings, error) {
	merged := make(map[string]any)
	for _, fragment := range fragments {
		for k, v := range fragment {
			merged[k] = v
		}
	}

	settings := l.base
	// Ignore lists replace rather than append to the base.
	if _, ok := merged["ignore"]; ok {
		settings.Ignore = nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &settings,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return report.Settings{}, fmt.Errorf("failed to build settings decoder: %w", err)
	}
	if err := decoder.Decode(merged); err != nil {
		return report.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func readFragment(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fragment := make(map[string]any)
	if err := yaml.Unmarshal(data, &fragment); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return fragment, nil
}
