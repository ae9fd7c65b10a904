// Package collector aggregates coverage in process and flushes it to a store.
//
// Hits arrive either from instrumentation calling Track/Add or from Go cover
// profiles (go test -coverprofile) named at construction time.
package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"golang.org/x/tools/cover"
)

// Collector implements ports.Collector.
// Safe for concurrent use.
type Collector struct {
	store    ports.CoverageStore
	profiles []string
	logger   *slog.Logger

	// mu guards pending only, so Track and Add never wait on the store.
	mu      sync.Mutex
	pending domain.Report

	// reportMu serializes ReportCoverage and guards seen.
	reportMu sync.Mutex
	seen     map[string]time.Time
}

type Option func(*Collector)

// WithProfiles registers Go cover profiles to ingest on every report.
func WithProfiles(paths ...string) Option {
	return func(c *Collector) {
		c.profiles = append(c.profiles, paths...)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// New creates a collector reporting into store.
func New(store ports.CoverageStore, opts ...Option) *Collector {
	c := &Collector{
		store:   store,
		pending: make(domain.Report),
		seen:    make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Track records one execution of file:line.
func (c *Collector) Track(file string, line int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending.Merge(domain.Report{file: {line: 1}})
}

// Add buffers a batch of hits.
func (c *Collector) Add(report domain.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending.Merge(report)
}

// ReportCoverage merges buffered hits and changed profiles into the store.
// Buffered hits are kept for the next attempt when the store rejects them.
func (c *Collector) ReportCoverage(ctx context.Context) error {
	c.reportMu.Lock()
	defer c.reportMu.Unlock()

	profiled := make(domain.Report)
	ingested := make(map[string]time.Time)
	for _, path := range c.profiles {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				c.logger.Debug("coverage profile not present yet", "path", path)
				continue
			}
			return fmt.Errorf("stat profile %s: %w", path, err)
		}
		if last, ok := c.seen[path]; ok && !info.ModTime().After(last) {
			continue
		}

		report, err := ParseProfile(path)
		if err != nil {
			return err
		}
		profiled.Merge(report)
		ingested[path] = info.ModTime()
	}

	c.mu.Lock()
	buffered := c.pending
	c.pending = make(domain.Report)
	c.mu.Unlock()

	batch := buffered.Clone()
	batch.Merge(profiled)
	if len(batch) == 0 {
		return nil
	}
	if err := c.store.Merge(ctx, batch); err != nil {
		c.mu.Lock()
		c.pending.Merge(buffered)
		c.mu.Unlock()
		return fmt.Errorf("report coverage: %w", err)
	}

	for path, mod := range ingested {
		c.seen[path] = mod
	}
	c.logger.Info("coverage reported", "files", len(batch), "profiles", len(ingested))
	return nil
}

// ParseProfile converts a Go cover profile into line hits.
// Every line spanned by a block receives the block count; when blocks overlap
// on a line the highest count wins.
func ParseProfile(path string) (domain.Report, error) {
	profiles, err := cover.ParseProfiles(path)
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	report := make(domain.Report, len(profiles))
	for _, p := range profiles {
		hits, ok := report[p.FileName]
		if !ok {
			hits = make(domain.LineHits)
			report[p.FileName] = hits
		}
		for _, b := range p.Blocks {
			for line := b.StartLine; line <= b.EndLine; line++ {
				n := int64(b.Count)
				if cur, ok := hits[line]; !ok || n > cur {
					hits[line] = n
				}
			}
		}
	}
	return report, nil
}
