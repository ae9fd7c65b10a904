package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

type filterMiddleware struct {
	next     ports.CoverageStore
	patterns []*regexp.Regexp
}

// NewFilterMiddleware drops hits for files matching any of the patterns before
// they reach the store. Data already stored is left untouched.
func NewFilterMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, 0, len(patternStrings))
	for _, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return func(next ports.CoverageStore) ports.CoverageStore {
		if len(patterns) == 0 {
			return next
		}
		return &filterMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *filterMiddleware) Merge(ctx context.Context, report domain.Report) error {
	kept := make(domain.Report, len(report))
	for file, hits := range report {
		if m.excluded(file) {
			continue
		}
		kept[file] = hits
	}
	if len(kept) == 0 {
		return nil
	}
	return m.next.Merge(ctx, kept)
}

func (m *filterMiddleware) Load(ctx context.Context) (domain.Report, error) {
	return m.next.Load(ctx)
}

func (m *filterMiddleware) Clear(ctx context.Context) error {
	return m.next.Clear(ctx)
}

func (m *filterMiddleware) excluded(file string) bool {
	for _, p := range m.patterns {
		if p.MatchString(file) {
			return true
		}
	}
	return false
}
