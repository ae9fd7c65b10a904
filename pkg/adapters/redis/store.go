package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/tally/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.CoverageStore using Redis.
// Each file is a hash of line -> hits; a set indexes the tracked files.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix for coverage keys.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "tally:coverage:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(file string) string {
	return s.prefix + "file:" + file
}

func (s *Store) indexKey() string {
	return s.prefix + "files"
}

// Merge increments the stored hit counters in a single pipeline.
func (s *Store) Merge(ctx context.Context, report domain.Report) error {
	if len(report) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for file, hits := range report {
		pipe.SAdd(ctx, s.indexKey(), file)
		for line, n := range hits {
			// HINCRBY with 0 still creates the field, keeping the line relevant.
			pipe.HIncrBy(ctx, s.key(file), strconv.Itoa(line), n)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to merge coverage into redis: %w", err)
	}
	return nil
}

// Load reads every indexed file.
func (s *Store) Load(ctx context.Context) (domain.Report, error) {
	files, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list coverage files: %w", err)
	}

	report := make(domain.Report, len(files))
	if len(files) == 0 {
		return report, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*backend.MapStringStringCmd, len(files))
	for i, file := range files {
		cmds[i] = pipe.HGetAll(ctx, s.key(file))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to load coverage from redis: %w", err)
	}

	for i, file := range files {
		fields := cmds[i].Val()
		hits := make(domain.LineHits, len(fields))
		for field, value := range fields {
			line, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("corrupt line %q for %s: %w", field, file, err)
			}
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("corrupt hits %q for %s:%d: %w", value, file, line, err)
			}
			hits[line] = n
		}
		report[file] = hits
	}

	return report, nil
}

// Clear deletes every indexed file and the index itself.
func (s *Store) Clear(ctx context.Context) error {
	files, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to list coverage files: %w", err)
	}

	keys := make([]string, 0, len(files)+1)
	for _, file := range files {
		keys = append(keys, s.key(file))
	}
	keys = append(keys, s.indexKey())

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear coverage: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
