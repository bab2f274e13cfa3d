package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

// Package storage tracks which articles the daemon has already delivered, so
// a standing query only publishes an article once per retention window.

// Store tracks delivered article identities per provider.
type Store interface {
	Close() error
	Seen(provider domain.ProviderID, articleID string) (bool, error)
	Mark(provider domain.ProviderID, articleID string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ArticleTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultArticleTTL      = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ArticleTTL <= 0 {
		opts.ArticleTTL = defaultArticleTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore treats every article as fresh.
type noopStore struct{}

func (noopStore) Close() error                               { return nil }
func (noopStore) Seen(domain.ProviderID, string) (bool, error) { return false, nil }
func (noopStore) Mark(domain.ProviderID, string) error       { return nil }
