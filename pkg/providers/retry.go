package providers

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

const (
	// DefaultRetryBase is the wait before the first retry; it doubles on each
	// subsequent attempt.
	DefaultRetryBase = time.Second
	// DefaultMaxRetries bounds the retries after the first failed attempt.
	DefaultMaxRetries = 3
)

// retryFetcher retries rate-limited calls of the wrapped fetcher with
// exponential backoff. Any non-429 failure propagates immediately.
type retryFetcher struct {
	next       Fetcher
	base       time.Duration
	maxRetries uint64
}

// WithRetry wraps a fetcher with bounded exponential-backoff retry on
// rate-limit responses. base <= 0 and maxRetries < 0 select the defaults.
func WithRetry(next Fetcher, base time.Duration, maxRetries int) Fetcher {
	if base <= 0 {
		base = DefaultRetryBase
	}
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &retryFetcher{
		next:       next,
		base:       base,
		maxRetries: uint64(maxRetries),
	}
}

func (f *retryFetcher) ID() domain.ProviderID { return f.next.ID() }

func (f *retryFetcher) Fetch(ctx context.Context, q domain.Query) ([]domain.Article, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.base
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = f.base << f.maxRetries
	policy.MaxElapsedTime = 0

	var articles []domain.Article
	op := func() error {
		var err error
		articles, err = f.next.Fetch(ctx, q)
		if err != nil && !IsRateLimited(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, f.maxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return articles, nil
}
