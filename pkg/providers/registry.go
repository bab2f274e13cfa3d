package providers

import (
	"fmt"
	"sync"
	"time"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

// fetcherRegistry implements Registry.
type fetcherRegistry struct {
	fetchers map[domain.ProviderID]Fetcher
	mu       sync.RWMutex
}

// NewRegistry builds a registry for the provided fetcher implementations,
// keyed by their provider id.
func NewRegistry(fetchers ...Fetcher) Registry {
	reg := &fetcherRegistry{fetchers: make(map[domain.ProviderID]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		reg.register(f)
	}
	return reg
}

func (r *fetcherRegistry) register(f Fetcher) {
	if f == nil || f.ID() == "" {
		return
	}
	r.mu.Lock()
	r.fetchers[f.ID()] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given provider id.
func (r *fetcherRegistry) FetcherFor(id domain.ProviderID) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchers[id]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for provider %q", id)
}

// Credentials carries the per-provider API keys. An empty key disables the
// corresponding provider (it contributes a skipped outcome, never an error).
type Credentials struct {
	NewsAPIKey  string
	GuardianKey string
	NYTKey      string
}

// RetryPolicy configures the rate-limit backoff applied to the archive fetcher.
type RetryPolicy struct {
	Base       time.Duration
	MaxRetries int
}

// DefaultRegistry wires up the three provider fetchers with the archive
// fetcher wrapped in the rate-limit retry policy.
func DefaultRegistry(client HTTPClient, creds Credentials, retry RetryPolicy) Registry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return NewRegistry(
		NewNewsAPIFetcher(client, creds.NewsAPIKey),
		NewGuardianFetcher(client, creds.GuardianKey),
		WithRetry(NewNYTFetcher(client, creds.NYTKey), retry.Base, retry.MaxRetries),
	)
}
