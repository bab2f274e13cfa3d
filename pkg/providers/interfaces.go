package providers

import (
	"context"
	"time"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/httpclient"
)

// Fetcher translates a canonical query into one provider-specific request and
// maps the response into canonical articles. Concrete implementations live in
// provider-specific files (newsapi.go, guardian.go, nytimes.go).
type Fetcher interface {
	ID() domain.ProviderID
	Fetch(ctx context.Context, q domain.Query) ([]domain.Article, error)
}

// Registry resolves the fetcher implementation for a given provider id.
type Registry interface {
	FetcherFor(id domain.ProviderID) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within providers.
type HTTPClient = httpclient.Client

// DefaultHTTPClient returns a tuned HTTP client for provider fetchers.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// pageSize bounds every provider request; providers own relevance ranking
// within the page.
const pageSize = "20"

// defaultSearchTerm avoids issuing an invalid empty-query request when both
// free text and category are empty.
const defaultSearchTerm = "general"
