package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/httpclient"
)

// StatusError reports a non-2xx provider response. The orchestrator and the
// retry wrapper inspect it to decide whether a failure is retryable.
type StatusError struct {
	Provider   domain.ProviderID
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d body: %s", e.Provider, e.StatusCode, e.Snippet)
}

// IsRateLimited reports whether err is a 429 response from a provider.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// getJSON performs the provider GET and decodes a 200 response into out.
func getJSON(ctx context.Context, client httpclient.Client, provider domain.ProviderID, url string, query map[string]string, out any) error {
	resp, err := client.Get(ctx, url, httpclient.Request{Query: query})
	if err != nil {
		return fmt.Errorf("fetch %s: %w", provider, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return &StatusError{Provider: provider, StatusCode: resp.StatusCode(), Snippet: responseSnippet(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}

// isoDateOnly strips the time component from an ISO-8601 timestamp, leaving
// the YYYY-MM-DD date part.
func isoDateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// compactDate converts an ISO date to the YYYYMMDD form the archive API expects.
func compactDate(s string) string {
	return strings.ReplaceAll(isoDateOnly(s), "-", "")
}

// keepValid drops articles violating the id/title/url identity invariants.
func keepValid(articles []domain.Article) []domain.Article {
	out := articles[:0]
	for _, a := range articles {
		if a.Valid() {
			out = append(out, a)
		}
	}
	return out
}
