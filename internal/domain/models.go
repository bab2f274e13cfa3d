package domain

import (
	"errors"
	"strings"
)

// Domain contains the canonical models shared by adapters, the orchestrator,
// and downstream consumers.

// ProviderID selects one of the supported news providers.
type ProviderID string

const (
	// ProviderNewsAPI is the general news index (newsapi.org).
	ProviderNewsAPI ProviderID = "newsapi"
	// ProviderGuardian is the editorial outlet content API.
	ProviderGuardian ProviderID = "guardian"
	// ProviderNYT is the search-indexed newspaper archive API.
	ProviderNYT ProviderID = "nyt"
)

// AllProviders returns the full provider set in its canonical call order.
func AllProviders() []ProviderID {
	return []ProviderID{ProviderNewsAPI, ProviderGuardian, ProviderNYT}
}

// ParseProviderID resolves a provider label to a known ProviderID.
func ParseProviderID(s string) (ProviderID, bool) {
	switch ProviderID(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderNewsAPI:
		return ProviderNewsAPI, true
	case ProviderGuardian:
		return ProviderGuardian, true
	case ProviderNYT:
		return ProviderNYT, true
	}
	return "", false
}

// ErrNoCredential marks a provider that was skipped because its API key is
// not configured. Distinct from transient and hard failures.
var ErrNoCredential = errors.New("provider credential not configured")

// Source identifies the publication an article came from.
type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Article is the provider-agnostic article shape. ID is stable within its
// source provider only; uniqueness across providers is not guaranteed.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PublishedAt string `json:"publishedAt"`
	Source      Source `json:"source"`
	Author      string `json:"author,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Valid reports whether the article satisfies the identity invariants every
// adapter must uphold.
func (a Article) Valid() bool {
	return a.ID != "" && a.Title != "" && a.URL != ""
}

// Query carries the search/filter parameters for one aggregation call.
// An empty Providers set means "use the caller's default provider set".
// Sources restricts the newsapi provider to specific outlet identifiers and
// is ignored by the other providers.
type Query struct {
	Text      string       `json:"text,omitempty" yaml:"text"`
	Category  string       `json:"category,omitempty" yaml:"category"`
	DateFrom  string       `json:"dateFrom,omitempty" yaml:"date_from"`
	DateTo    string       `json:"dateTo,omitempty" yaml:"date_to"`
	Providers []ProviderID `json:"providers,omitempty" yaml:"providers"`
	Sources   []string     `json:"sources,omitempty" yaml:"sources"`
}

// ProviderStatus tags the outcome of one provider call within an aggregation.
type ProviderStatus string

const (
	StatusOK      ProviderStatus = "ok"
	StatusSkipped ProviderStatus = "skipped"
	StatusFailed  ProviderStatus = "failed"
)

// ProviderOutcome records what one provider contributed to an aggregation.
type ProviderOutcome struct {
	Provider ProviderID     `json:"provider"`
	Status   ProviderStatus `json:"status"`
	Articles int            `json:"articles"`
	Err      string         `json:"error,omitempty"`
}

// AggregationResult is the merged article list from one orchestrator run,
// in provider-call order, plus the per-provider outcome records.
type AggregationResult struct {
	Articles []Article         `json:"articles"`
	Outcomes []ProviderOutcome `json:"outcomes"`
}
