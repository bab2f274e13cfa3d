// Package prefs resolves the effective query for one aggregation call from
// the current filter state plus the user's stored defaults.
package prefs

import (
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
)

// Preferences are the user defaults applied when a filter dimension is unset.
type Preferences struct {
	Providers  []domain.ProviderID
	Categories []string
}

// Filters is the raw filter state as the display layer holds it. Provider
// labels arrive as free strings and are validated during resolution.
type Filters struct {
	Text      string
	Category  string
	DateFrom  string
	DateTo    string
	Providers []string
	Sources   []string
}

// Builder turns filter state into queries the orchestrator accepts.
type Builder struct {
	defaults Preferences
	log      logger.Logger
}

// NewBuilder creates a query builder with the given user defaults.
func NewBuilder(defaults Preferences, log logger.Logger) *Builder {
	return &Builder{defaults: defaults, log: logger.Ensure(log)}
}

// Build resolves the effective query: selected providers when any are valid,
// else the preferred provider set, else all known providers. Unknown provider
// labels are dropped with a warning rather than failing the query; a bad
// entry must not take down the rest of the selection.
func (b *Builder) Build(f Filters) domain.Query {
	q := domain.Query{
		Text:     f.Text,
		Category: f.Category,
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
		Sources:  f.Sources,
	}

	selected := make([]domain.ProviderID, 0, len(f.Providers))
	for _, label := range f.Providers {
		id, ok := domain.ParseProviderID(label)
		if !ok {
			b.log.WarnObj("dropping unknown provider", "provider_label", label)
			continue
		}
		selected = append(selected, id)
	}

	q.Providers = b.resolveProviders(selected)
	return q
}

func (b *Builder) resolveProviders(selected []domain.ProviderID) []domain.ProviderID {
	if len(selected) > 0 {
		return selected
	}
	if len(b.defaults.Providers) > 0 {
		out := make([]domain.ProviderID, len(b.defaults.Providers))
		copy(out, b.defaults.Providers)
		return out
	}
	return domain.AllProviders()
}
