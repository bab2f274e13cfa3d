package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
)

func TestBuildCopiesFilterFields(t *testing.T) {
	b := NewBuilder(Preferences{}, logger.NopLogger{})

	q := b.Build(Filters{
		Text:     "renewables",
		Category: "science",
		DateFrom: "2025-03-01",
		DateTo:   "2025-03-07",
		Sources:  []string{"bbc-news"},
	})

	assert.Equal(t, "renewables", q.Text)
	assert.Equal(t, "science", q.Category)
	assert.Equal(t, "2025-03-01", q.DateFrom)
	assert.Equal(t, "2025-03-07", q.DateTo)
	assert.Equal(t, []string{"bbc-news"}, q.Sources)
}

func TestBuildSelectedProvidersWin(t *testing.T) {
	b := NewBuilder(Preferences{
		Providers: []domain.ProviderID{domain.ProviderNYT},
	}, logger.NopLogger{})

	q := b.Build(Filters{Providers: []string{"guardian", "newsapi"}})
	assert.Equal(t, []domain.ProviderID{domain.ProviderGuardian, domain.ProviderNewsAPI}, q.Providers)
}

func TestBuildFallsBackToPreferredProviders(t *testing.T) {
	b := NewBuilder(Preferences{
		Providers: []domain.ProviderID{domain.ProviderGuardian},
	}, logger.NopLogger{})

	q := b.Build(Filters{})
	assert.Equal(t, []domain.ProviderID{domain.ProviderGuardian}, q.Providers)
}

func TestBuildFallsBackToAllProviders(t *testing.T) {
	b := NewBuilder(Preferences{}, logger.NopLogger{})

	q := b.Build(Filters{})
	assert.Equal(t, domain.AllProviders(), q.Providers)
}

func TestBuildDropsUnknownProviderLabels(t *testing.T) {
	b := NewBuilder(Preferences{}, logger.NopLogger{})

	q := b.Build(Filters{Providers: []string{"telegraph", "nyt"}})
	assert.Equal(t, []domain.ProviderID{domain.ProviderNYT}, q.Providers)
}

func TestBuildAllUnknownLabelsFallThrough(t *testing.T) {
	b := NewBuilder(Preferences{
		Providers: []domain.ProviderID{domain.ProviderNewsAPI},
	}, logger.NopLogger{})

	q := b.Build(Filters{Providers: []string{"telegraph"}})
	assert.Equal(t, []domain.ProviderID{domain.ProviderNewsAPI}, q.Providers,
		"a selection of only invalid labels behaves like no selection")
}

func TestBuildDoesNotAliasDefaults(t *testing.T) {
	defaults := Preferences{Providers: []domain.ProviderID{domain.ProviderGuardian, domain.ProviderNYT}}
	b := NewBuilder(defaults, logger.NopLogger{})

	q := b.Build(Filters{})
	q.Providers[0] = domain.ProviderNewsAPI
	assert.Equal(t, domain.ProviderGuardian, defaults.Providers[0])
}
