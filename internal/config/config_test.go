package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "newsfuse-aggregator", cfg.AppName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Second, cfg.ProviderDelay)
	assert.Equal(t, 2*time.Second, cfg.ArchiveDelay)
	assert.Equal(t, time.Second, cfg.RetryBase)
	assert.Equal(t, int64(3), cfg.RetryMaxRetries)
	assert.Equal(t, 900*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "bbolt", cfg.StorageType)
	assert.Equal(t, domain.AllProviders(), cfg.DefaultProviderSet)
	assert.False(t, cfg.EnrichMetadata)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEWSAPI_KEY", "k1")
	t.Setenv("PROVIDER_DELAY_MS", "250")
	t.Setenv("DEFAULT_PROVIDERS", "guardian, nyt")
	t.Setenv("ENRICH_METADATA", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "k1", cfg.NewsAPIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.ProviderDelay)
	assert.Equal(t, []domain.ProviderID{domain.ProviderGuardian, domain.ProviderNYT}, cfg.DefaultProviderSet)
	assert.True(t, cfg.EnrichMetadata)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero http timeout", key: "HTTP_TIMEOUT_SECONDS", value: "0"},
		{name: "negative provider delay", key: "PROVIDER_DELAY_MS", value: "-1"},
		{name: "zero retry base", key: "RETRY_BASE_MS", value: "0"},
		{name: "negative retry budget", key: "RETRY_MAX_RETRIES", value: "-2"},
		{name: "zero refresh interval", key: "REFRESH_INTERVAL", value: "0"},
		{name: "unknown default provider", key: "DEFAULT_PROVIDERS", value: "newsapi,telegraph"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestParseProviderList(t *testing.T) {
	set, err := parseProviderList(" newsapi , guardian ,")
	require.NoError(t, err)
	assert.Equal(t, []domain.ProviderID{domain.ProviderNewsAPI, domain.ProviderGuardian}, set)

	set, err = parseProviderList("")
	require.NoError(t, err)
	assert.Nil(t, set)

	_, err = parseProviderList("newsapi,telegraph")
	require.Error(t, err)
}
