package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	NewsAPIKey  string `mapstructure:"newsapi_key"`
	GuardianKey string `mapstructure:"guardian_key"`
	NYTKey      string `mapstructure:"nyt_key"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	ProviderDelayMs int64         `mapstructure:"provider_delay_ms"`
	ArchiveDelayMs  int64         `mapstructure:"archive_delay_ms"`
	ProviderDelay   time.Duration `mapstructure:"-"`
	ArchiveDelay    time.Duration `mapstructure:"-"`

	RetryBaseMs     int64         `mapstructure:"retry_base_ms"`
	RetryMaxRetries int64         `mapstructure:"retry_max_retries"`
	RetryBase       time.Duration `mapstructure:"-"`

	DefaultProviders    string              `mapstructure:"default_providers"`
	DefaultProviderSet  []domain.ProviderID `mapstructure:"-"`
	PreferredCategories string              `mapstructure:"preferred_categories"`

	WatchlistFile          string        `mapstructure:"watchlist_file"`
	SinksFile              string        `mapstructure:"sinks_file"`
	RefreshIntervalSeconds int64         `mapstructure:"refresh_interval"`
	RefreshInterval        time.Duration `mapstructure:"-"`

	EnrichMetadata bool `mapstructure:"enrich_metadata"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "newsfuse-aggregator")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("newsapi_key", "")
	v.SetDefault("guardian_key", "")
	v.SetDefault("nyt_key", "")

	v.SetDefault("http_timeout_seconds", 15)

	v.SetDefault("provider_delay_ms", 1000)
	v.SetDefault("archive_delay_ms", 2000)
	v.SetDefault("retry_base_ms", 1000)
	v.SetDefault("retry_max_retries", 3)

	v.SetDefault("default_providers", "newsapi,guardian,nyt")
	v.SetDefault("preferred_categories", "")

	v.SetDefault("watchlist_file", "./configs/watchlist.yaml")
	v.SetDefault("sinks_file", "./configs/sinks.yaml")
	v.SetDefault("refresh_interval", 900) // seconds
	v.SetDefault("enrich_metadata", false)

	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.ProviderDelayMs < 0 || cfg.ArchiveDelayMs < 0 {
		return nil, fmt.Errorf("provider delays must not be negative")
	}
	cfg.ProviderDelay = time.Duration(cfg.ProviderDelayMs) * time.Millisecond
	cfg.ArchiveDelay = time.Duration(cfg.ArchiveDelayMs) * time.Millisecond

	if cfg.RetryBaseMs <= 0 {
		return nil, fmt.Errorf("invalid retry_base_ms (must be positive milliseconds)")
	}
	if cfg.RetryMaxRetries < 0 {
		return nil, fmt.Errorf("invalid retry_max_retries (must not be negative)")
	}
	cfg.RetryBase = time.Duration(cfg.RetryBaseMs) * time.Millisecond

	if cfg.RefreshIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid refresh_interval (must be positive seconds)")
	}
	cfg.RefreshInterval = time.Duration(cfg.RefreshIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	set, err := parseProviderList(cfg.DefaultProviders)
	if err != nil {
		return nil, err
	}
	cfg.DefaultProviderSet = set

	return &cfg, nil
}

// parseProviderList parses a comma-separated provider list, rejecting unknown labels.
func parseProviderList(raw string) ([]domain.ProviderID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]domain.ProviderID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := domain.ParseProviderID(part)
		if !ok {
			return nil, fmt.Errorf("unknown provider %q in default_providers", part)
		}
		out = append(out, id)
	}
	return out, nil
}
