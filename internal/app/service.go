package app

import (
	"context"
	"fmt"
	"time"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/aggregator"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/config"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/enrich"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/storage"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/watchlist"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/httpclient"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/providers"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/sinks"
)

// Service is the aggregator daemon runtime. It evaluates the watchlist of
// standing queries on an interval, filters out already-delivered articles,
// optionally enriches missing metadata, and fans fresh articles out to the
// configured sinks.
type Service struct {
	cfg        *config.Config
	entries    []watchlist.Entry
	aggregator *aggregator.Service
	enricher   *enrich.Enricher
	fanout     *sinks.Fanout
	store      storage.Store
	interval   time.Duration
	log        logger.Logger
}

// NewService builds the daemon runtime from config files.
func NewService(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	entries, err := watchlist.Load(cfg.WatchlistFile)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	log.InfoObj("watchlist loaded", "watchlist_meta", map[string]any{
		"count": len(names),
		"names": names,
	})

	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}
	enabledSinks := sinkReg.Enabled()
	if len(enabledSinks) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	builtSinks, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabledSinks, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	fanout := sinks.NewFanout(builtSinks)
	sinkSummaries := make([]map[string]string, 0, len(enabledSinks))
	for _, sinkCfg := range enabledSinks {
		sinkSummaries = append(sinkSummaries, map[string]string{
			"id":   sinkCfg.ID,
			"type": sinkCfg.Type,
		})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(sinkSummaries),
		"sinks": sinkSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ArticleTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"article_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	registry := providers.DefaultRegistry(client, providers.Credentials{
		NewsAPIKey:  cfg.NewsAPIKey,
		GuardianKey: cfg.GuardianKey,
		NYTKey:      cfg.NYTKey,
	}, providers.RetryPolicy{
		Base:       cfg.RetryBase,
		MaxRetries: int(cfg.RetryMaxRetries),
	})

	agg := aggregator.NewService(registry, aggregator.Options{
		InterCallDelay: cfg.ProviderDelay,
		ArchiveDelay:   cfg.ArchiveDelay,
	}, log)

	var enricher *enrich.Enricher
	if cfg.EnrichMetadata {
		enricher = enrich.New(client, 0, log)
	}

	return &Service{
		cfg:        cfg,
		entries:    entries,
		aggregator: agg,
		enricher:   enricher,
		fanout:     fanout,
		store:      store,
		interval:   cfg.RefreshInterval,
		log:        log,
	}, nil
}

// Run starts the refresh loop until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s == nil || s.aggregator == nil {
		return fmt.Errorf("service is not initialized")
	}
	defer s.closeStore()

	if len(s.entries) == 0 {
		s.log.WarnObj("no standing queries configured; daemon idle", "watchlist_file", s.cfg.WatchlistFile)
		<-ctx.Done()
		return ctx.Err()
	}

	s.log.InfoObj("daemon loop starting", "daemon_state", map[string]any{
		"queries_count":    len(s.entries),
		"sinks_count":      s.fanout.Size(),
		"refresh_interval": s.interval.String(),
	})

	if err := s.runOnce(ctx); err != nil {
		s.log.ErrorObj("initial refresh failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("daemon loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := s.runOnce(ctx); err != nil {
				s.log.ErrorObj("scheduled refresh failed", "error", err)
			}
		}
	}
}

// runOnce evaluates every watchlist entry once.
func (s *Service) runOnce(ctx context.Context) error {
	start := time.Now()
	s.log.InfoObj("refresh started", "refresh_meta", map[string]any{
		"queries_count": len(s.entries),
		"started_at":    start.UTC(),
	})

	for _, entry := range s.entries {
		if err := s.runEntry(ctx, entry); err != nil {
			return err
		}
	}

	s.log.InfoObj("refresh completed", "refresh_meta", map[string]any{
		"queries_count": len(s.entries),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// runEntry aggregates one standing query and delivers its fresh articles.
func (s *Service) runEntry(ctx context.Context, entry watchlist.Entry) error {
	result, err := s.aggregator.Aggregate(ctx, entry.Query)
	if err != nil {
		return fmt.Errorf("aggregate %q: %w", entry.Name, err)
	}

	delivered := 0
	for _, chunk := range articlesByProvider(result) {
		provider := chunk.provider
		fresh, err := s.filterSeen(provider, chunk.articles)
		if err != nil {
			return fmt.Errorf("filter seen for %q: %w", entry.Name, err)
		}
		if len(fresh) == 0 {
			continue
		}

		if s.enricher != nil {
			fresh = s.enricher.FillMissing(ctx, fresh)
		}

		for _, article := range fresh {
			evt := sinks.NewArticleEvent(entry.Name, provider, article)
			if _, err := s.fanout.Deliver(ctx, evt); err != nil {
				s.log.ErrorObj("event delivery incomplete", "delivery_error", map[string]any{
					"query":       entry.Name,
					"provider_id": string(provider),
					"article_id":  article.ID,
					"error":       err.Error(),
				})
			}
			if err := s.store.Mark(provider, article.ID); err != nil {
				return fmt.Errorf("mark article seen: %w", err)
			}
			delivered++
		}
	}

	s.log.InfoObj("standing query evaluated", "query_result", map[string]any{
		"query":              entry.Name,
		"articles_collected": len(result.Articles),
		"articles_delivered": delivered,
		"outcomes":           result.Outcomes,
	})
	return nil
}

// filterSeen drops articles the store already recorded as delivered.
func (s *Service) filterSeen(provider domain.ProviderID, articles []domain.Article) ([]domain.Article, error) {
	fresh := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		seen, err := s.store.Seen(provider, article.ID)
		if err != nil {
			return nil, err
		}
		if !seen {
			fresh = append(fresh, article)
		}
	}
	return fresh, nil
}

// providerChunk is one provider's contribution to an aggregation result.
type providerChunk struct {
	provider domain.ProviderID
	articles []domain.Article
}

// articlesByProvider splits the concatenated article list back into
// per-provider slices using the outcome counts, preserving call order.
func articlesByProvider(result domain.AggregationResult) []providerChunk {
	out := make([]providerChunk, 0, len(result.Outcomes))
	offset := 0
	for _, outcome := range result.Outcomes {
		if outcome.Status != domain.StatusOK || outcome.Articles == 0 {
			continue
		}
		end := offset + outcome.Articles
		if end > len(result.Articles) {
			end = len(result.Articles)
		}
		out = append(out, providerChunk{provider: outcome.Provider, articles: result.Articles[offset:end]})
		offset = end
	}
	return out
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (s *Service) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.ErrorObj("storage close failed", "error", err)
	}
}
