package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/providers"
)

const (
	// DefaultInterCallDelay spaces consecutive provider calls.
	DefaultInterCallDelay = time.Second
	// DefaultArchiveDelay applies immediately before the archive provider,
	// which enforces the strictest rate limit of the three.
	DefaultArchiveDelay = 2 * time.Second
)

// Options tunes the orchestrator's inter-call spacing.
type Options struct {
	InterCallDelay time.Duration
	ArchiveDelay   time.Duration
}

// Service runs the full multi-provider fetch for one query. Calls are
// strictly sequential: latency is traded for per-provider rate-limit safety
// and an isolated failure domain per provider.
type Service struct {
	registry providers.Registry
	opts     Options
	log      logger.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewService wires an orchestrator over the provider fetcher registry.
func NewService(reg providers.Registry, opts Options, log logger.Logger) *Service {
	if opts.InterCallDelay <= 0 {
		opts.InterCallDelay = DefaultInterCallDelay
	}
	if opts.ArchiveDelay <= 0 {
		opts.ArchiveDelay = DefaultArchiveDelay
	}
	return &Service{
		registry: reg,
		opts:     opts,
		log:      logger.Ensure(log),
		sleep:    sleepContext,
	}
}

// Aggregate iterates the query's provider set in the supplied order, waiting
// the configured spacing before each call, and concatenates the per-provider
// article lists. Provider failures never abort the aggregation; they are
// recorded as skipped or failed outcomes. Only context cancellation returns
// an error, together with the partial result accumulated so far.
func (s *Service) Aggregate(ctx context.Context, q domain.Query) (domain.AggregationResult, error) {
	ids := q.Providers
	if len(ids) == 0 {
		ids = domain.AllProviders()
	}

	result := domain.AggregationResult{
		Articles: make([]domain.Article, 0, len(ids)*20),
		Outcomes: make([]domain.ProviderOutcome, 0, len(ids)),
	}

	for _, id := range ids {
		if err := s.sleep(ctx, s.delayFor(id)); err != nil {
			return result, err
		}

		articles, err := s.fetchOne(ctx, id, q)
		outcome := domain.ProviderOutcome{Provider: id, Status: domain.StatusOK}
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return result, err
		case errors.Is(err, domain.ErrNoCredential):
			outcome.Status = domain.StatusSkipped
			outcome.Err = err.Error()
			s.log.WarnObj("provider skipped", "provider_skip", map[string]any{
				"provider_id": string(id),
				"reason":      err.Error(),
			})
		case err != nil:
			outcome.Status = domain.StatusFailed
			outcome.Err = err.Error()
			s.log.ErrorObj("provider fetch failed", "provider_error", map[string]any{
				"provider_id": string(id),
				"error":       err.Error(),
			})
		default:
			outcome.Articles = len(articles)
			result.Articles = append(result.Articles, articles...)
			s.log.InfoObj("provider fetch completed", "provider_result", map[string]any{
				"provider_id":        string(id),
				"articles_collected": len(articles),
			})
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

// fetchOne resolves and invokes a single provider adapter. Resolution errors
// are treated like any other provider failure.
func (s *Service) fetchOne(ctx context.Context, id domain.ProviderID, q domain.Query) ([]domain.Article, error) {
	fetcher, err := s.registry.FetcherFor(id)
	if err != nil {
		return nil, err
	}
	return fetcher.Fetch(ctx, q)
}

func (s *Service) delayFor(id domain.ProviderID) time.Duration {
	if id == domain.ProviderNYT {
		return s.opts.ArchiveDelay
	}
	return s.opts.InterCallDelay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
