// newsq runs a single aggregation query against the configured providers and
// prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/aggregator"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/config"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/prefs"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/httpclient"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/providers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "newsq failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		text      = flag.String("text", "", "free-text search query")
		category  = flag.String("category", "", "category filter")
		dateFrom  = flag.String("from", "", "inclusive start date (ISO-8601)")
		dateTo    = flag.String("to", "", "inclusive end date (ISO-8601)")
		provider  = flag.String("providers", "", "comma-separated provider set (newsapi,guardian,nyt); empty uses defaults")
		sources   = flag.String("sources", "", "comma-separated source ids (newsapi only)")
		logLevel  = flag.String("log-level", "error", "log level")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(*logLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	builder := prefs.NewBuilder(prefs.Preferences{Providers: cfg.DefaultProviderSet}, log)
	query := builder.Build(prefs.Filters{
		Text:      *text,
		Category:  *category,
		DateFrom:  *dateFrom,
		DateTo:    *dateTo,
		Providers: splitList(*provider),
		Sources:   splitList(*sources),
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

	service := aggregator.NewService(registry, aggregator.Options{
		InterCallDelay: cfg.ProviderDelay,
		ArchiveDelay:   cfg.ArchiveDelay,
	}, log)

	result, err := service.Aggregate(ctx, query)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
