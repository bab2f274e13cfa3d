package sinks

import (
	"time"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

// ArticleEvent is the payload delivered downstream for each fresh article.
type ArticleEvent struct {
	WatchQuery   string            `json:"watch_query"`
	ProviderID   domain.ProviderID `json:"provider_id"`
	ProviderName string            `json:"provider_name"`
	Article      domain.Article    `json:"article"`
	CollectedAt  time.Time         `json:"collected_at"`
}

// NewArticleEvent constructs an ArticleEvent for the given watchlist entry + article.
func NewArticleEvent(watchQuery string, provider domain.ProviderID, article domain.Article) ArticleEvent {
	return ArticleEvent{
		WatchQuery:   watchQuery,
		ProviderID:   provider,
		ProviderName: article.Source.Name,
		Article:      article,
		CollectedAt:  time.Now().UTC(),
	}
}
