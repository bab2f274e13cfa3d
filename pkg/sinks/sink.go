package sinks

import (
	"context"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
)

// Sink delivers article events to a downstream destination (HTTP, SQS, SNS, Pub/Sub).
type Sink interface {
	ID() string
	Type() string
	Deliver(ctx context.Context, evt ArticleEvent) error
}

// Logger aliases the shared structured logging surface for clarity within sinks.
type Logger = logger.Logger
