// Package enrich fills gaps in provider-supplied article metadata from the
// article pages themselves. Providers routinely omit thumbnails and
// descriptions; the OpenGraph tags on the page usually carry both.
package enrich

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
	"github.com/newsfuse-hq/newsfuse-aggregator/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultPageDelay = 500 * time.Millisecond
)

// Enricher fetches article pages and fills missing description/image fields
// from meta tags. Fields already supplied by a provider are never overwritten.
type Enricher struct {
	client httpclient.Client
	delay  time.Duration
	log    logger.Logger
}

// New constructs an enricher. A zero delay selects the default page-fetch throttle.
func New(client httpclient.Client, delay time.Duration, log logger.Logger) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	if delay <= 0 {
		delay = defaultPageDelay
	}
	return &Enricher{client: client, delay: delay, log: logger.Ensure(log)}
}

// FillMissing returns the articles with absent description/image fields
// populated where the article page provides them. Articles that already have
// both fields are passed through without a page fetch. Page failures leave
// the article unchanged.
func (e *Enricher) FillMissing(ctx context.Context, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)

	fetched := false
	for i, art := range out {
		if art.Description != "" && art.ImageURL != "" {
			continue
		}

		select {
		case <-ctx.Done():
			return out
		default:
		}

		if fetched {
			timer := time.NewTimer(e.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
		fetched = true

		filled, err := e.fetchAndFill(ctx, art)
		if err != nil {
			e.log.WarnObj("article metadata fill failed", "metadata_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			continue
		}
		out[i] = filled
	}

	return out
}

func (e *Enricher) fetchAndFill(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := e.client.Get(ctx, art.URL, httpclient.Request{})
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return art, fmt.Errorf("status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	if art.Description == "" {
		art.Description = meta.Description
	}
	if art.ImageURL == "" {
		art.ImageURL = meta.ImageURL
	}
	return art, nil
}

type pageMeta struct {
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	pm := pageMeta{ImageURL: extract(`meta[property="og:image"]`)}
	pm.Description = firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
	)
	return pm, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
