package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

const (
	nytSearchURL    = "https://api.nytimes.com/svc/search/v2/articlesearch.json"
	nytMediaBaseURL = "https://www.nytimes.com/"

	nytSourceID   = "new-york-times"
	nytSourceName = "The New York Times"

	bylinePrefix = "By "
)

// nytSectionMap narrows archive searches to the paper's title-cased section
// names when the shared category label is recognized.
var nytSectionMap = map[string]string{
	"business":      "Business",
	"technology":    "Technology",
	"sports":        "Sports",
	"entertainment": "Arts",
	"politics":      "Politics",
	"world":         "World",
	"science":       "Science",
	"health":        "Health",
}

// nytFetcher fetches from the search-indexed newspaper archive API.
type nytFetcher struct {
	client HTTPClient
	apiKey string
}

// NewNYTFetcher builds the archive search fetcher. Callers should wrap it
// with WithRetry; the archive endpoint is the most rate-limit sensitive of
// the three providers.
func NewNYTFetcher(client HTTPClient, apiKey string) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &nytFetcher{client: client, apiKey: strings.TrimSpace(apiKey)}
}

func (f *nytFetcher) ID() domain.ProviderID { return domain.ProviderNYT }

// nytResponse mirrors the article search payload.
type nytResponse struct {
	Response struct {
		Docs []struct {
			ID       string `json:"_id"`
			Headline struct {
				Main string `json:"main"`
			} `json:"headline"`
			Abstract      string `json:"abstract"`
			LeadParagraph string `json:"lead_paragraph"`
			WebURL        string `json:"web_url"`
			Multimedia    []struct {
				URL string `json:"url"`
			} `json:"multimedia"`
			PubDate string `json:"pub_date"`
			Byline  struct {
				Original string `json:"original"`
			} `json:"byline"`
			SectionName string `json:"section_name"`
		} `json:"docs"`
	} `json:"response"`
}

func (f *nytFetcher) Fetch(ctx context.Context, q domain.Query) ([]domain.Article, error) {
	if f.apiKey == "" {
		return nil, domain.ErrNoCredential
	}

	params := map[string]string{
		"api-key": f.apiKey,
		"q":       nytQueryTerm(q),
		"sort":    "newest",
	}
	if q.DateFrom != "" {
		params["begin_date"] = compactDate(q.DateFrom)
	}
	if q.DateTo != "" {
		params["end_date"] = compactDate(q.DateTo)
	}
	if section, ok := nytSectionMap[strings.TrimSpace(q.Category)]; ok {
		params["fq"] = fmt.Sprintf("section_name:(%q)", section)
	}

	var payload nytResponse
	if err := getJSON(ctx, f.client, f.ID(), nytSearchURL, params, &payload); err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(payload.Response.Docs))
	for _, raw := range payload.Response.Docs {
		imageURL := ""
		if len(raw.Multimedia) > 0 && raw.Multimedia[0].URL != "" {
			imageURL = nytMediaBaseURL + raw.Multimedia[0].URL
		}

		category := strings.ToLower(raw.SectionName)
		if category == "" {
			category = defaultSearchTerm
		}

		articles = append(articles, domain.Article{
			ID:          raw.ID,
			Title:       raw.Headline.Main,
			Description: raw.Abstract,
			Content:     raw.LeadParagraph,
			URL:         raw.WebURL,
			ImageURL:    imageURL,
			PublishedAt: raw.PubDate,
			Source: domain.Source{
				ID:   nytSourceID,
				Name: nytSourceName,
			},
			Author:   strings.TrimPrefix(raw.Byline.Original, bylinePrefix),
			Category: category,
		})
	}
	return keepValid(articles), nil
}

// nytQueryTerm joins free text and category into the single free-text term
// the archive search accepts.
func nytQueryTerm(q domain.Query) string {
	parts := make([]string, 0, 2)
	if text := strings.TrimSpace(q.Text); text != "" {
		parts = append(parts, text)
	}
	if category := strings.TrimSpace(q.Category); category != "" {
		parts = append(parts, category)
	}
	if len(parts) == 0 {
		return defaultSearchTerm
	}
	return strings.Join(parts, " ")
}
