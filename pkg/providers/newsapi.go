package providers

import (
	"context"
	"strings"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

const (
	newsAPITopHeadlinesURL = "https://newsapi.org/v2/top-headlines"
	newsAPIEverythingURL   = "https://newsapi.org/v2/everything"
)

// newsAPIFetcher fetches from the general news index (newsapi.org).
type newsAPIFetcher struct {
	client HTTPClient
	apiKey string
}

// NewNewsAPIFetcher builds the newsapi.org fetcher. An empty apiKey makes the
// fetcher report ErrNoCredential without issuing requests.
func NewNewsAPIFetcher(client HTTPClient, apiKey string) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &newsAPIFetcher{client: client, apiKey: strings.TrimSpace(apiKey)}
}

func (f *newsAPIFetcher) ID() domain.ProviderID { return domain.ProviderNewsAPI }

// newsAPIResponse mirrors the provider's search/headlines payload.
type newsAPIResponse struct {
	Articles []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

func (f *newsAPIFetcher) Fetch(ctx context.Context, q domain.Query) ([]domain.Article, error) {
	if f.apiKey == "" {
		return nil, domain.ErrNoCredential
	}

	// The curated top-headlines endpoint serves category browsing; free-text
	// search goes through the everything endpoint. The two are mutually
	// exclusive on the provider side.
	category := strings.TrimSpace(q.Category)
	endpoint := newsAPIEverythingURL
	if category != "" {
		endpoint = newsAPITopHeadlinesURL
	}

	params := map[string]string{
		"apiKey":   f.apiKey,
		"language": "en",
		"pageSize": pageSize,
	}
	if category != "" {
		params["category"] = category
	} else {
		text := strings.TrimSpace(q.Text)
		if text == "" {
			text = defaultSearchTerm
		}
		params["q"] = text
	}
	if q.DateFrom != "" {
		params["from"] = q.DateFrom
	}
	if q.DateTo != "" {
		params["to"] = q.DateTo
	}
	if len(q.Sources) > 0 {
		params["sources"] = strings.Join(q.Sources, ",")
	}

	var payload newsAPIResponse
	if err := getJSON(ctx, f.client, f.ID(), endpoint, params, &payload); err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, raw := range payload.Articles {
		articles = append(articles, domain.Article{
			ID:          raw.URL,
			Title:       raw.Title,
			Description: raw.Description,
			Content:     raw.Content,
			URL:         raw.URL,
			ImageURL:    raw.URLToImage,
			PublishedAt: raw.PublishedAt,
			Source: domain.Source{
				ID:   raw.Source.ID,
				Name: raw.Source.Name,
			},
			Author: raw.Author,
			// The provider does not echo a category; tag with the requested one.
			Category: category,
		})
	}
	return keepValid(articles), nil
}
