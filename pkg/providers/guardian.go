package providers

import (
	"context"
	"strings"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

const (
	guardianSearchURL = "https://content.guardianapis.com/search"

	guardianSourceID   = "the-guardian"
	guardianSourceName = "The Guardian"

	guardianExcerptLen = 200
	excerptMarker      = "..."
)

// guardianSectionMap translates the shared category vocabulary into the
// outlet's own section taxonomy. Categories outside this bounded set are not
// filtered on.
var guardianSectionMap = map[string]string{
	"business":      "business",
	"technology":    "technology",
	"sports":        "sport",
	"entertainment": "culture",
	"politics":      "politics",
	"world":         "world",
	"science":       "science",
	"health":        "healthcare",
}

// guardianFetcher fetches from the editorial outlet content API.
type guardianFetcher struct {
	client HTTPClient
	apiKey string
}

// NewGuardianFetcher builds the Guardian content API fetcher.
func NewGuardianFetcher(client HTTPClient, apiKey string) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &guardianFetcher{client: client, apiKey: strings.TrimSpace(apiKey)}
}

func (f *guardianFetcher) ID() domain.ProviderID { return domain.ProviderGuardian }

// guardianResponse mirrors the content search payload.
type guardianResponse struct {
	Response struct {
		Results []struct {
			ID                 string `json:"id"`
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			SectionName        string `json:"sectionName"`
			Fields             struct {
				BodyText  string `json:"bodyText"`
				Thumbnail string `json:"thumbnail"`
				Byline    string `json:"byline"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

func (f *guardianFetcher) Fetch(ctx context.Context, q domain.Query) ([]domain.Article, error) {
	if f.apiKey == "" {
		return nil, domain.ErrNoCredential
	}

	params := map[string]string{
		"show-fields": "headline,byline,thumbnail,bodyText",
		"api-key":     f.apiKey,
		"page-size":   pageSize,
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		params["q"] = text
	}
	if section, ok := guardianSectionMap[strings.TrimSpace(q.Category)]; ok {
		params["section"] = section
	}
	if q.DateFrom != "" {
		params["from-date"] = q.DateFrom
	}
	if q.DateTo != "" {
		params["to-date"] = q.DateTo
	}

	var payload guardianResponse
	if err := getJSON(ctx, f.client, f.ID(), guardianSearchURL, params, &payload); err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(payload.Response.Results))
	for _, raw := range payload.Response.Results {
		articles = append(articles, domain.Article{
			ID:          raw.ID,
			Title:       raw.WebTitle,
			Description: excerpt(raw.Fields.BodyText),
			Content:     raw.Fields.BodyText,
			URL:         raw.WebURL,
			ImageURL:    raw.Fields.Thumbnail,
			PublishedAt: raw.WebPublicationDate,
			Source: domain.Source{
				ID:   guardianSourceID,
				Name: guardianSourceName,
			},
			Author: raw.Fields.Byline,
			// The outlet's own section name, which may differ from the
			// requested category label.
			Category: raw.SectionName,
		})
	}
	return keepValid(articles), nil
}

// excerpt derives a rough description by truncating the full body text. The
// outlet exposes no real summary field.
func excerpt(body string) string {
	if body == "" {
		return ""
	}
	if len(body) > guardianExcerptLen {
		body = body[:guardianExcerptLen]
	}
	return body + excerptMarker
}
