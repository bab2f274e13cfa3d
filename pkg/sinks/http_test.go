package sinks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/domain"
)

func TestHTTPSinkDeliverSuccess(t *testing.T) {
	var received ArticleEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Token"); got != "abc" {
			t.Fatalf("missing header, got %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			Headers:        map[string]string{"X-Token": "abc"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	evt := NewArticleEvent("climate", domain.ProviderNewsAPI, domain.Article{
		ID:    "n1",
		Title: "Headline",
		URL:   "https://example.com/n1",
	})
	if err := sink.Deliver(context.Background(), evt); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if received.WatchQuery != "climate" || received.ProviderID != domain.ProviderNewsAPI {
		t.Fatalf("unexpected payload %+v", received)
	}
	if received.Article.ID != "n1" {
		t.Fatalf("unexpected article %+v", received.Article)
	}
}

func TestHTTPSinkErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	sink, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			TimeoutSeconds: 1,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	if err := sink.Deliver(context.Background(), ArticleEvent{}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestHTTPSinkRequiresConfig(t *testing.T) {
	if _, err := newHTTPSink(context.Background(), SinkConfig{ID: "hook", Type: TypeHTTP}, nil); err == nil {
		t.Fatalf("expected error without http configuration")
	}
}
