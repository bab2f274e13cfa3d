package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Request carries the optional pieces of an outbound GET.
type Request struct {
	Headers map[string]string
	Query   map[string]string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, req Request) (Response, error)
}
