package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header(key string) string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Implementations must not treat non-2xx statuses as errors; only transport
// failures are returned as err.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
