// Package inlink is a client for the inlink page metadata API.
//
// A lookup is a single GET of <endpoint>?url=<target>. The JSON body is
// decoded into one of three shapes:
//
//	res, err := inlink.NewClient(inlink.WithAPIToken(token)).Query(ctx, "https://example.com")
//	if err != nil {
//		// transport failure or a body that is not JSON
//	}
//	if s, ok := inlink.AsSuccess(res.Data); ok {
//		fmt.Println(s.Formatted.Title, s.Formatted.DataSignature)
//	}
//
// The status code is reported as-is; an error payload with a 2xx status is
// still an *ErrorResponse.
package inlink

import (
	"context"
	"time"

	"github.com/samvad-hq/inlink-go/pkg/httpclient"
)

// Logger is the logging surface the client relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}

// Client carries the endpoint, credentials and transport shared by queries.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	endpoint string
	apiToken string
	http     httpclient.Client
	log      Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint points the client at a specific deployment.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithAPIToken sets the bearer token sent with every query.
func WithAPIToken(token string) Option {
	return func(c *Client) { c.apiToken = token }
}

// WithHTTPClient replaces the transport.
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger enables debug logging of each exchange.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient builds a Client. Without WithEndpoint it targets DefaultEndpoint;
// without WithHTTPClient it uses a resty transport with no timeout of its own.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		log:      noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	return c
}

// Endpoint returns the configured base address.
func (c *Client) Endpoint() string { return c.endpoint }

// Query looks up metadata for target.
func (c *Client) Query(ctx context.Context, target string) (*QueryResult, error) {
	return c.QueryWithToken(ctx, target, "")
}

// QueryWithToken looks up target, using token instead of the client's token when non-empty.
func (c *Client) QueryWithToken(ctx context.Context, target, token string) (*QueryResult, error) {
	if token == "" {
		token = c.apiToken
	}
	start := time.Now()
	res, err := Query(ctx, c.http, QueryOptions{
		Endpoint: c.endpoint,
		URL:      target,
		APIToken: token,
	})
	meta := map[string]any{
		"url":        target,
		"endpoint":   c.endpoint,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		meta["error"] = err.Error()
	} else {
		meta["status"] = res.Status
		meta["kind"] = Kind(res.Data)
	}
	c.log.DebugObj("inlink query", "inlink_query", meta)
	return res, err
}

// Kind names the variant held by data: "success", "error" or "unknown".
func Kind(data ResponseData) string {
	switch {
	case IsSuccess(data):
		return "success"
	case IsError(data):
		return "error"
	default:
		return "unknown"
	}
}
