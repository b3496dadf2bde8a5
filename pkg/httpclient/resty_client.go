package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent is sent when the caller does not set one.
const DefaultUserAgent = "inlink-go/1"

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client    *resty.Client
	bodyLimit int64
}

// NewRestyClient creates a new RestyClient. A zero timeout leaves deadlines to the caller's context.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// NewLimitedRestyClient is NewRestyClient that reads at most limit bytes of each
// body; the rest is discarded unread and Body returns the prefix.
func NewLimitedRestyClient(timeout time.Duration, limit int64) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout), bodyLimit: limit}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	c.SetRetryCount(0)
	c.SetHeader("User-Agent", DefaultUserAgent)
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if r.bodyLimit > 0 {
		req.SetDoNotParseResponse(true)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	if r.bodyLimit <= 0 {
		return &restyResponseAdapter{resp: resp}, nil
	}

	raw := resp.RawBody()
	if raw == nil {
		return &limitedResponse{status: resp.StatusCode(), header: resp.Header()}, nil
	}
	defer raw.Close()
	body, err := io.ReadAll(io.LimitReader(raw, r.bodyLimit))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &limitedResponse{body: body, status: resp.StatusCode(), header: resp.Header()}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte             { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int          { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header(key string) string { return r.resp.Header().Get(key) }

type limitedResponse struct {
	body   []byte
	status int
	header http.Header
}

func (l *limitedResponse) Body() []byte             { return l.body }
func (l *limitedResponse) StatusCode() int          { return l.status }
func (l *limitedResponse) Header(key string) string { return l.header.Get(key) }
