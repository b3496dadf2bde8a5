package inlink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/samvad-hq/inlink-go/pkg/httpclient"
)

// DefaultEndpoint is the public deployment of the inlink API.
const DefaultEndpoint = "https://inlinkapi.com/api"

// ErrMissingURL is returned when no target URL is given.
var ErrMissingURL = errors.New("inlink: target url is required")

// QueryOptions describes a single lookup.
type QueryOptions struct {
	// Endpoint is the base address of the API deployment, including scheme.
	// Empty means DefaultEndpoint.
	Endpoint string
	// URL is the page to scrape.
	URL string
	// APIToken is sent as a bearer token when non-empty.
	APIToken string
}

// QueryResult pairs the HTTP status with the decoded body. Callers inspect both;
// a non-2xx status is not an error.
type QueryResult struct {
	Status int          `json:"status"`
	Data   ResponseData `json:"data"`
}

// Query issues one GET against the inlink API and decodes the JSON body.
// Transport failures and undecodable bodies are returned as errors; API-level
// errors come back as an *ErrorResponse in the result.
func Query(ctx context.Context, client httpclient.Client, opts QueryOptions) (*QueryResult, error) {
	if client == nil {
		return nil, errors.New("inlink: http client is nil")
	}
	if opts.URL == "" {
		return nil, ErrMissingURL
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	resp, err := client.Get(ctx, RequestURL(endpoint, opts.URL), RequestHeaders(opts.APIToken))
	if err != nil {
		return nil, fmt.Errorf("inlink request for %s: %w", opts.URL, err)
	}

	data, err := DecodeResponseData(resp.Body())
	if err != nil {
		if ct := resp.Header("Content-Type"); ct != "" {
			return nil, fmt.Errorf("inlink response for %s (status %d, %s): %w", opts.URL, resp.StatusCode(), ct, err)
		}
		return nil, fmt.Errorf("inlink response for %s (status %d): %w", opts.URL, resp.StatusCode(), err)
	}

	return &QueryResult{Status: resp.StatusCode(), Data: data}, nil
}

// RequestURL drops one trailing slash from endpoint and appends the encoded target.
func RequestURL(endpoint, target string) string {
	return strings.TrimSuffix(endpoint, "/") + "?url=" + encodeURIComponent(target)
}

// RequestHeaders returns the headers sent with every query.
func RequestHeaders(apiToken string) map[string]string {
	headers := map[string]string{
		"content-type": "application/json",
	}
	if apiToken != "" {
		headers["Authorization"] = "Bearer " + apiToken
	}
	return headers
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent leaves A-Z a-z 0-9 - _ . ! ~ * ' ( ) unescaped and
// encodes spaces as %20.
func encodeURIComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
