package crawler

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/samvad-hq/inlink-go/pkg/httpclient"
	"github.com/samvad-hq/inlink-go/pkg/targets"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte         { return s.body }
func (s stubHTTPResponse) StatusCode() int      { return s.statusCode }
func (s stubHTTPResponse) Header(string) string { return "" }

// stubHTTPClient returns a single response and records request headers.
type stubHTTPClient struct {
	resp    httpclient.Response
	err     error
	headers map[string]string
}

func (s *stubHTTPClient) Get(_ context.Context, _ string, headers map[string]string) (httpclient.Response, error) {
	s.headers = headers
	return s.resp, s.err
}

const samplePage = `
<html>
  <head>
    <title>Fallback</title>
    <meta name="description" content="Plain description">
    <meta name="theme-color" content="#112233">
    <meta property="og:title" content="OG Title">
    <meta property="og:image" content="/img/og.png">
    <meta property="og:site_name" content="Example">
    <meta property="og:locale" content="en_GB">
    <meta name="twitter:card" content="summary_large_image">
  </head>
</html>`

func TestParseMetaPrefersOGTags(t *testing.T) {
	raw, err := parseMeta([]byte(samplePage), "https://example.com/articles/1")
	if err != nil {
		t.Fatalf("parseMeta: %v", err)
	}
	if raw.Title() != "OG Title" {
		t.Fatalf("title = %q", raw.Title())
	}
	if raw.Description() != "Plain description" {
		t.Fatalf("description = %q", raw.Description())
	}
	if raw.Image() != "https://example.com/img/og.png" {
		t.Fatalf("image = %q", raw.Image())
	}
	if raw.SiteName() != "Example" || raw.ThemeColor() != "#112233" {
		t.Fatalf("unexpected raw %#v", raw.Fields)
	}
	if v, _ := raw.Get("og:locale"); v != "en_GB" {
		t.Fatalf("og:locale = %q", v)
	}
	if v, _ := raw.Get("twitter:card"); v != "summary_large_image" {
		t.Fatalf("twitter:card = %q", v)
	}
	if _, ok := raw.Get("og:title"); ok {
		t.Fatalf("known og keys should be folded into their raw names")
	}
}

func TestResolveURLHandlesRelative(t *testing.T) {
	got := resolveURL("/img.png", "https://example.com/articles/1")
	if got != "https://example.com/img.png" {
		t.Fatalf("resolveURL got %q", got)
	}

	if got := resolveURL("", "https://example.com"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestScraperLimitsBodyAndSendsHeaders(t *testing.T) {
	body := bytes.Repeat([]byte("a"), MaxPageBytes+10)
	client := &stubHTTPClient{resp: stubHTTPResponse{body: body, statusCode: 200}}

	tgt := targets.Target{ID: "p1", URL: "https://example.com", Config: map[string]any{targets.ConfigUserAgentKey: "ua"}}
	raw, status, err := NewScraper(client).Scrape(context.Background(), tgt)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if status != 200 || raw.Title() != "" {
		t.Fatalf("expected empty title because body had no metadata, got %q", raw.Title())
	}
	if client.headers["User-Agent"] != "ua" {
		t.Fatalf("headers = %#v", client.headers)
	}
}

func TestScraperFailsOnNon200(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{body: []byte("nope"), statusCode: 404}}
	_, status, err := NewScraper(client).Scrape(context.Background(), targets.Target{URL: "https://example.com"})
	if err == nil || status != 404 {
		t.Fatalf("expected 404 error, got status=%d err=%v", status, err)
	}
}

func TestScraperPropagatesTransportError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	client := &stubHTTPClient{err: cause}
	_, _, err := NewScraper(client).Scrape(context.Background(), targets.Target{URL: "https://example.com"})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", " ", "foo", "bar"); got != "foo" {
		t.Fatalf("firstNonEmpty returned %q", got)
	}
}
