package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/samvad-hq/inlink-go/pkg/httpclient"
	"github.com/samvad-hq/inlink-go/pkg/inlink"
	"github.com/samvad-hq/inlink-go/pkg/targets"
)

// MaxPageBytes bounds how much of a page is parsed. Pair the scraper with
// httpclient.NewLimitedRestyClient to also bound what is read off the wire.
const MaxPageBytes = 1 << 20 // 1 MiB

var _ PageScraper = (*Scraper)(nil)

// Scraper fetches target pages and extracts the same raw keys the inlink API reports.
type Scraper struct {
	client httpclient.Client
}

// NewScraper constructs a scraper with the provided HTTP client.
func NewScraper(client httpclient.Client) *Scraper {
	return &Scraper{client: client}
}

// Scrape fetches the target page and returns its raw metadata and HTTP status.
func (s *Scraper) Scrape(ctx context.Context, t targets.Target) (inlink.RawMetadata, int, error) {
	resp, err := s.client.Get(ctx, t.URL, targets.Headers(t))
	if err != nil {
		return inlink.RawMetadata{}, 0, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return inlink.RawMetadata{}, resp.StatusCode(), fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > MaxPageBytes {
		body = body[:MaxPageBytes]
	}

	raw, err := parseMeta(body, t.URL)
	if err != nil {
		return inlink.RawMetadata{}, resp.StatusCode(), err
	}
	return raw, resp.StatusCode(), nil
}

func parseMeta(body []byte, pageURL string) (inlink.RawMetadata, error) {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(bytes.NewReader(body)); err != nil {
		return inlink.RawMetadata{}, fmt.Errorf("parse opengraph: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return inlink.RawMetadata{}, fmt.Errorf("parse html: %w", err)
	}

	raw := inlink.NewRawMetadata()

	// Unrecognised og:* and twitter:* tags are kept under their full names.
	doc.Find(`meta[property^="og:"], meta[name^="twitter:"], meta[property^="twitter:"]`).Each(func(_ int, sel *goquery.Selection) {
		key := firstNonEmpty(sel.AttrOr("property", ""), sel.AttrOr("name", ""))
		val := strings.TrimSpace(sel.AttrOr("content", ""))
		if key == "" || val == "" {
			return
		}
		if _, exists := raw.Get(key); !exists {
			raw.Set(key, val)
		}
	})
	for _, k := range []string{"og:title", "og:description", "og:image", "og:site_name", "og:type", "og:url"} {
		delete(raw.Fields, k)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	image := ""
	if len(og.Images) > 0 && og.Images[0] != nil {
		image = firstNonEmpty(og.Images[0].URL, og.Images[0].SecureURL)
	}

	setIf := func(key, val string) {
		if val != "" {
			raw.Set(key, val)
		}
	}
	setIf(inlink.RawKeyTitle, firstNonEmpty(og.Title, doc.Find("title").First().Text()))
	setIf(inlink.RawKeyDescription, firstNonEmpty(og.Description, extract(`meta[name="description"]`)))
	setIf(inlink.RawKeyImage, resolveURL(image, pageURL))
	setIf(inlink.RawKeySiteName, og.SiteName)
	setIf(inlink.RawKeyType, og.Type)
	setIf(inlink.RawKeyURL, resolveURL(og.URL, pageURL))
	setIf(inlink.RawKeyThemeColor, extract(`meta[name="theme-color"]`))

	return raw, nil
}

// resolveURL makes ref absolute against base; unparsable input is returned as-is.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
