package crawler

import (
	"context"

	"github.com/samvad-hq/inlink-go/pkg/inlink"
	"github.com/samvad-hq/inlink-go/pkg/publishers"
	"github.com/samvad-hq/inlink-go/pkg/targets"
)

// MetadataClient queries the inlink API.
type MetadataClient interface {
	QueryWithToken(ctx context.Context, target, token string) (*inlink.QueryResult, error)
}

// PageScraper reads metadata straight from a target page.
type PageScraper interface {
	Scrape(ctx context.Context, target targets.Target) (inlink.RawMetadata, int, error)
}

// SignatureStore remembers the last published data signature per URL.
type SignatureStore interface {
	LastSignature(key string) (string, bool, error)
	RecordSignature(key, sig string) error
}

// EventPublisher publishes change events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
