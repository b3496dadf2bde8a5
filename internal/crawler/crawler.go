package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/inlink-go/internal/domain"
	"github.com/samvad-hq/inlink-go/internal/logger"
	"github.com/samvad-hq/inlink-go/pkg/inlink"
	"github.com/samvad-hq/inlink-go/pkg/publishers"
	"github.com/samvad-hq/inlink-go/pkg/targets"
)

// Outcomes of a single target pass.
const (
	OutcomePublished = "published"
	OutcomeUnchanged = "unchanged"
	OutcomeFallback  = "fallback"
)

// Service queries every target and publishes metadata whose signature changed.
type Service struct {
	client          MetadataClient
	publisher       EventPublisher
	store           SignatureStore
	scraper         PageScraper
	fallbackDefault bool
	log             logger.Logger
	wait            func(ctx context.Context, d time.Duration) bool
}

// Option configures a Service.
type Option func(*Service)

// WithFallbackScraper scrapes the page itself when the API answers with an error.
// enabledByDefault applies to targets that do not set fallback_scrape themselves.
func WithFallbackScraper(s PageScraper, enabledByDefault bool) Option {
	return func(svc *Service) {
		svc.scraper = s
		svc.fallbackDefault = enabledByDefault
	}
}

// NewService wires a crawler with its API client, publisher and signature store.
func NewService(client MetadataClient, publisher EventPublisher, log logger.Logger, store SignatureStore, opts ...Option) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	s := &Service{
		client:    client,
		publisher: publisher,
		store:     store,
		log:       log,
		wait:      waitFor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes a pass over all targets, pausing after each one for its request delay.
func (s *Service) Run(ctx context.Context, tgts []targets.Target) error {
	if s == nil || s.client == nil || s.publisher == nil || s.store == nil {
		return fmt.Errorf("crawler service is not initialized")
	}
	if len(tgts) == 0 {
		return fmt.Errorf("no targets configured for crawling")
	}

	var errs []error
	for i, t := range tgts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		outcome, err := s.runTarget(ctx, t)
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("target crawl failed", "target_error", map[string]any{
				"target_id": t.ID,
				"url":       t.URL,
				"error":     err.Error(),
			})
		} else {
			s.log.InfoObj("target crawl completed", "target_result", map[string]any{
				"target_id": t.ID,
				"outcome":   outcome,
			})
		}

		if i < len(tgts)-1 && !s.wait(ctx, t.RequestDelay()) {
			errs = append(errs, ctx.Err())
			break
		}
	}

	return errors.Join(errs...)
}

func (s *Service) runTarget(ctx context.Context, t targets.Target) (string, error) {
	res, err := s.client.QueryWithToken(ctx, t.URL, t.APIToken)
	if err != nil {
		return "", fmt.Errorf("query target %s: %w", t.ID, err)
	}

	switch data := res.Data.(type) {
	case *inlink.SuccessResponse:
		return s.handleSuccess(ctx, t, res.Status, data)
	case *inlink.ErrorResponse:
		if s.scraper == nil || !t.ConfigBool(targets.ConfigFallbackKey, s.fallbackDefault) {
			return "", fmt.Errorf("inlink error for target %s (status %d): %s", t.ID, res.Status, data.Message)
		}
		return s.handleFallback(ctx, t, res.Status, data)
	default:
		return "", fmt.Errorf("unrecognized inlink response for target %s (status %d)", t.ID, res.Status)
	}
}

func (s *Service) handleSuccess(ctx context.Context, t targets.Target, status int, data *inlink.SuccessResponse) (string, error) {
	sig := data.Formatted.DataSignature
	prev, found, err := s.store.LastSignature(t.URL)
	if err != nil {
		return "", fmt.Errorf("read signature for target %s: %w", t.ID, err)
	}
	if found && sig != "" && prev == sig {
		return OutcomeUnchanged, nil
	}

	snap := domain.SnapshotFromSuccess(t.ID, t.Name, t.URL, status, data)
	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(snap, prev))
	if err != nil {
		if delivered == 0 {
			return "", fmt.Errorf("publish target %s: %w", t.ID, err)
		}
		s.log.WarnObj("partial publish failure", "publish_error", map[string]any{
			"target_id": t.ID,
			"delivered": delivered,
			"error":     err.Error(),
		})
	}

	if sig == "" {
		return OutcomePublished, nil
	}
	if err := s.store.RecordSignature(t.URL, sig); err != nil {
		return "", fmt.Errorf("record signature for target %s: %w", t.ID, err)
	}
	return OutcomePublished, nil
}

func (s *Service) handleFallback(ctx context.Context, t targets.Target, status int, apiErr *inlink.ErrorResponse) (string, error) {
	raw, pageStatus, err := s.scraper.Scrape(ctx, t)
	if err != nil {
		return "", fmt.Errorf("inlink error for target %s (status %d): %s; fallback scrape: %w", t.ID, status, apiErr.Message, err)
	}

	snap := domain.Snapshot{
		TargetID:   t.ID,
		TargetName: t.Name,
		URL:        t.URL,
		Status:     pageStatus,
		Source:     domain.SourceScrape,
		Raw:        raw,
		APIError:   apiErr.Message,
	}
	if delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(snap, "")); err != nil && delivered == 0 {
		return "", fmt.Errorf("publish target %s: %w", t.ID, err)
	}
	return OutcomeFallback, nil
}

func waitFor(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
