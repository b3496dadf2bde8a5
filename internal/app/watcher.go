package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/inlink-go/internal/config"
	"github.com/samvad-hq/inlink-go/internal/crawler"
	"github.com/samvad-hq/inlink-go/internal/logger"
	"github.com/samvad-hq/inlink-go/internal/storage"
	"github.com/samvad-hq/inlink-go/pkg/httpclient"
	"github.com/samvad-hq/inlink-go/pkg/inlink"
	"github.com/samvad-hq/inlink-go/pkg/publishers"
	"github.com/samvad-hq/inlink-go/pkg/targets"
)

// Crawler runs one pass over the targets.
type Crawler interface {
	Run(ctx context.Context, tgts []targets.Target) error
}

// Watcher represents the metadata watcher runtime. It polls the inlink API for
// every configured target, publishes changes and owns the storage and
// publisher lifecycles.
type Watcher struct {
	cfg          *config.Config
	targets      []targets.Target
	fanout       *publishers.Fanout
	crawler      Crawler
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	targetReg, err := targets.LoadRegistry(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	enabledTargets := targetReg.Enabled()
	targetIDs := make([]string, 0, len(enabledTargets))
	for _, t := range enabledTargets {
		targetIDs = append(targetIDs, t.ID)
	}
	log.InfoObj("targets registry loaded", "targets_meta", map[string]any{
		"count": len(targetIDs),
		"ids":   targetIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients, log)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		SignatureTTL:    cfg.SignatureTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"signature_ttl_seconds":    int(cfg.SignatureTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	client := inlink.NewClient(
		inlink.WithEndpoint(cfg.Endpoint),
		inlink.WithAPIToken(cfg.APIToken),
		inlink.WithHTTPClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		inlink.WithLogger(log),
	)
	pageClient := httpclient.NewLimitedRestyClient(cfg.RequestTimeout, crawler.MaxPageBytes)

	crawlService := crawler.NewService(client, fanout, log, store,
		crawler.WithFallbackScraper(crawler.NewScraper(pageClient), cfg.FallbackScrape),
	)

	return &Watcher{
		cfg:          cfg,
		targets:      enabledTargets,
		fanout:       fanout,
		crawler:      crawlService,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.crawler == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	if len(w.targets) == 0 {
		w.log.WarnObj("no enabled targets; watcher idle", "targets_file", w.cfg.TargetsFile)
		<-ctx.Done()
		return nil
	}

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"targets_count":    len(w.targets),
		"publishers_count": w.fanout.Size(),
		"poll_interval":    w.pollInterval.String(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single poll across all targets.
func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	w.log.InfoObj("poll started", "poll_meta", map[string]any{
		"targets_count": len(w.targets),
		"started_at":    start.UTC(),
	})
	if err := w.crawler.Run(ctx, w.targets); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	w.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"targets_count": len(w.targets),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the store and publishers, logging any errors encountered.
func (w *Watcher) close() {
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publisher close failed", "error", err)
	}
}
