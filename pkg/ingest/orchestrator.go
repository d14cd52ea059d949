package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/sync/errgroup"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// Orchestrator drives one ingestion cycle: sweep expired articles, then fan
// out over the feed registry fetching, extracting, normalizing and upserting.
// Feed failures are counted, never propagated; one unreachable or slow feed
// must not block or fail the overall sync.
type Orchestrator struct {
	store      ArticleStore
	fetcher    Fetcher
	extractor  Extractor
	normalizer Normalizer

	registry     []domain.FeedSource
	perFeedLimit int
	maxWorkers   int
	retention    time.Duration
	retryFunc    func(ctx context.Context, operation func() error) error
}

// ArticleStore is the persistence surface the orchestrator writes to
type ArticleStore interface {
	UpsertArticle(ctx context.Context, article *domain.Article) error
	DeleteOldArticles(ctx context.Context, retention time.Duration) (int64, error)
}

// Fetcher retrieves a raw feed body
type Fetcher interface {
	Fetch(ctx context.Context, src domain.FeedSource) (string, error)
}

// Extractor pulls raw items out of a feed body
type Extractor interface {
	Extract(body string) []domain.RawFeedItem
}

// Normalizer converts raw items into articles
type Normalizer interface {
	Normalize(item domain.RawFeedItem, src domain.FeedSource) domain.Article
}

// Config holds orchestrator configuration
type Config struct {
	Store        ArticleStore
	Fetcher      Fetcher
	Extractor    Extractor
	Normalizer   Normalizer
	Registry     []domain.FeedSource
	PerFeedLimit int
	MaxWorkers   int
	Retention    time.Duration
	RetryFunc    func(ctx context.Context, operation func() error) error
}

// NewOrchestrator creates an ingestion orchestrator
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.PerFeedLimit == 0 {
		cfg.PerFeedLimit = 3
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 10
	}
	if cfg.Retention == 0 {
		cfg.Retention = 48 * time.Hour
	}
	if cfg.RetryFunc == nil {
		cfg.RetryFunc = func(ctx context.Context, operation func() error) error {
			retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
			return retrier.Do(ctx, operation)
		}
	}

	return &Orchestrator{
		store:        cfg.Store,
		fetcher:      cfg.Fetcher,
		extractor:    cfg.Extractor,
		normalizer:   cfg.Normalizer,
		registry:     cfg.Registry,
		perFeedLimit: cfg.PerFeedLimit,
		maxWorkers:   cfg.MaxWorkers,
		retention:    cfg.Retention,
		retryFunc:    cfg.RetryFunc,
	}
}

// Sync runs one full ingestion cycle and returns the aggregate run summary.
// The retention sweep runs once up front regardless of how the fetch phase
// goes. Feeds are processed concurrently up to MaxWorkers.
func (o *Orchestrator) Sync(ctx context.Context) domain.SyncStats {
	started := time.Now()
	stats := domain.SyncStats{TotalFeeds: len(o.registry)}

	deleted, err := o.store.DeleteOldArticles(ctx, o.retention)
	if err != nil {
		lgr.Printf("[WARN] retention sweep failed: %v", err)
	} else {
		stats.OldArticlesDeleted = int(deleted)
		if deleted > 0 {
			lgr.Printf("[INFO] retention sweep removed %d articles", deleted)
		}
	}

	lgr.Printf("[INFO] syncing %d feeds", len(o.registry))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxWorkers)

	for _, src := range o.registry {
		g.Go(func() error {
			written := o.syncFeed(gctx, src)

			mu.Lock()
			defer mu.Unlock()
			if written > 0 {
				stats.SuccessfulFeeds++
				stats.TotalArticles += written
			} else {
				stats.FailedFeeds++
			}
			return nil
		})
	}

	_ = g.Wait() // per-feed errors are swallowed, workers never return one

	lgr.Printf("[INFO] sync completed in %v: %d articles from %d/%d feeds, %d failed",
		time.Since(started).Round(time.Millisecond), stats.TotalArticles,
		stats.SuccessfulFeeds, stats.TotalFeeds, stats.FailedFeeds)

	return stats
}

// syncFeed processes a single feed and returns the number of articles
// written. Every failure mode yields zero and a log line, nothing more.
func (o *Orchestrator) syncFeed(ctx context.Context, src domain.FeedSource) int {
	body, err := o.fetcher.Fetch(ctx, src)
	if err != nil {
		lgr.Printf("[WARN] failed to fetch feed %s: %v", src.Source, err)
		return 0
	}

	items := o.extractor.Extract(body)
	if len(items) == 0 {
		lgr.Printf("[WARN] no parseable items in feed %s", src.Source)
		return 0
	}

	// load shedding, not a quality filter: take the first few items only
	if len(items) > o.perFeedLimit {
		items = items[:o.perFeedLimit]
	}

	written := 0
	for _, item := range items {
		article := o.normalizer.Normalize(item, src)

		// retry on SQLite lock errors
		upsertErr := o.retryFunc(ctx, func() error {
			return o.store.UpsertArticle(ctx, &article)
		})
		if upsertErr != nil {
			lgr.Printf("[WARN] failed to store article %s from feed %s: %v", article.ID, src.Source, upsertErr)
			continue
		}
		written++
	}

	lgr.Printf("[DEBUG] feed %s yielded %d articles", src.Source, written)
	return written
}
