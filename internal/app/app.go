// Package app wires the pipeline together and runs one task per invocation.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redhorizon/rhnews/internal/blurb"
	"github.com/redhorizon/rhnews/internal/config"
	"github.com/redhorizon/rhnews/internal/logger"
	"github.com/redhorizon/rhnews/internal/metrics"
	"github.com/redhorizon/rhnews/internal/news"
	"github.com/redhorizon/rhnews/internal/ratelimit"
	"github.com/redhorizon/rhnews/internal/rss"
	"github.com/redhorizon/rhnews/internal/telegram"
)

// Result is the tri-state task outcome. Errors are returned separately and
// only when the seen-store or publisher failed.
type Result string

const (
	ResultPosted Result = "ok"
	ResultNoPost Result = "no-post"
)

// publisher is the channel-facing side of the Telegram client.
type publisher interface {
	SendMessage(ctx context.Context, text string, buttons []telegram.Button) error
	SendPhoto(ctx context.Context, photoURL, caption string, buttons []telegram.Button) error
}

// App holds the wired collaborators for one invocation.
type App struct {
	cfg      *config.Config
	feeds    *rss.Config
	rules    news.Rules
	selector *news.Selector
	fetcher  *rss.Fetcher
	seen     SeenStore
	tg       publisher
	blurbs   *blurb.Fetcher
	limiter  *ratelimit.Limiter
	log      *slog.Logger
}

// New loads the feed configuration and connects the collaborators.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	feeds, err := rss.LoadConfig(cfg.FeedsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}

	rules := news.DefaultRules().Merge(
		feeds.Keywords, feeds.NegativeHints, feeds.PriorityWords,
		feeds.FlagshipWords, feeds.TitleStopwords, feeds.AggregatorHosts,
		feeds.Authority,
	)

	policy := news.DefaultPolicy()
	policy.Lookback = time.Duration(cfg.LookbackHours) * time.Hour
	policy.SuperBreakingMaxAge = cfg.SuperBreakingMaxAge
	policy.BreakingMaxAge = cfg.BreakingMaxAge
	policy.DigestWindow = time.Duration(cfg.DigestWindowHours) * time.Hour
	policy.DigestFallback = time.Duration(cfg.DigestFallbackHours) * time.Hour
	policy.DigestSize = cfg.DigestSize
	policy.FlagshipMax = cfg.DigestFlagshipMax
	policy.AggregatorCap = cfg.AggregatorCap
	policy.ImageWindow = time.Duration(cfg.ImageWindowHours) * time.Hour
	policy.MinBreakingScore = cfg.MinBreakingScore

	seen, err := openSeenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open seen-store: %w", err)
	}

	return &App{
		cfg:      cfg,
		feeds:    feeds,
		rules:    rules,
		selector: &news.Selector{Rules: rules, Policy: policy, Seen: seen},
		fetcher:  rss.NewFetcher(cfg.RequestTimeout, cfg.MaxPerFeed, logger.With(log, "rss")),
		seen:     seen,
		tg:       telegram.New(cfg.TelegramToken, cfg.TelegramChatID, cfg.RequestTimeout, logger.With(log, "telegram")),
		blurbs:   blurb.New(cfg.RequestTimeout, logger.With(log, "blurb")),
		limiter:  ratelimit.New(cfg.MaxPostsPerDay, logger.With(log, "ratelimit")),
		log:      logger.With(log, "app"),
	}, nil
}

// Run executes the configured task once.
func (a *App) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	defer func() { metrics.Global.RecordRun(time.Since(start)) }()

	var (
		res Result
		err error
	)
	switch a.cfg.Task {
	case "breaking":
		res, err = a.runBreaking(ctx)
	case "digest":
		res, err = a.runDigest(ctx)
	case "image":
		res, err = a.runImage(ctx)
	case "welcome":
		res, err = a.runWelcome(ctx)
	default:
		return ResultNoPost, fmt.Errorf("unknown task %q", a.cfg.Task)
	}

	if err != nil {
		metrics.Global.RecordError(err)
		return res, err
	}
	if res == ResultNoPost {
		metrics.Global.IncrementNoPostRuns()
	}
	a.log.Info("task finished", "task", a.cfg.Task, "result", string(res))
	return res, nil
}

// Close releases the seen-store.
func (a *App) Close() error {
	return a.seen.Close()
}

// pool fetches the given feeds and runs the pure pipeline stages on them:
// normalize, score, dedupe. Per-feed and per-entry failures only shrink the
// pool.
func (a *App) pool(ctx context.Context, urls []string) []*news.Item {
	entries := a.fetcher.FetchAll(ctx, urls)
	metrics.Global.AddEntriesProcessed(len(entries))

	items := make([]*news.Item, 0, len(entries))
	rejected := 0
	for _, e := range entries {
		it := news.Normalize(e)
		if it == nil {
			rejected++
			continue
		}
		items = append(items, it)
	}
	metrics.Global.AddItemsRejected(rejected)

	a.rules.ScoreAll(items)
	deduped := a.rules.Dedupe(items)
	metrics.Global.AddDuplicatesFiltered(len(items) - len(deduped))

	a.log.Debug("pool built",
		"entries", len(entries), "rejected", rejected,
		"items", len(items), "after_dedupe", len(deduped))
	return deduped
}
