package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redhorizon/rhnews/internal/format"
	"github.com/redhorizon/rhnews/internal/metrics"
	"github.com/redhorizon/rhnews/internal/news"
	"github.com/redhorizon/rhnews/internal/retry"
	"github.com/redhorizon/rhnews/internal/telegram"
)

// runBreaking posts up to two breaking items. Social-signal feeds only boost
// scores; they never post on their own.
func (a *App) runBreaking(ctx context.Context) (Result, error) {
	now := time.Now().UTC()
	pool := a.pool(ctx, a.feeds.NewsFeeds)

	if len(a.feeds.SignalFeeds) > 0 {
		signalEntries := a.fetcher.FetchAll(ctx, a.feeds.SignalFeeds)
		signals := a.rules.Signals(signalEntries, now, a.cfg.SignalWindow)
		a.rules.BoostFromSignals(pool, signals)
		a.log.Debug("signals applied", "signals", len(signals))
	}

	picked := a.selector.Breaking(pool, now)
	if len(picked) == 0 {
		a.log.Info("no breaking items")
		return ResultNoPost, nil
	}

	// A failure after the first successful post still reports ResultPosted,
	// since a message did reach the channel.
	posted := 0
	result := func() Result {
		if posted > 0 {
			return ResultPosted
		}
		return ResultNoPost
	}
	for _, it := range picked {
		if !a.limiter.Allow("breaking") {
			break
		}
		body := format.Breaking(it, append([]string{"Breaking"}, a.feeds.DefaultTags...))
		buttons := []telegram.Button{
			{Label: "Open", URL: it.Link},
			{Label: "Discuss on X", URL: a.cfg.DiscussURL},
		}
		if err := a.publish(ctx, it.ImageURL, body, buttons); err != nil {
			return result(), err
		}
		if err := a.mark(ctx, it.Link, "breaking", it); err != nil {
			return result(), err
		}
		posted++
	}

	a.log.Info("breaking run complete", "posted", posted, "budget_used", a.limiter.Count("breaking"))
	return result(), nil
}

// runDigest posts the daily five-story digest. The hero image, when present,
// goes out first with the header as caption, followed by the item list.
func (a *App) runDigest(ctx context.Context) (Result, error) {
	now := time.Now().UTC()
	pool := a.pool(ctx, a.feeds.NewsFeeds)

	sel := a.selector.Digest(pool, now)
	if sel == nil {
		a.log.Info("no digest items")
		return ResultNoPost, nil
	}
	a.log.Info("digest selected", "items", len(sel.Items), "window", sel.Window)

	// Fill empty summaries from the article pages, best effort.
	for _, it := range sel.Items {
		if it.Summary == "" {
			it.Summary = a.blurbs.Fetch(ctx, it.Link)
		}
	}

	body := format.Digest(sel, now, a.cfg.DiscussURL, a.feeds.DefaultTags)
	hero := sel.Hero()
	buttons := []telegram.Button{
		{Label: "Open top story", URL: hero.Link},
		{Label: "Discuss on X", URL: a.cfg.DiscussURL},
	}

	if !a.limiter.Allow("digest") {
		return ResultNoPost, nil
	}
	if err := a.publish(ctx, hero.ImageURL, body, buttons); err != nil {
		return ResultNoPost, err
	}
	for _, it := range sel.Items {
		if err := a.mark(ctx, it.Link, "digest", it); err != nil {
			return ResultPosted, err
		}
	}

	a.mirrorToWebhook(ctx, body)
	return ResultPosted, nil
}

// runImage posts the newest unseen image, avoiding the previous post's host
// when an alternative exists.
func (a *App) runImage(ctx context.Context) (Result, error) {
	now := time.Now().UTC()
	pool := a.pool(ctx, a.feeds.ImageFeeds)

	it := a.selector.Image(pool, now, a.seen.LastHost("image"))
	if it == nil {
		a.log.Info("no image to post")
		return ResultNoPost, nil
	}

	if !a.limiter.Allow("image") {
		return ResultNoPost, nil
	}
	caption := format.ImageCaption(it, a.feeds.DefaultTags)
	buttons := []telegram.Button{{Label: "Source", URL: it.Link}}

	if err := a.publishPhoto(ctx, it.ImageURL, caption, buttons); err != nil {
		return ResultNoPost, err
	}
	if err := a.mark(ctx, it.ImageURL, "image", it); err != nil {
		return ResultNoPost, err
	}
	return ResultPosted, nil
}

func (a *App) runWelcome(ctx context.Context) (Result, error) {
	if !a.limiter.Allow("welcome") {
		return ResultNoPost, nil
	}
	if err := a.publishText(ctx, format.Welcome(a.cfg.DiscussURL), nil); err != nil {
		return ResultNoPost, err
	}
	return ResultPosted, nil
}

// publish tries the photo variant first when an image exists and falls back
// to a text-only message when the photo publish fails.
func (a *App) publish(ctx context.Context, imageURL, body string, buttons []telegram.Button) error {
	if imageURL != "" {
		if err := a.publishPhoto(ctx, imageURL, format.Clamp(body, format.MaxCaption), buttons); err == nil {
			return nil
		}
		a.log.Warn("photo publish failed, falling back to text", "image", imageURL)
	}
	return a.publishText(ctx, body, buttons)
}

func (a *App) publishText(ctx context.Context, text string, buttons []telegram.Button) error {
	err := retry.Do(ctx, a.retryConfig(), func() error {
		return a.tg.SendMessage(ctx, text, buttons)
	})
	if err == nil {
		metrics.Global.IncrementPostsSent()
	}
	return err
}

func (a *App) publishPhoto(ctx context.Context, photoURL, caption string, buttons []telegram.Button) error {
	err := retry.Do(ctx, a.retryConfig(), func() error {
		return a.tg.SendPhoto(ctx, photoURL, caption, buttons)
	})
	if err == nil {
		metrics.Global.IncrementPostsSent()
	}
	return err
}

func (a *App) mark(ctx context.Context, key, kind string, it *news.Item) error {
	return retry.Do(ctx, a.retryConfig(), func() error {
		return a.seen.Mark(key, kind, it.Title, it.SourceHost)
	})
}

func (a *App) retryConfig() retry.Config {
	return retry.Config{
		MaxAttempts: a.cfg.RetryAttempts,
		Delay:       a.cfg.RetryDelay,
		Backoff:     true,
		MaxDelay:    30 * time.Second,
	}
}

// mirrorToWebhook POSTs the digest text to the configured webhook. Failures
// are logged and never fail the task.
func (a *App) mirrorToWebhook(ctx context.Context, text string) {
	if a.cfg.ZapierHookURL == "" {
		return
	}
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.ZapierHookURL, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		a.log.Warn("webhook mirror failed", "error", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		a.log.Warn("webhook mirror rejected", "status", resp.StatusCode)
	}
}
