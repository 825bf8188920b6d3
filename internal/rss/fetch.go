package rss

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
)

// Fetcher downloads and parses feeds. Each feed is fetched under its own
// timeout so one unreachable host can not stall a run, and a broken feed only
// costs its own entries.
type Fetcher struct {
	client     *http.Client
	timeout    time.Duration
	maxPerFeed int
	log        *slog.Logger
}

// NewFetcher builds a Fetcher with a per-feed timeout and a cap on entries
// taken from each feed.
func NewFetcher(timeout time.Duration, maxPerFeed int, log *slog.Logger) *Fetcher {
	if maxPerFeed <= 0 {
		maxPerFeed = 25
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		timeout:    timeout,
		maxPerFeed: maxPerFeed,
		log:        log,
	}
}

// FetchAll fetches every feed concurrently and merges the entries. Per-feed
// failures are logged and skipped; the error count is only informational.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []Entry {
	var (
		mu      sync.Mutex
		entries []Entry
		wg      sync.WaitGroup
		failed  int
	)

	for _, feedURL := range urls {
		wg.Add(1)
		go func(feedURL string) {
			defer wg.Done()

			got, err := f.fetchOne(ctx, feedURL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				f.log.Warn("feed fetch failed", "url", feedURL, "error", err)
				return
			}
			entries = append(entries, got...)
		}(feedURL)
	}
	wg.Wait()

	f.log.Info("feeds fetched", "feeds", len(urls), "failed", failed, "entries", len(entries))
	return entries
}

func (f *Fetcher) fetchOne(ctx context.Context, feedURL string) ([]Entry, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parser := gofeed.NewParser()
	parser.Client = f.client

	feed, err := parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if len(items) > f.maxPerFeed {
		items = items[:f.maxPerFeed]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, entryFromItem(item, feedURL, feed.Title))
	}
	f.log.Debug("feed fetched", "url", feedURL, "entries", len(entries))
	return entries, nil
}

func entryFromItem(item *gofeed.Item, feedURL, feedTitle string) Entry {
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	return Entry{
		Title:     item.Title,
		Link:      item.Link,
		Summary:   summary,
		Published: item.PublishedParsed,
		Updated:   item.UpdatedParsed,
		MediaURL:  mediaURL(item),
		FeedURL:   feedURL,
		FeedTitle: feedTitle,
	}
}

// mediaURL pulls a structured image reference out of a gofeed item: the
// item image, a media:content/media:thumbnail extension, or an image
// enclosure, in that order.
func mediaURL(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc.URL != "" && len(enc.Type) >= 5 && enc.Type[:5] == "image" {
			return enc.URL
		}
	}
	return ""
}
