// Package blurb fetches a short descriptive text for an article URL. Best
// effort by contract: any failure yields an empty string, never an error.
package blurb

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/redhorizon/rhnews/internal/cache"
)

const (
	maxBlurbRunes = 300
	minParaRunes  = 80
	cacheTTL      = 6 * time.Hour
)

var wsRe = regexp.MustCompile(`\s+`)

// Fetcher retrieves and caches blurbs.
type Fetcher struct {
	client *http.Client
	cache  *cache.Cache
	log    *slog.Logger
}

func New(timeout time.Duration, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		cache:  cache.New(),
		log:    log,
	}
}

// Fetch returns a short blurb for the URL: the page's og:description when
// present, otherwise the first substantial paragraph. Empty on any failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	if url == "" {
		return ""
	}
	if cached, ok := f.cache.Get(url); ok {
		return cached
	}

	text := f.scrape(ctx, url)
	f.cache.Set(url, text, cacheTTL)
	return text
}

func (f *Fetcher) scrape(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Debug("blurb fetch failed", "url", url, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		if clean := tidy(desc); clean != "" {
			return clean
		}
	}

	var para string
	doc.Find("article p, main p, p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := tidy(sel.Text())
		if len([]rune(text)) >= minParaRunes {
			para = text
			return false
		}
		return true
	})
	return para
}

func tidy(s string) string {
	s = strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
	runes := []rune(s)
	if len(runes) > maxBlurbRunes {
		return string(runes[:maxBlurbRunes]) + "…"
	}
	return s
}
