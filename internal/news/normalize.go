package news

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/redhorizon/rhnews/internal/rss"
)

const summaryMaxRunes = 320

var (
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	wsRe     = regexp.MustCompile(`\s+`)
	imgRe    = regexp.MustCompile(`(?i)(https?://\S+\.(?:jpg|jpeg|png|gif|webp))`)
	nonASCII = regexp.MustCompile(`[^\x00-\x7F]`)
)

// Normalize converts a raw feed entry into an Item. It returns nil when the
// entry is unusable: empty title or link after trimming, or text that fails
// the English heuristic.
func Normalize(e rss.Entry) *Item {
	title := strings.TrimSpace(e.Title)
	link := canonicalLink(strings.TrimSpace(e.Link))
	if title == "" || link == "" {
		return nil
	}

	summary := cleanText(e.Summary, summaryMaxRunes)
	if !looksEnglish(title) || !looksEnglish(summary) {
		return nil
	}

	host := hostOf(link)
	if host == "" {
		host = hostOf(e.FeedURL)
	}

	name := strings.TrimSpace(e.FeedTitle)
	if name == "" {
		name = host
	}

	published := e.Published
	if published == nil {
		published = e.Updated
	}

	return &Item{
		Title:      title,
		Link:       link,
		Summary:    summary,
		Published:  published,
		SourceHost: host,
		SourceName: name,
		ImageURL:   extractImage(e),
	}
}

// trackingParams are query keys stripped during link canonicalization so that
// otherwise identical links share one identity. Only unambiguous tracking
// keys qualify; short generic keys like "s" or "ref" carry real meaning on
// some CMSes and stay.
var trackingParams = map[string]bool{
	"fbclid": true,
	"gclid":  true,
}

func canonicalLink(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" {
		return link
	}
	q := u.Query()
	changed := false
	for key := range q {
		if trackingParams[key] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	u.Fragment = ""
	return u.String()
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// cleanText strips markup, unescapes entities, collapses whitespace and caps
// the result, marking truncation with an ellipsis.
func cleanText(s string, limit int) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "…"
	}
	return s
}

// looksEnglish is the crude heuristic carried over from the feed lists this
// bot watches: mostly-ASCII text passes, heavily non-Latin text does not.
func looksEnglish(text string) bool {
	if text == "" {
		return true
	}
	nonLatin := len(nonASCII.FindAllString(text, -1))
	threshold := len(text) / 12
	if threshold < 4 {
		threshold = 4
	}
	return nonLatin < threshold
}

// extractImage is best effort and never fails: a structured media field wins,
// then the first <img> in the raw summary markup, then any bare image URL.
func extractImage(e rss.Entry) string {
	if e.MediaURL != "" {
		return e.MediaURL
	}
	if e.Summary == "" {
		return ""
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(e.Summary)); err == nil {
		if src, ok := doc.Find("img[src]").First().Attr("src"); ok && strings.HasPrefix(src, "http") {
			return src
		}
	}
	if m := imgRe.FindString(e.Summary); m != "" {
		return m
	}
	return ""
}
