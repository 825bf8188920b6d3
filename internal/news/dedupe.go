package news

import (
	"net/url"
	"strings"
	"unicode"
)

// Dedupe collapses near-duplicate items to one representative each: the
// highest-scored one, tie-broken by newest published time. Three passes, in
// decreasing signal strength:
//
//  1. identical canonical link: always the same story
//  2. identical normalized title: the same headline re-reported by another
//     source (boilerplate words are stripped first so phrasing drift still
//     collides)
//  3. identical (host, url slug): the same article re-posted by one site
//     under a tweaked headline
//
// The operation is idempotent and order-independent on the output set.
func (r Rules) Dedupe(pool []*Item) []*Item {
	pool = collapseBy(pool, func(it *Item) string { return it.Link })
	pool = collapseBy(pool, func(it *Item) string { return r.NormalizeTitle(it.Title) })
	pool = collapseBy(pool, func(it *Item) string {
		slug := urlSlug(it.Link)
		if slug == "" {
			return "link:" + it.Link
		}
		return it.SourceHost + "|" + slug
	})
	return pool
}

// collapseBy keeps one representative per key, preserving first-seen key
// order so repeated runs yield identical output.
func collapseBy(pool []*Item, keyFn func(*Item) string) []*Item {
	best := make(map[string]*Item, len(pool))
	order := make([]string, 0, len(pool))

	for _, it := range pool {
		key := keyFn(it)
		cur, ok := best[key]
		if !ok {
			best[key] = it
			order = append(order, key)
			continue
		}
		if betterRepresentative(it, cur) {
			best[key] = it
		}
	}

	out := make([]*Item, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// betterRepresentative orders duplicates: higher score, then newer timestamp,
// then lexicographically smallest link. The link tie-break keeps the winner
// independent of input order even on exact ties.
func betterRepresentative(a, b *Item) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	switch {
	case a.Published == nil && b.Published != nil:
		return false
	case a.Published != nil && b.Published == nil:
		return true
	case a.Published != nil && !a.Published.Equal(*b.Published):
		return a.Published.After(*b.Published)
	}
	return a.Link < b.Link
}

// NormalizeTitle lowercases, strips punctuation, collapses whitespace and
// drops boilerplate stopwords, so headlines differing only in boilerplate
// phrasing produce the same key.
func (r Rules) NormalizeTitle(title string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(title) {
		if unicode.IsLetter(ch) || unicode.IsNumber(ch) || unicode.IsSpace(ch) {
			b.WriteRune(ch)
		} else {
			b.WriteRune(' ')
		}
	}

	stop := make(map[string]bool, len(r.TitleStopwords))
	for _, w := range r.TitleStopwords {
		stop[w] = true
	}

	words := strings.Fields(b.String())
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if stop[w] {
			continue
		}
		kept = append(kept, w)
	}
	// A title made entirely of stopwords still needs a stable key.
	if len(kept) == 0 {
		kept = words
	}
	return strings.Join(kept, " ")
}

// urlSlug returns the last non-empty path segment of a link, lowercased.
func urlSlug(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return strings.ToLower(segments[i])
		}
	}
	return ""
}
