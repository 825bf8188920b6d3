package news

import (
	"sort"
	"strings"
	"time"
)

// Seen is the read side of the seen-store: membership of previously posted
// link or image URLs.
type Seen interface {
	Contains(key string) bool
}

// Selector turns a scored, deduplicated pool into per-task output lists. It
// holds no state beyond the injected seen-store.
type Selector struct {
	Rules  Rules
	Policy Policy
	Seen   Seen
}

// digestMin is the minimum digest length below which the wider fallback
// window is tried.
const digestMin = 3

// Breaking selects up to two items eligible for an urgent post: urgency in
// the breaking tiers, from a trusted source (nonzero authority) or above the
// score threshold, not yet posted. Ranked by flagship bias, then score, then
// recency.
func (s *Selector) Breaking(pool []*Item, now time.Time) []*Item {
	var candidates []*Item
	for _, it := range pool {
		u := Classify(it, now, s.Policy)
		if u != Breaking && u != SuperBreaking {
			continue
		}
		if s.Rules.AuthorityWeight(it.SourceHost) <= 0 && it.Score < s.Policy.MinBreakingScore {
			continue
		}
		if s.Seen.Contains(it.Link) {
			continue
		}
		candidates = append(candidates, it)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		fa, fb := s.Rules.IsFlagship(a), s.Rules.IsFlagship(b)
		if fa != fb {
			return fa
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return newerFirst(a, b)
	})

	if len(candidates) > 2 {
		candidates = candidates[:2]
	}
	return candidates
}

// DigestSelection is the ordered result of the digest task. The first item is
// the hero and carries the illustrative image when it has one.
type DigestSelection struct {
	Items  []*Item
	Window time.Duration // the window that actually produced the list
}

// Hero returns the top-ranked digest item, or nil for an empty selection.
func (d *DigestSelection) Hero() *Item {
	if d == nil || len(d.Items) == 0 {
		return nil
	}
	return d.Items[0]
}

// Digest builds the daily digest: up to FlagshipMax flagship-topic items
// followed by the best of the rest, at most AggregatorCap items from
// aggregator hosts, DigestSize items total. When the primary window yields
// fewer than digestMin items the fallback window is tried exactly once.
// Returns nil when nothing qualifies.
func (s *Selector) Digest(pool []*Item, now time.Time) *DigestSelection {
	if out := s.digestWindow(pool, now, s.Policy.DigestWindow); len(out) >= digestMin {
		return &DigestSelection{Items: out, Window: s.Policy.DigestWindow}
	}
	if out := s.digestWindow(pool, now, s.Policy.DigestFallback); len(out) > 0 {
		return &DigestSelection{Items: out, Window: s.Policy.DigestFallback}
	}
	return nil
}

func (s *Selector) digestWindow(pool []*Item, now time.Time, window time.Duration) []*Item {
	var flagship, other []*Item
	for _, it := range pool {
		if it.Published == nil || now.Sub(*it.Published) > window {
			continue
		}
		if s.Seen.Contains(it.Link) {
			continue
		}
		if s.Rules.IsFlagship(it) {
			flagship = append(flagship, it)
		} else {
			other = append(other, it)
		}
	}

	rankDigest(flagship)
	rankDigest(other)

	out := make([]*Item, 0, s.Policy.DigestSize)
	aggregators := 0
	take := func(it *Item) bool {
		if s.Rules.IsAggregator(it.SourceHost) {
			if aggregators >= s.Policy.AggregatorCap {
				return false // hard cap: skipped, not merely down-ranked
			}
			aggregators++
		}
		out = append(out, it)
		return true
	}

	for _, it := range flagship {
		if len(out) >= s.Policy.FlagshipMax || len(out) >= s.Policy.DigestSize {
			break
		}
		take(it)
	}
	for _, it := range other {
		if len(out) >= s.Policy.DigestSize {
			break
		}
		take(it)
	}
	return out
}

func rankDigest(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return newerFirst(items[i], items[j])
	})
}

// Image picks the newest item with an unseen image URL inside the image
// window. Repeating the previous post's source host is avoided only when an
// alternative exists.
func (s *Selector) Image(pool []*Item, now time.Time, previousHost string) *Item {
	var candidates []*Item
	for _, it := range pool {
		if it.ImageURL == "" || it.Published == nil {
			continue
		}
		if now.Sub(*it.Published) > s.Policy.ImageWindow {
			continue
		}
		if s.Seen.Contains(it.ImageURL) {
			continue
		}
		candidates = append(candidates, it)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return newerFirst(candidates[i], candidates[j])
	})

	if previousHost != "" {
		for _, it := range candidates {
			if it.SourceHost != previousHost {
				return it
			}
		}
	}
	return candidates[0]
}

func newerFirst(a, b *Item) bool {
	switch {
	case a.Published == nil:
		return false
	case b.Published == nil:
		return true
	default:
		return a.Published.After(*b.Published)
	}
}

// Excerpt returns the one-sentence blurb shown under a digest item: the first
// sentence of the summary, or the first words of the title when the summary
// is missing, too short, or looks like an image credit line.
func Excerpt(it *Item) string {
	const (
		minSentenceRunes = 30
		titleWordCap     = 26
	)

	sentence := firstSentence(it.Summary)
	if len([]rune(sentence)) >= minSentenceRunes && !looksLikeCredit(sentence) {
		return sentence
	}

	words := strings.Fields(it.Title)
	if len(words) > titleWordCap {
		return strings.Join(words[:titleWordCap], " ") + "…"
	}
	return it.Title
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if idx := strings.IndexAny(text, ".!?"); idx > 0 {
		return strings.TrimSpace(text[:idx+1])
	}
	return text
}

var creditMarkers = []string{"image credit", "photo credit", "credit:", "courtesy of"}

func looksLikeCredit(s string) bool {
	low := strings.ToLower(s)
	for _, m := range creditMarkers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}
