package news

import (
	"strings"
	"time"

	"github.com/redhorizon/rhnews/internal/rss"
)

// Signal is a very fresh social-feed entry used only to boost trusted
// breaking candidates. Signals never post on their own.
type Signal struct {
	Title     string
	Link      string
	Published time.Time
	words     []string // priority words found in the signal text
}

// Signals filters raw signal-feed entries down to the ones worth keeping:
// timestamped, inside the signal window, and mentioning a priority word.
func (r Rules) Signals(entries []rss.Entry, now time.Time, window time.Duration) []Signal {
	var out []Signal
	for _, e := range entries {
		ts := e.Published
		if ts == nil {
			ts = e.Updated
		}
		if ts == nil || now.Sub(*ts) > window {
			continue
		}
		text := strings.ToLower(e.Title + " " + e.Summary)
		var words []string
		for _, w := range r.PriorityWords {
			if strings.Contains(text, w) {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			continue
		}
		out = append(out, Signal{Title: e.Title, Link: e.Link, Published: *ts, words: words})
	}
	return out
}

// BoostFromSignals raises the score of pool items that share a priority word
// with at least one fresh signal. Each item is boosted at most once.
func (r Rules) BoostFromSignals(pool []*Item, signals []Signal) {
	if len(signals) == 0 {
		return
	}
	for _, it := range pool {
		text := strings.ToLower(it.Title + " " + it.Summary)
		if signalMatches(text, signals) {
			it.Score += signalBoost
		}
	}
}

func signalMatches(text string, signals []Signal) bool {
	for _, sig := range signals {
		for _, w := range sig.words {
			if strings.Contains(text, w) {
				return true
			}
		}
	}
	return false
}
