// Package news implements the scoring, deduplication and selection pipeline
// that turns raw feed entries into breaking, digest and image posts.
package news

import "time"

// Item is a normalized feed entry. Immutable after normalization except for
// Score, which only the scorer assigns.
type Item struct {
	Title      string
	Link       string     // canonical URL, tracking params stripped; primary identity key
	Summary    string     // plain text, length-capped
	Published  *time.Time // nil when the source carried no parsable timestamp
	SourceHost string     // lowercased, without leading www.
	SourceName string     // feed/site title, falls back to SourceHost
	ImageURL   string

	Score    float64
	Priority bool // a live/launch priority word matched
}

// Urgency is an item's age tier, recomputed per evaluation and never stored.
type Urgency int

const (
	Stale Urgency = iota
	Fresh
	Breaking
	SuperBreaking
)

func (u Urgency) String() string {
	switch u {
	case SuperBreaking:
		return "super-breaking"
	case Breaking:
		return "breaking"
	case Fresh:
		return "fresh"
	default:
		return "stale"
	}
}

// Policy gathers the thresholds that varied across historical iterations of
// the bot. The zero value is unusable; use DefaultPolicy.
type Policy struct {
	Lookback            time.Duration
	SuperBreakingMaxAge time.Duration
	BreakingMaxAge      time.Duration
	DigestWindow        time.Duration
	DigestFallback      time.Duration
	DigestSize          int
	FlagshipMax         int
	AggregatorCap       int
	ImageWindow         time.Duration
	MinBreakingScore    float64
}

// DefaultPolicy returns the canonical thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Lookback:            48 * time.Hour,
		SuperBreakingMaxAge: 5 * time.Minute,
		BreakingMaxAge:      15 * time.Minute,
		DigestWindow:        24 * time.Hour,
		DigestFallback:      72 * time.Hour,
		DigestSize:          5,
		FlagshipMax:         3,
		AggregatorCap:       1,
		ImageWindow:         96 * time.Hour,
		MinBreakingScore:    1.6,
	}
}

// Age reports how old the item is at the given instant. Items without a
// timestamp report an age beyond any lookback window, never zero, so a feed
// with broken date fields can not look breaking.
func (it *Item) Age(now time.Time) time.Duration {
	if it.Published == nil {
		return time.Duration(1<<62 - 1)
	}
	return now.Sub(*it.Published)
}
