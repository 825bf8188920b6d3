package news

import "time"

// Classify returns the urgency tier of an item at the given instant. An item
// without a parsable timestamp is always Stale, so feeds with broken date
// fields can never trigger a breaking post. Future-dated items count as just
// published.
func Classify(it *Item, now time.Time, p Policy) Urgency {
	if it.Published == nil {
		return Stale
	}
	age := now.Sub(*it.Published)
	if age < 0 {
		age = 0
	}
	switch {
	case age <= p.SuperBreakingMaxAge:
		return SuperBreaking
	case age <= p.BreakingMaxAge:
		return Breaking
	case age <= p.Lookback:
		return Fresh
	default:
		return Stale
	}
}
