package news

import "strings"

// Rules bundles the keyword tables and host weights driving scoring,
// deduplication and selection. Feed config may override any list; the
// defaults below are the canonical ones.
type Rules struct {
	Keywords       []string
	NegativeHints  []string
	PriorityWords  []string
	FlagshipWords  []string
	TitleStopwords []string

	Authority       map[string]float64
	AggregatorHosts []string
}

// DefaultRules returns the built-in term tables.
func DefaultRules() Rules {
	return Rules{
		Keywords: []string{
			"spacex", "starship", "starbase", "boca chica", "falcon 9", "falcon9", "falcon-9",
			"falcon heavy", "super heavy", "booster", "mechazilla", "chopsticks", "olm", "olp",
			"raptor", "merlin", "dragon", "crew dragon", "cargo dragon",
			"launch", "liftoff", "static fire", "hotfire", "wdr", "wet dress", "stack", "destack",
			"rollout", "rollback", "countdown", "premiere", "live", "pad", "orbital",
			"mars", "terraform", "habitat", "isru", "red planet", "jezero", "gale",
			"perseverance", "curiosity",
		},
		NegativeHints: []string{
			"opinion", "editorial", "sponsored", "newsletter", "podcast", "weekly", "roundup",
			"recap", "jobs", "hiring", "appointment", "promoted", "funding round", "earnings", "stock",
		},
		PriorityWords: []string{
			"launch", "liftoff", "static fire", "hotfire", "wdr", "wet dress", "stack", "destack",
			"rollout", "rollback", "countdown", "premiere", "live",
		},
		FlagshipWords: []string{
			"spacex", "starship", "falcon", "elon", "raptor", "starbase",
		},
		TitleStopwords: []string{
			"nasa", "esa", "spacex", "space", "news", "update", "launch", "the", "a", "an",
			"of", "to", "for", "on", "in", "and",
		},
		Authority: map[string]float64{
			"nasa.gov":            1.5,
			"science.nasa.gov":    1.5,
			"mars.nasa.gov":       1.5,
			"esa.int":             1.5,
			"nasaspaceflight.com": 1.2,
			"spaceflightnow.com":  1.2,
			"spacenews.com":       1.0,
			"arstechnica.com":     1.0,
			"universetoday.com":   1.0,
			"payloadspace.com":    1.0,
			"space.com":           1.0,
			"rocketlaunch.live":   1.0,
		},
		AggregatorHosts: []string{
			"reddit.com",
		},
	}
}

// Merge overlays non-empty config lists onto the defaults.
func (r Rules) Merge(keywords, negative, priority, flagship, stopwords, aggregators []string, authority map[string]float64) Rules {
	out := r
	if len(keywords) > 0 {
		out.Keywords = keywords
	}
	if len(negative) > 0 {
		out.NegativeHints = negative
	}
	if len(priority) > 0 {
		out.PriorityWords = priority
	}
	if len(flagship) > 0 {
		out.FlagshipWords = flagship
	}
	if len(stopwords) > 0 {
		out.TitleStopwords = stopwords
	}
	if len(aggregators) > 0 {
		out.AggregatorHosts = aggregators
	}
	if len(authority) > 0 {
		out.Authority = authority
	}
	return out
}

// AuthorityWeight looks up the trust weight for a host; unknown hosts weigh
// zero.
func (r Rules) AuthorityWeight(host string) float64 {
	return r.Authority[host]
}

// IsAggregator reports whether the host belongs to the low-trust aggregator
// category subject to the per-digest cap.
func (r Rules) IsAggregator(host string) bool {
	for _, agg := range r.AggregatorHosts {
		if host == agg || strings.HasSuffix(host, "."+agg) {
			return true
		}
	}
	return false
}

// IsFlagship reports whether the item matches the flagship-topic keyword set
// used for digest partitioning and breaking-news bias.
func (r Rules) IsFlagship(it *Item) bool {
	text := strings.ToLower(it.Title + " " + it.Summary)
	for _, w := range r.FlagshipWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
