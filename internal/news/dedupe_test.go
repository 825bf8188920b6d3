package news

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/redhorizon/rhnews/internal/rss"
)

func TestDedupeCollapsesIdenticalLinks(t *testing.T) {
	r := DefaultRules()
	a := &Item{Title: "Starship flight 12 wrap-up", Link: "https://a.example/x", SourceHost: "a.example", Score: 1}
	b := &Item{Title: "Flight 12: what we learned", Link: "https://a.example/x", SourceHost: "a.example", Score: 3}

	out := r.Dedupe([]*Item{a, b})
	require.Len(t, out, 1)
	require.Same(t, b, out[0])
}

func TestDedupeTrackingParamVariantsCollapse(t *testing.T) {
	r := DefaultRules()
	a := Normalize(rss.Entry{Title: "Crew-12 docks", Link: "https://a.example/x"})
	b := Normalize(rss.Entry{Title: "Crew-12 docks", Link: "https://a.example/x?utm_source=foo"})

	out := r.Dedupe([]*Item{a, b})
	require.Len(t, out, 1)
}

func TestDedupeCrossSourceSameHeadline(t *testing.T) {
	r := DefaultRules()
	now := time.Now().UTC()

	nasa := &Item{
		Title:      "NASA Confirms Launch Date",
		Link:       "https://nasa.gov/releases/confirms-date",
		SourceHost: "nasa.gov",
		Published:  timePtr(now.Add(-3 * time.Minute)),
		Score:      5.0,
	}
	outlet := &Item{
		Title:      "NASA confirms launch date!",
		Link:       "https://spacenews.com/nasa-confirms",
		SourceHost: "spacenews.com",
		Published:  timePtr(now.Add(-4 * time.Minute)),
		Score:      3.5,
	}

	out := r.Dedupe([]*Item{outlet, nasa})
	require.Len(t, out, 1)
	require.Same(t, nasa, out[0], "higher-scored duplicate must win")
}

func TestDedupeTieBrokenByNewest(t *testing.T) {
	r := DefaultRules()
	now := time.Now().UTC()

	older := &Item{Title: "Raptor test", Link: "https://a.example/1", SourceHost: "a.example",
		Published: timePtr(now.Add(-2 * time.Hour)), Score: 2}
	newer := &Item{Title: "Raptor test", Link: "https://b.example/2", SourceHost: "b.example",
		Published: timePtr(now.Add(-1 * time.Hour)), Score: 2}

	out := r.Dedupe([]*Item{older, newer})
	require.Len(t, out, 1)
	require.Same(t, newer, out[0])
}

func TestDedupeSameHostSlugCollapses(t *testing.T) {
	r := DefaultRules()
	a := &Item{Title: "Booster moved to pad", Link: "https://a.example/2026/03/booster-14-rollout", SourceHost: "a.example", Score: 2}
	b := &Item{Title: "Rollout underway for booster", Link: "https://a.example/amp/booster-14-rollout", SourceHost: "a.example", Score: 1}

	out := r.Dedupe([]*Item{a, b})
	require.Len(t, out, 1)
	require.Same(t, a, out[0])
}

func TestDedupeIdempotent(t *testing.T) {
	r := DefaultRules()
	pool := samplePool()

	once := r.Dedupe(pool)
	twice := r.Dedupe(once)
	require.Equal(t, once, twice)
}

func TestDedupeExactTiePicksSameRepresentativeEitherOrder(t *testing.T) {
	r := DefaultRules()
	now := time.Now().UTC()
	ts := timePtr(now.Add(-1 * time.Hour))

	a := &Item{Title: "Raptor test", Link: "https://a.example/1", SourceHost: "a.example", Published: ts, Score: 2}
	b := &Item{Title: "Raptor test", Link: "https://b.example/2", SourceHost: "b.example", Published: ts, Score: 2}

	forward := r.Dedupe([]*Item{a, b})
	reversed := r.Dedupe([]*Item{b, a})
	require.Len(t, forward, 1)
	require.Len(t, reversed, 1)
	require.Same(t, forward[0], reversed[0])

	// Same guarantee when neither duplicate carries a timestamp.
	c := &Item{Title: "Raptor test", Link: "https://c.example/3", SourceHost: "c.example", Score: 2}
	d := &Item{Title: "Raptor test", Link: "https://d.example/4", SourceHost: "d.example", Score: 2}
	require.Same(t, r.Dedupe([]*Item{c, d})[0], r.Dedupe([]*Item{d, c})[0])
}

func TestDedupeOrderIndependentOnOutputSet(t *testing.T) {
	r := DefaultRules()
	pool := samplePool()

	base := linkSet(r.Dedupe(pool))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := make([]*Item, len(pool))
		copy(shuffled, pool)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		require.Equal(t, base, linkSet(r.Dedupe(shuffled)))
	}
}

func samplePool() []*Item {
	now := time.Now().UTC()
	return []*Item{
		{Title: "Starship flight 12 recap", Link: "https://a.example/f12", SourceHost: "a.example", Published: timePtr(now.Add(-1 * time.Hour)), Score: 4},
		{Title: "Starship flight 12 recap", Link: "https://b.example/starship-12", SourceHost: "b.example", Published: timePtr(now.Add(-2 * time.Hour)), Score: 3},
		{Title: "ESA selects new astronaut class", Link: "https://c.example/astro", SourceHost: "c.example", Published: timePtr(now.Add(-5 * time.Hour)), Score: 2},
		{Title: "Mars helicopter sets record", Link: "https://d.example/heli", SourceHost: "d.example", Published: nil, Score: 1},
		{Title: "Mars helicopter sets record", Link: "https://d.example/heli", SourceHost: "d.example", Published: nil, Score: 1},
	}
}

func linkSet(items []*Item) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it.Link] = true
	}
	return set
}
