package news

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSeen map[string]bool

func (f fakeSeen) Contains(key string) bool { return f[key] }

func newSelector(seen fakeSeen) *Selector {
	return &Selector{Rules: DefaultRules(), Policy: DefaultPolicy(), Seen: seen}
}

func freshItem(link, host string, age time.Duration, score float64) *Item {
	ts := time.Now().UTC().Add(-age)
	return &Item{
		Title:      "Item at " + link,
		Link:       link,
		SourceHost: host,
		SourceName: host,
		Published:  &ts,
		Score:      score,
	}
}

func TestBreakingCapsAtTwo(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	var pool []*Item
	for i := 0; i < 5; i++ {
		pool = append(pool, freshItem(fmt.Sprintf("https://nasa.gov/%d", i), "nasa.gov", 2*time.Minute, float64(i)))
	}

	out := s.Breaking(pool, now)
	require.Len(t, out, 2)
	require.Equal(t, "https://nasa.gov/4", out[0].Link)
	require.Equal(t, "https://nasa.gov/3", out[1].Link)
}

func TestBreakingExcludesStaleAndFresh(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	pool := []*Item{
		freshItem("https://nasa.gov/old", "nasa.gov", 2*time.Hour, 9),
		freshItem("https://nasa.gov/new", "nasa.gov", 4*time.Minute, 1),
	}

	out := s.Breaking(pool, now)
	require.Len(t, out, 1)
	require.Equal(t, "https://nasa.gov/new", out[0].Link)
}

func TestBreakingRequiresTrustOrScore(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	untrusted := freshItem("https://randomblog.example/a", "randomblog.example", 3*time.Minute, 0.5)
	scoredEnough := freshItem("https://randomblog.example/b", "randomblog.example", 3*time.Minute, 2.5)
	trusted := freshItem("https://nasa.gov/c", "nasa.gov", 3*time.Minute, 0.5)

	out := s.Breaking([]*Item{untrusted, scoredEnough, trusted}, now)
	require.Len(t, out, 2)
	for _, it := range out {
		require.NotEqual(t, untrusted.Link, it.Link)
	}
}

func TestBreakingSkipsSeenAndMayGoEmpty(t *testing.T) {
	seen := fakeSeen{"https://nasa.gov/x": true}
	s := newSelector(seen)
	now := time.Now().UTC()

	pool := []*Item{freshItem("https://nasa.gov/x", "nasa.gov", 3*time.Minute, 5)}
	require.Empty(t, s.Breaking(pool, now))
}

func TestBreakingFlagshipBiasBeatsScore(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	general := freshItem("https://nasa.gov/general", "nasa.gov", 3*time.Minute, 9)
	flagship := freshItem("https://nasa.gov/flagship", "nasa.gov", 3*time.Minute, 4)
	flagship.Title = "Starship cleared for flight"

	out := s.Breaking([]*Item{general, flagship}, now)
	require.Len(t, out, 2)
	require.Same(t, flagship, out[0])
}

func TestDigestAggregatorHardCap(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	pool := []*Item{
		freshItem("https://reddit.com/r/space/1", "reddit.com", 2*time.Hour, 9),
		freshItem("https://reddit.com/r/space/2", "reddit.com", 3*time.Hour, 8),
		freshItem("https://spacenews.com/a", "spacenews.com", 4*time.Hour, 3),
		freshItem("https://esa.int/b", "esa.int", 5*time.Hour, 2),
		freshItem("https://nasa.gov/c", "nasa.gov", 6*time.Hour, 1),
	}

	sel := s.Digest(pool, now)
	require.NotNil(t, sel)

	aggregators := 0
	for _, it := range sel.Items {
		if s.Rules.IsAggregator(it.SourceHost) {
			aggregators++
		}
	}
	require.Equal(t, 1, aggregators)
	require.Len(t, sel.Items, 4, "second aggregator item is skipped, not replaced")
}

func TestDigestSmallPoolKeepsEverything(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	pool := []*Item{
		freshItem("https://spacenews.com/a", "spacenews.com", 2*time.Hour, 4),
		freshItem("https://esa.int/b", "esa.int", 3*time.Hour, 3),
		freshItem("https://reddit.com/r/space/c", "reddit.com", 4*time.Hour, 2),
		freshItem("https://universetoday.com/d", "universetoday.com", 5*time.Hour, 1),
	}

	sel := s.Digest(pool, now)
	require.NotNil(t, sel)
	require.Len(t, sel.Items, 4)
}

func TestDigestFlagshipItemsLeadTheList(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	starship := freshItem("https://nasaspaceflight.com/ss", "nasaspaceflight.com", 2*time.Hour, 1)
	starship.Title = "Starship stacking resumes"
	general := freshItem("https://esa.int/g", "esa.int", 1*time.Hour, 9)
	filler := freshItem("https://spacenews.com/f", "spacenews.com", 3*time.Hour, 5)

	sel := s.Digest([]*Item{general, starship, filler}, now)
	require.NotNil(t, sel)
	require.Same(t, starship, sel.Items[0], "flagship partition fills first")
}

func TestDigestFallbackWidensOnce(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	// Only two items inside 24h, three more between 24h and 72h.
	pool := []*Item{
		freshItem("https://spacenews.com/a", "spacenews.com", 2*time.Hour, 5),
		freshItem("https://esa.int/b", "esa.int", 20*time.Hour, 4),
		freshItem("https://nasa.gov/c", "nasa.gov", 30*time.Hour, 3),
		freshItem("https://universetoday.com/d", "universetoday.com", 40*time.Hour, 2),
		freshItem("https://arstechnica.com/e", "arstechnica.com", 60*time.Hour, 1),
	}

	sel := s.Digest(pool, now)
	require.NotNil(t, sel)
	require.Equal(t, s.Policy.DigestFallback, sel.Window)
	require.Len(t, sel.Items, 5)
}

func TestDigestPrimaryWindowWhenEnough(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	pool := []*Item{
		freshItem("https://spacenews.com/a", "spacenews.com", 1*time.Hour, 3),
		freshItem("https://esa.int/b", "esa.int", 2*time.Hour, 2),
		freshItem("https://nasa.gov/c", "nasa.gov", 3*time.Hour, 1),
	}

	sel := s.Digest(pool, now)
	require.NotNil(t, sel)
	require.Equal(t, s.Policy.DigestWindow, sel.Window)
}

func TestDigestEmptyPoolIsNoPost(t *testing.T) {
	s := newSelector(fakeSeen{})
	require.Nil(t, s.Digest(nil, time.Now().UTC()))
}

func TestImagePicksNewestUnseen(t *testing.T) {
	seen := fakeSeen{"https://img.example/seen.jpg": true}
	s := newSelector(seen)
	now := time.Now().UTC()

	newest := freshItem("https://apod.nasa.gov/today", "apod.nasa.gov", 2*time.Hour, 0)
	newest.ImageURL = "https://img.example/seen.jpg"
	older := freshItem("https://esahubble.org/potw", "esahubble.org", 10*time.Hour, 0)
	older.ImageURL = "https://img.example/fresh.jpg"
	noImage := freshItem("https://esa.int/none", "esa.int", 1*time.Hour, 0)

	got := s.Image([]*Item{newest, older, noImage}, now, "")
	require.Same(t, older, got)
}

func TestImageAvoidsPreviousHostWhenPossible(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	a := freshItem("https://apod.nasa.gov/a", "apod.nasa.gov", 1*time.Hour, 0)
	a.ImageURL = "https://img.example/a.jpg"
	b := freshItem("https://esahubble.org/b", "esahubble.org", 2*time.Hour, 0)
	b.ImageURL = "https://img.example/b.jpg"

	require.Same(t, b, s.Image([]*Item{a, b}, now, "apod.nasa.gov"))

	// Soft constraint: when every candidate shares the host, post anyway.
	require.Same(t, a, s.Image([]*Item{a}, now, "apod.nasa.gov"))
}

func TestImageNothingQualifiesIsNoPost(t *testing.T) {
	s := newSelector(fakeSeen{})
	now := time.Now().UTC()

	tooOld := freshItem("https://apod.nasa.gov/x", "apod.nasa.gov", 200*time.Hour, 0)
	tooOld.ImageURL = "https://img.example/x.jpg"

	require.Nil(t, s.Image([]*Item{tooOld}, now, ""))
}

func TestExcerptUsesFirstSentence(t *testing.T) {
	it := &Item{
		Title:   "Starship launch attempt",
		Summary: "The vehicle lifted off at dawn to cheers from the beach. More details followed later.",
	}
	require.Equal(t, "The vehicle lifted off at dawn to cheers from the beach.", Excerpt(it))
}

func TestExcerptFallsBackForShortSummary(t *testing.T) {
	it := &Item{Title: "Starship launch attempt ends early", Summary: "Short."}
	require.Equal(t, it.Title, Excerpt(it))
}

func TestExcerptFallsBackForCreditLine(t *testing.T) {
	it := &Item{
		Title:   "Jezero crater panorama",
		Summary: "Image credit: NASA/JPL-Caltech and the Perseverance imaging team members.",
	}
	require.Equal(t, it.Title, Excerpt(it))
}

func TestExcerptTruncatesVeryLongTitleFallback(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += fmt.Sprintf("word%d ", i)
	}
	it := &Item{Title: long}
	got := Excerpt(it)
	require.Contains(t, got, "word25")
	require.NotContains(t, got, "word26")
	require.Contains(t, got, "…")
}
