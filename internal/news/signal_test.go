package news

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/redhorizon/rhnews/internal/rss"
)

func TestSignalsFilterOldAndOffTopic(t *testing.T) {
	r := DefaultRules()
	now := time.Now().UTC()

	entries := []rss.Entry{
		{Title: "Starship static fire complete", Published: timePtr(now.Add(-10 * time.Minute))},
		{Title: "Starship static fire complete", Published: timePtr(now.Add(-3 * time.Hour))}, // too old
		{Title: "Nice sunset over the gulf", Published: timePtr(now.Add(-5 * time.Minute))},   // no priority word
		{Title: "Countdown underway"}, // no timestamp
	}

	sigs := r.Signals(entries, now, time.Hour)
	require.Len(t, sigs, 1)
	require.Equal(t, "Starship static fire complete", sigs[0].Title)
}

func TestBoostFromSignalsRaisesMatchingItems(t *testing.T) {
	r := DefaultRules()
	now := time.Now().UTC()

	sigs := r.Signals([]rss.Entry{
		{Title: "static fire at the pad", Published: timePtr(now.Add(-5 * time.Minute))},
	}, now, time.Hour)

	matching := &Item{Title: "Booster 14 static fire", Score: 2}
	unrelated := &Item{Title: "Mars weather report", Score: 2}
	r.BoostFromSignals([]*Item{matching, unrelated}, sigs)

	require.Greater(t, matching.Score, 2.0)
	require.Equal(t, 2.0, unrelated.Score)
}

func TestBoostFromSignalsNoSignalsNoChange(t *testing.T) {
	r := DefaultRules()
	it := &Item{Title: "Booster 14 static fire", Score: 2}
	r.BoostFromSignals([]*Item{it}, nil)
	require.Equal(t, 2.0, it.Score)
}
