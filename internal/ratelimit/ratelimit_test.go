package ratelimit

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAllowStopsAtBudget(t *testing.T) {
	l := New(2, testLogger())

	require.True(t, l.Allow("breaking"))
	require.True(t, l.Allow("breaking"))
	require.False(t, l.Allow("breaking"))
	require.Equal(t, 2, l.Count("breaking"))
}

func TestAllowZeroMeansUnlimited(t *testing.T) {
	l := New(0, testLogger())

	for i := 0; i < 50; i++ {
		require.True(t, l.Allow("digest"))
	}
	require.Equal(t, 50, l.Count("digest"))
}

func TestAllowBudgetsKindsIndependently(t *testing.T) {
	l := New(1, testLogger())

	require.True(t, l.Allow("breaking"))
	require.False(t, l.Allow("breaking"))
	require.True(t, l.Allow("image"), "another kind has its own budget")
	require.Equal(t, 0, l.Count("welcome"))
}
