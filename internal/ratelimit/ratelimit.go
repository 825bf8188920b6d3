// Package ratelimit bounds how many messages a single run may publish.
package ratelimit

import (
	"log/slog"
	"sync"
)

// Limiter caps publishes per post kind within one invocation, a guard
// against a selection bug flooding the channel. Zero max means unlimited.
type Limiter struct {
	mu     sync.Mutex
	max    int
	counts map[string]int
	log    *slog.Logger
}

func New(max int, log *slog.Logger) *Limiter {
	return &Limiter{
		max:    max,
		counts: make(map[string]int),
		log:    log,
	}
}

// Allow reports whether another post of the kind fits the budget and counts
// it when it does.
func (l *Limiter) Allow(kind string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.max > 0 && l.counts[kind] >= l.max {
		l.log.Warn("post budget reached", "kind", kind, "max", l.max)
		return false
	}
	l.counts[kind]++
	return true
}

// Count returns how many posts of the kind were allowed so far.
func (l *Limiter) Count(kind string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[kind]
}
