// Package ratelimit implements the in-process fixed-window request limiter
// shared by every route.
package ratelimit

import (
	"sync"
	"time"
)

// Result describes the outcome of a single Check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type record struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per identifier in fixed windows. It is safe for
// concurrent use; a check-and-increment is atomic per call.
type Limiter struct {
	mu        sync.Mutex
	records   map[string]*record
	limit     int
	window    time.Duration
	nextSweep time.Time
	now       func() time.Time
}

func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		records: make(map[string]*record),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Check records one request for identifier and reports whether it is
// within the limit. A denied request does not extend the window.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	rec, ok := l.records[identifier]
	if !ok || now.After(rec.resetAt) {
		rec = &record{count: 1, resetAt: now.Add(l.window)}
		l.records[identifier] = rec
		return Result{Allowed: true, Limit: l.limit, Remaining: l.limit - 1, ResetAt: rec.resetAt}
	}

	if rec.count >= l.limit {
		return Result{Allowed: false, Limit: l.limit, Remaining: 0, ResetAt: rec.resetAt}
	}

	rec.count++
	return Result{Allowed: true, Limit: l.limit, Remaining: l.limit - rec.count, ResetAt: rec.resetAt}
}

// Reset forgets identifier, giving it a fresh window on its next request.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, identifier)
}

// sweep drops expired records at most once per window. Check never relies on
// it: stale records are recognized by comparing resetAt with now.
func (l *Limiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for id, rec := range l.records {
		if now.After(rec.resetAt) {
			delete(l.records, id)
		}
	}
	l.nextSweep = now.Add(l.window)
}
