// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ActivityTracker forwards user activity to the session at most once per
// throttle interval, no matter how often it is reported. Time is read from
// the injected [Clock].
type ActivityTracker struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	throttle time.Duration

	clock Clock
	track func(ctx context.Context)
}

// NewActivityTracker returns a tracker that calls track for the first
// reported activity and then again only after throttle has passed. A
// non-positive throttle forwards every call.
func NewActivityTracker(throttle time.Duration, clock Clock, track func(ctx context.Context)) *ActivityTracker {
	t := &ActivityTracker{throttle: throttle, clock: clock, track: track}
	t.Reset()
	return t
}

// Track reports one activity. It returns true when the activity was
// forwarded and false when it was absorbed by the throttle.
func (t *ActivityTracker) Track(ctx context.Context) bool {
	t.mu.Lock()
	allowed := t.limiter.AllowN(t.clock.Now(), 1)
	t.mu.Unlock()

	if !allowed {
		return false
	}
	t.track(ctx)
	return true
}

// Reset forgets earlier activity, so the next Track is forwarded. It is
// called whenever a new session starts.
func (t *ActivityTracker) Reset() {
	limit := rate.Inf
	if t.throttle > 0 {
		limit = rate.Every(t.throttle)
	}

	t.mu.Lock()
	t.limiter = rate.NewLimiter(limit, 1)
	t.mu.Unlock()
}
