// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"
)

// sessionValidator is the part of [SessionStore] the validator job needs.
type sessionValidator interface {
	ValidateNow(ctx context.Context)
}

// SessionValidatorJob re-checks the session on a fixed period so that an
// expired session is evicted even when its timer never fired, for example
// after the host was suspended.
type SessionValidatorJob struct {
	sessions sessionValidator
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSessionValidatorJob creates a job that calls sessions.ValidateNow every
// interval. If interval is zero or negative it defaults to one minute. The
// job is idle until Start is called.
func NewSessionValidatorJob(sessions sessionValidator, interval time.Duration) *SessionValidatorJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionValidatorJob{sessions: sessions, interval: interval}
}

// Start stops any previously running loop, then launches a goroutine that
// validates the session every interval until ctx is cancelled or Stop is
// called.
func (j *SessionValidatorJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.sessions.ValidateNow(jobCtx)
			}
		}
	}()
}

// Stop cancels the loop and blocks until it has exited. Safe to call when
// the job is not running.
func (j *SessionValidatorJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
