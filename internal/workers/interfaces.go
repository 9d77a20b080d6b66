// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that starts and
// stops multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Start must not block: implementations spawn their own goroutine and keep
// running until ctx is cancelled or Stop is called. Stop blocks until the
// worker has exited and is safe to call on a worker that never started.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Start(ctx context.Context) {
//	    ctx, w.cancel = context.WithCancel(ctx)
//	    go w.loop(ctx)
//	}
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
