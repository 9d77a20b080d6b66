// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"github.com/MKhiriev/go-salon-keeper/internal/logger"
)

// Workers runs a fixed set of workers together.
type Workers struct {
	workers []Worker

	logger *logger.Logger
}

// NewWorkers groups workers. Nil entries are dropped.
func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	w := &Workers{logger: logger}
	for _, worker := range workers {
		if worker != nil {
			w.workers = append(w.workers, worker)
		}
	}
	return w
}

// Start starts every worker in order.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
	if w.logger != nil {
		w.logger.Info().Int("count", len(w.workers)).Msg("workers started")
	}
}

// Stop stops the workers in reverse start order and waits for each.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
	if w.logger != nil {
		w.logger.Info().Msg("workers stopped")
	}
}
