// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/handler"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may take to finish
// once a stop signal arrived.
const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

// NewServer creates the HTTP server for handlers.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		logger:     logger,
	}, nil
}

// RunServer serves until SIGTERM, SIGINT or SIGQUIT and then shuts down
// gracefully.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := s.run(ctx); err != nil {
		s.logger.Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Err(err).Msg("HTTP server shutdown failed")
	}
}

// run serves until ctx is done or the listener fails.
func (s *server) run(ctx context.Context) error {
	errCh := make(chan error, 1)

	s.logger.Info().Str("address", s.httpServer.address()).Msg("launching HTTP server")
	go func() {
		errCh <- s.httpServer.RunServer()
	}()

	select {
	case <-ctx.Done():
		s.Shutdown()
		err := <-errCh
		s.logger.Info().Msg("server shutdown gracefully")
		return err
	case err := <-errCh:
		return err
	}
}
