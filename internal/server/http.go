// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute
)

type httpServer struct {
	server *http.Server

	// ready receives the bound address once the listener is open.
	ready chan net.Addr

	logger *logger.Logger
}

// newHTTPServer wraps router in an [http.Server]. No write timeout is set:
// the session event stream stays open for as long as the client listens,
// and the other routes are bounded by the request timeout middleware.
func newHTTPServer(router http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
		},
		ready:  make(chan net.Addr, 1),
		logger: logger,
	}
}

// RunServer listens and serves until Shutdown. A regular shutdown is not an
// error.
func (h *httpServer) RunServer() error {
	listener, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return err
	}
	h.logger.Info().Str("address", listener.Addr().String()).Msg("HTTP server listening")
	h.ready <- listener.Addr()

	if err = h.server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *httpServer) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

func (h *httpServer) address() string {
	return h.server.Addr
}
