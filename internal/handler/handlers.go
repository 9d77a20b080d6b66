// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package handler assembles the transport handlers of a binary from its
// services.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/handler/http"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/metrics"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
)

// Router builds the chi router an HTTP server serves.
type Router interface {
	Init() *chi.Mux
}

type Handlers struct {
	HTTP Router
}

// NewHandlers creates the salon API handlers.
func NewHandlers(services *service.Services, m *metrics.Metrics, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, m, cfg, logger)}, nil
}

// NewIdentityHandlers creates the identity provider API handlers.
func NewIdentityHandlers(services *service.IdentityServices, m *metrics.Metrics, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new identity handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewIdentityHandler(services, m, cfg, logger)}, nil
}
