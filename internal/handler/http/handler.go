// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/metrics"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
)

// Handler serves the salon API.
type Handler struct {
	sessions service.SessionManager
	tokens   service.TokenCodec
	records  service.RecordService
	appInfo  service.AppInfoService

	metrics  *metrics.Metrics
	validate *validator.Validate

	requestTimeout time.Duration
	// heartbeat is the keep-alive interval of the event stream.
	heartbeat time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, m *metrics.Metrics, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		sessions:       services.SessionManager,
		tokens:         services.Tokens,
		records:        services.RecordService,
		appInfo:        services.AppInfoService,
		metrics:        m,
		validate:       newValidator(),
		requestTimeout: cfg.RequestTimeout,
		heartbeat:      defaultHeartbeat,
		logger:         logger,
	}
}

// IdentityHandler serves the account authority API.
type IdentityHandler struct {
	identity service.IdentityService
	appInfo  service.AppInfoService

	metrics  *metrics.Metrics
	validate *validator.Validate

	requestTimeout time.Duration

	logger *logger.Logger
}

func NewIdentityHandler(services *service.IdentityServices, m *metrics.Metrics, cfg config.Server, logger *logger.Logger) *IdentityHandler {
	logger.Info().Msg("identity http handler created")
	return &IdentityHandler{
		identity:       services.IdentityService,
		appInfo:        services.AppInfoService,
		metrics:        m,
		validate:       newValidator(),
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}
