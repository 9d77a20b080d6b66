// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/metrics"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
)

func TestNewHandlers(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, metrics.New("salon"), config.Server{HTTPAddress: ":8080"}, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h.HTTP)

	router := h.HTTP.Init()
	var patterns []string
	for _, route := range router.Routes() {
		patterns = append(patterns, route.Pattern)
	}
	assert.Contains(t, patterns, "/api/auth/signin")
	assert.Contains(t, patterns, "/api/records/id/{id}/audit")
	assert.Contains(t, patterns, "/api/session/events")
}

func TestNewIdentityHandlers(t *testing.T) {
	h, err := NewIdentityHandlers(&service.IdentityServices{}, metrics.New("identity"), config.Server{HTTPAddress: ":8081"}, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h.HTTP)
	assert.NotNil(t, h.HTTP.Init())
}

func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, metrics.New("salon"), config.Server{}, logger.Nop())
	assert.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)

	h, err = NewIdentityHandlers(&service.IdentityServices{}, metrics.New("identity"), config.Server{}, logger.Nop())
	assert.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)
}
