// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-salon-keeper/internal/app"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
	"github.com/MKhiriev/go-salon-keeper/internal/store"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

func TestResponseForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "auth reason wins over the umbrella error",
			err:        fmt.Errorf("%w: %w", service.ErrAuthentication, service.ErrEmailAlreadyInUse),
			wantStatus: http.StatusConflict,
			wantMsg:    app.MsgEmailAlreadyInUse,
		},
		{
			name:       "bare authentication error",
			err:        service.ErrAuthentication,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    app.MsgInternalServerError,
		},
		{
			name:       "permission denied wrapping a validator error",
			err:        fmt.Errorf("%w: %w", service.ErrPermissionDenied, errors.New("actor user id is required")),
			wantStatus: http.StatusForbidden,
			wantMsg:    app.MsgPermissionDenied,
		},
		{
			name:       "invalid data type before invalid record data",
			err:        fmt.Errorf("%w: %w", service.ErrInvalidDataType, service.ErrInvalidRecordData),
			wantStatus: http.StatusBadRequest,
			wantMsg:    app.MsgInvalidDataType,
		},
		{
			name:       "deeply wrapped conflict",
			err:        fmt.Errorf("update: %w", fmt.Errorf("tx: %w", store.ErrVersionConflict)),
			wantStatus: http.StatusConflict,
			wantMsg:    app.MsgVersionConflict,
		},
		{
			name:       "unknown error text is hidden",
			err:        errors.New("pq: connection refused to 10.0.0.3"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    app.MsgInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := responseForError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"display_name":"Anna"}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "broken json", body: `{"display_name":`, wantErr: true},
		{name: "validation", body: `{"display_name":""}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tt.body))

			var dst models.UpdateProfileRequest
			err := decodeJSON(req, newValidator(), &dst)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "Anna", dst.DisplayName)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errInvalidRequestBody)
		})
	}
}

func TestWithClientMeta(t *testing.T) {
	var got struct{ ip, ua string }
	handler := withClientMeta(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := utils.GetClientMetaFromContext(r.Context())
		got.ip, got.ua = meta.IPAddress, meta.UserAgent
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	req.Header.Set("User-Agent", "salon-ui/2.0")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.9", got.ip)
	assert.Equal(t, "salon-ui/2.0", got.ua)
}
