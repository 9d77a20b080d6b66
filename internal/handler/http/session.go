// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-salon-keeper/internal/app"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

const (
	defaultHeartbeat = 25 * time.Second

	// eventBuffer bounds the events queued for a slow stream reader. Events
	// beyond it are dropped for that reader only.
	eventBuffer = 16
)

// Names of the server-sent events of GET /api/session/events.
const (
	eventAuth    = "auth"
	eventWarning = "warning"
	eventExpired = "expired"
)

type streamEvent struct {
	name string
	data any
}

// activity records user activity. requireSession already tracked it, so
// this only reports the session.
func (h *Handler) activity(w http.ResponseWriter, _ *http.Request) {
	_, _ = utils.WriteJSON(w, h.sessionResponse(false), http.StatusOK)
}

// extend pushes the session expiry out. A zero additional_time extends by a
// full session length. The refresh token is reminted, so the response
// carries the new pair.
func (h *Handler) extend(w http.ResponseWriter, r *http.Request) {
	var req models.ExtendSessionRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if _, ok := h.sessions.ExtendSession(r.Context(), time.Duration(req.AdditionalTime)); !ok {
		utils.WriteError(w, app.MsgNoActiveSession, http.StatusUnauthorized)
		return
	}

	_, _ = utils.WriteJSON(w, h.sessionResponse(true), http.StatusOK)
}

// sessionEvents streams auth state changes, expiry warnings and expirations
// as server-sent events until the client goes away. The current auth state
// is always the first event.
func (h *Handler) sessionEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()
	rc := http.NewResponseController(w)

	events := make(chan streamEvent, eventBuffer)
	push := func(evt streamEvent) {
		select {
		case events <- evt:
		default:
			log.Warn().Str("event", evt.name).Msg("event stream reader is too slow, dropping event")
		}
	}

	unsubscribeState := h.sessions.OnAuthStateChanged(func(state models.AuthState) {
		// the session carries tokens and never goes on the stream
		push(streamEvent{name: eventAuth, data: models.AuthState{SignedIn: state.SignedIn, User: state.User}})
	})
	defer unsubscribeState()

	unsubscribeWarning := h.sessions.OnSessionWarning(func(warning models.SessionWarning) {
		push(streamEvent{name: eventWarning, data: models.WarningEvent{TimeRemaining: warning.TimeRemainingMillis()}})
	})
	defer unsubscribeWarning()

	unsubscribeExpired := h.sessions.OnSessionExpired(func(evt models.SessionExpired) {
		push(streamEvent{name: eventExpired, data: evt})
	})
	defer unsubscribeExpired()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Err(err).Msg(app.MsgStreamingUnsupported)
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-events:
			if err := writeEvent(w, evt); err != nil {
				log.Err(err).Str("event", evt.name).Msg("failed to write event")
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, evt streamEvent) error {
	data, err := json.Marshal(evt.data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.name, data)
	return err
}
