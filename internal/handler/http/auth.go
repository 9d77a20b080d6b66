// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-salon-keeper/internal/app"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Device.UserAgent == "" {
		req.Device.UserAgent = r.UserAgent()
	}

	if _, err := h.sessions.SignIn(r.Context(), req.Email, req.Password, req.RememberMe, req.Device); err != nil {
		h.metrics.ObserveAuthEvent(service.EventLoginFailed)
		writeServiceError(w, r, err)
		return
	}
	h.metrics.ObserveAuthEvent(service.EventLogin)

	_, _ = utils.WriteJSON(w, h.sessionResponse(true), http.StatusOK)
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Device.UserAgent == "" {
		req.Device.UserAgent = r.UserAgent()
	}

	if _, err := h.sessions.SignUp(r.Context(), req); err != nil {
		h.metrics.ObserveAuthEvent(service.EventSignUpFailed)
		writeServiceError(w, r, err)
		return
	}
	h.metrics.ObserveAuthEvent(service.EventSignUp)

	_, _ = utils.WriteJSON(w, h.sessionResponse(true), http.StatusCreated)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.metrics.ObserveAuthEvent(service.EventLogout)

	_, _ = utils.WriteJSON(w, models.SessionResponse{SignedIn: false}, http.StatusOK)
}

// refresh re-fetches the provider claims and remints the token pair. The
// bearer token must be the refresh token of the current session.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	claims, ok := h.bearerClaims(w, r, models.RefreshToken)
	if !ok {
		return
	}

	session, ok := h.sessions.CurrentSession()
	if !ok || session.ID != claims.SessionID {
		log.Err(ErrForeignSession).Str("session_id", claims.SessionID).Send()
		utils.WriteError(w, app.MsgSessionExpired, http.StatusUnauthorized)
		return
	}

	if !h.sessions.RefreshSession(r.Context()) {
		utils.WriteError(w, app.MsgNothingToRefresh, http.StatusUnauthorized)
		return
	}

	_, _ = utils.WriteJSON(w, h.sessionResponse(true), http.StatusOK)
}

func (h *Handler) authState(w http.ResponseWriter, _ *http.Request) {
	_, _ = utils.WriteJSON(w, h.sessionResponse(false), http.StatusOK)
}

// access answers authorization queries from the session's claims:
// ?permission=a&permission=b&role=manager.
func (h *Handler) access(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	resp := models.AccessResponse{
		Role:  h.sessions.Role(),
		Admin: h.sessions.IsAdmin(),
	}
	if perms := query["permission"]; len(perms) > 0 {
		resp.Permissions = make(map[string]bool, len(perms))
		for _, p := range perms {
			resp.Permissions[p] = h.sessions.HasPermission(p)
		}
	}
	if roles := query["role"]; len(roles) > 0 {
		resp.Roles = make(map[string]bool, len(roles))
		for _, role := range roles {
			resp.Roles[role] = h.sessions.HasRole(models.Role(role))
		}
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) securityLog(w http.ResponseWriter, _ *http.Request) {
	entries := h.sessions.SecurityLog()
	if entries == nil {
		entries = []models.SecurityLogEntry{}
	}
	_, _ = utils.WriteJSON(w, models.SecurityLogResponse{Entries: entries, Length: len(entries)}, http.StatusOK)
}

// sessionResponse describes the current session. Tokens are included only
// when withTokens is set, i.e. right after they were minted.
func (h *Handler) sessionResponse(withTokens bool) models.SessionResponse {
	session, ok := h.sessions.CurrentSession()
	if !ok {
		return models.SessionResponse{SignedIn: false}
	}

	user := session.User
	resp := models.SessionResponse{
		SignedIn:     true,
		User:         &user,
		ExpiresAt:    session.ExpiresAt,
		LastActivity: session.LastActivity,
		Persistent:   session.Persistent,
	}
	if withTokens {
		resp.Tokens = &models.TokenPair{Access: session.Token, Refresh: session.RefreshToken}
	}
	return resp
}
