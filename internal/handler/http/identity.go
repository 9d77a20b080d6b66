// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

func (h *IdentityHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, h.validate, &creds); err != nil {
		writeServiceError(w, r, err)
		return
	}

	session, err := h.identity.SignUp(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, session, http.StatusCreated)
}

func (h *IdentityHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(r, h.validate, &creds); err != nil {
		writeServiceError(w, r, err)
		return
	}

	session, err := h.identity.SignIn(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, session, http.StatusOK)
}

// signOut acknowledges a sign-out. ID tokens are stateless, so there is
// nothing to revoke beyond verifying the caller.
func (h *IdentityHandler) signOut(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *IdentityHandler) me(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserIDFromContext(r.Context())

	user, err := h.identity.User(r.Context(), uid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

// token mints a fresh ID token carrying the account's current claims.
func (h *IdentityHandler) token(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserIDFromContext(r.Context())

	session, err := h.identity.IDToken(r.Context(), uid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, session, http.StatusOK)
}

func (h *IdentityHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	uid, _ := utils.GetUserIDFromContext(r.Context())
	user, err := h.identity.UpdateProfile(r.Context(), uid, req.DisplayName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *IdentityHandler) setClaims(w http.ResponseWriter, r *http.Request) {
	var req models.SetClaimsRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	callerUID, _ := utils.GetUserIDFromContext(r.Context())
	claims := models.RawClaims{
		Admin:       &req.Admin,
		Role:        &req.Role,
		Permissions: req.Permissions,
	}

	user, err := h.identity.SetClaims(r.Context(), callerUID, chi.URLParam(r, "uid"), claims)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}
