// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-salon-keeper/internal/app"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// requireSession admits requests whose bearer token is an access token of
// the current, still valid session. The session's user id is stored in the
// request context and the request counts as user activity.
//
// Requests are rejected with 401 when the header is missing or malformed,
// the token does not verify, it is not an access token, the session is no
// longer valid or the token was minted for another session.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		ctx := r.Context()

		claims, ok := h.bearerClaims(w, r, models.AccessToken)
		if !ok {
			return
		}

		if !h.sessions.ValidateSession(ctx) {
			log.Debug().Str("session_id", claims.SessionID).Msg("session is no longer valid")
			utils.WriteError(w, app.MsgSessionExpired, http.StatusUnauthorized)
			return
		}

		session, ok := h.sessions.CurrentSession()
		if !ok || session.ID != claims.SessionID {
			log.Err(ErrForeignSession).Str("session_id", claims.SessionID).Send()
			utils.WriteError(w, app.MsgSessionExpired, http.StatusUnauthorized)
			return
		}

		h.sessions.TrackActivity(ctx)

		ctx = utils.WithUserID(ctx, session.User.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerClaims verifies the bearer token of r and checks its type. On
// failure it writes the 401 response itself and returns false.
func (h *Handler) bearerClaims(w http.ResponseWriter, r *http.Request, want models.TokenType) (*models.TokenClaims, bool) {
	log := logger.FromRequest(r)

	header := r.Header.Get("Authorization")
	if header == "" {
		log.Err(ErrEmptyAuthorizationHeader).Send()
		utils.WriteError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
		return nil, false
	}

	token, err := utils.ParseBearerToken(header)
	if err != nil {
		log.Err(err).Send()
		utils.WriteError(w, err.Error(), http.StatusUnauthorized)
		return nil, false
	}

	claims, ok := h.tokens.Verify(token)
	if !ok {
		log.Debug().Msg("bearer token did not verify")
		utils.WriteError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
		return nil, false
	}
	if claims.Type != want {
		log.Err(ErrWrongTokenType).Str("type", string(claims.Type)).Send()
		utils.WriteError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
		return nil, false
	}

	return claims, true
}

// identityAuth admits requests carrying a valid ID token and stores the
// account uid in the request context.
func (h *IdentityHandler) identityAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		header := r.Header.Get("Authorization")
		if header == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ParseBearerToken(header)
		if err != nil {
			log.Err(err).Send()
			utils.WriteError(w, err.Error(), http.StatusUnauthorized)
			return
		}

		uid, err := h.identity.VerifyIDToken(r.Context(), token)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), uid)))
	})
}
