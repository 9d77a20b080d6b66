// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-salon-keeper/internal/app"
	"github.com/MKhiriev/go-salon-keeper/internal/crypto"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
	"github.com/MKhiriev/go-salon-keeper/internal/store"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
)

type errorResponse struct {
	target  error
	status  int
	message string
}

// errorResponses is matched top to bottom. Authentication failures wrap both
// [service.ErrAuthentication] and a specific reason, so the reasons come
// first.
var errorResponses = []errorResponse{
	{errInvalidRequestBody, http.StatusBadRequest, app.MsgInvalidDataProvided},

	{service.ErrAlreadySignedIn, http.StatusConflict, app.MsgAlreadySignedIn},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, app.MsgInvalidCredentials},
	{service.ErrEmailAlreadyInUse, http.StatusConflict, app.MsgEmailAlreadyInUse},
	{service.ErrProviderUnavailable, http.StatusBadGateway, app.MsgProviderUnavailable},
	{service.ErrSignOut, http.StatusBadGateway, app.MsgSignOutFailed},
	{service.ErrNoSession, http.StatusUnauthorized, app.MsgNoActiveSession},

	{service.ErrPermissionDenied, http.StatusForbidden, app.MsgPermissionDenied},
	{service.ErrInvalidDataType, http.StatusBadRequest, app.MsgInvalidDataType},
	{service.ErrNoRecordsProvided, http.StatusBadRequest, app.MsgNoRecordsProvided},
	{service.ErrInvalidRecordData, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{store.ErrRecordNotFound, http.StatusNotFound, app.MsgRecordNotFound},
	{store.ErrVersionConflict, http.StatusConflict, app.MsgVersionConflict},
	{crypto.ErrDecryption, http.StatusUnprocessableEntity, app.MsgRecordUnreadable},

	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{service.ErrWrongPassword, http.StatusUnauthorized, app.MsgInvalidCredentials},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	{store.ErrEmailAlreadyExists, http.StatusConflict, app.MsgEmailAlreadyInUse},
	{store.ErrNoUserWasFound, http.StatusNotFound, app.MsgUserNotFound},
}

// responseForError returns the status code and public message for err.
// Anything unknown is an internal error and its text is not exposed.
func responseForError(err error) (int, string) {
	for _, resp := range errorResponses {
		if errors.Is(err, resp.target) {
			return resp.status, resp.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeServiceError logs err with the request logger and writes the mapped
// error response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := responseForError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	utils.WriteError(w, message, status)
}
