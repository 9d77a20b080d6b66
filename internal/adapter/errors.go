// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("identity provider internal error")
	ErrBadGateway          = errors.New("bad gateway")

	// ErrUnavailable wraps transport failures: the provider could not be reached.
	ErrUnavailable = errors.New("identity provider unavailable")

	// ErrNoCurrentUser is returned by calls that need a signed-in provider user.
	ErrNoCurrentUser = errors.New("no current provider user")
)
