// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// errInvalidRequestBody wraps JSON decoding and struct validation
	// failures of a request body.
	errInvalidRequestBody = errors.New("invalid request body")

	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrWrongTokenType is returned when a correctly signed token is used
	// where a token of another type is expected, e.g. a refresh token as a
	// bearer access token.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrForeignSession is returned when a token was minted for a session
	// other than the current one.
	ErrForeignSession = errors.New("token does not belong to the current session")
)
