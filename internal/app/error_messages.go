// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// salon and identity HTTP handlers.
//
// All Msg* constants are human-readable message strings written into the
// "error" field of HTTP response bodies. Keeping them in one place keeps the
// wording consistent between the two servers and the identity client, which
// surfaces some of them to the UI verbatim.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgInvalidCredentials is returned for an unknown email or a wrong
	// password. The two cases are deliberately indistinguishable.
	MsgInvalidCredentials = "invalid email or password"

	// MsgEmailAlreadyInUse is returned when signing up with a taken email.
	MsgEmailAlreadyInUse = "email already in use"

	// MsgAlreadySignedIn is returned when sign-in or sign-up is attempted
	// while a session is active.
	MsgAlreadySignedIn = "already signed in"

	// MsgProviderUnavailable is returned when the identity provider could
	// not be reached or answered with an unexpected error.
	MsgProviderUnavailable = "identity provider unavailable"

	// MsgSignOutFailed is returned when the provider rejected a sign-out.
	MsgSignOutFailed = "sign out failed"

	// MsgNoActiveSession is returned by endpoints that need a signed-in user.
	MsgNoActiveSession = "no active session"

	// MsgSessionExpired is returned when the bearer token does not belong to
	// a valid session any more.
	MsgSessionExpired = "session expired"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is either
	// expired or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgPermissionDenied is returned when the caller's role may not perform
	// the requested action.
	MsgPermissionDenied = "permission denied"

	// MsgInvalidDataType is returned for an unknown record data type.
	MsgInvalidDataType = "invalid data type"

	// MsgNoRecordsProvided is returned by an import without records.
	MsgNoRecordsProvided = "no records provided"

	// MsgRecordNotFound is returned when a record id does not exist.
	MsgRecordNotFound = "record not found"

	// MsgUserNotFound is returned by the identity provider for an unknown
	// account.
	MsgUserNotFound = "user not found"

	// MsgVersionConflict is returned when a record was modified by another
	// writer between read and write. The client should reload and retry.
	MsgVersionConflict = "version conflict, please reload"

	// MsgRecordUnreadable is returned when a stored record cannot be
	// decrypted with the configured data key.
	MsgRecordUnreadable = "record cannot be decrypted"

	// MsgNothingToRefresh is returned by a refresh without a session.
	MsgNothingToRefresh = "nothing to refresh"

	// MsgStreamingUnsupported is returned when the response writer cannot
	// flush server-sent events.
	MsgStreamingUnsupported = "streaming unsupported"
)
