// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Authentication errors. Every error returned by sign-in, sign-up and
// sign-out wraps ErrAuthentication together with one of the specific
// reasons below.
var (
	ErrAuthentication      = errors.New("authentication failed")
	ErrAlreadySignedIn     = errors.New("already signed in")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailAlreadyInUse   = errors.New("email already in use")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrSignOut             = errors.New("sign out failed")
)

var (
	// ErrNoSession is returned by operations that need a signed-in user.
	ErrNoSession = errors.New("no active session")

	// ErrPermissionDenied is returned when the actor's role is not allowed
	// to perform an action on a record. Nothing is modified.
	ErrPermissionDenied = errors.New("permission denied")

	ErrInvalidDataType   = errors.New("invalid data type")
	ErrInvalidRecordData = errors.New("record data must be a JSON object")
	ErrNoRecordsProvided = errors.New("no records provided")
)

// Identity provider errors.
var (
	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrWrongPassword           = errors.New("wrong password")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
)

var ErrVersionIsNotSpecified = errors.New("app version is not specified")
