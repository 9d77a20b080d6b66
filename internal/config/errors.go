// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [GetAppConfig] and [GetIdentityConfig] when
// required configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid identity client settings
	// (for example, missing identity URL or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or an unknown driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level secrets
	// (for example, missing token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidSessionConfigs indicates inconsistent session timings
	// (for example, a warning lead time longer than the session itself).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
)
