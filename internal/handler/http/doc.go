// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport of the salon and identity
// binaries.
//
// [Handler] serves the salon API: sign-in and sign-up through the session
// manager, session upkeep, the server-sent event stream of session warnings
// and expirations, and the audited record store. [IdentityHandler] serves
// the account authority that the salon reaches through its identity
// provider adapter.
//
// Cross-cutting concerns such as request tracing, access logging, metrics,
// client metadata for audit entries, bearer authentication and response
// compression are handled by middleware in this package before requests are
// delegated to the service layer.
package http
