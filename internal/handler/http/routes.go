// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the salon router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,
		middleware.RealIP,
		withTraceID(h.logger),
		withLogging,
		h.metrics.Instrument,
		withClientMeta,
	)

	router.Get("/metrics", h.metrics.Handler().ServeHTTP)
	router.Get("/api/version", versionHandler(h.appInfo))

	// long-lived, so no request timeout
	router.Get("/api/session/events", h.sessionEvents)

	// routes without a session
	router.Group(func(r chi.Router) {
		r.Use(withTimeout(h.requestTimeout))

		r.Post("/api/auth/signin", h.signIn)
		r.Post("/api/auth/signup", h.signUp)
		r.Post("/api/auth/refresh", h.refresh)
		r.Get("/api/auth/state", h.authState)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.requireSession, withTimeout(h.requestTimeout))

		r.Post("/api/auth/signout", h.signOut)
		r.Get("/api/auth/access", h.access)
		r.Get("/api/auth/security-log", h.securityLog)

		r.Post("/api/session/activity", h.activity)
		r.Post("/api/session/extend", h.extend)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.requireSession, withTimeout(h.requestTimeout), withGZip)

		r.Post("/api/records/import", h.importRecords)
		r.Post("/api/records/{dataType}", h.createRecord)
		r.Get("/api/records/{dataType}", h.listRecords)
		r.Get("/api/records/{dataType}/export", h.exportRecords)

		r.Get("/api/records/id/{id}", h.getRecord)
		r.Patch("/api/records/id/{id}", h.updateRecord)
		r.Delete("/api/records/id/{id}", h.deleteRecord)
		r.Get("/api/records/id/{id}/audit", h.auditTrail)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// Init builds the identity provider router.
func (h *IdentityHandler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,
		middleware.RealIP,
		withTraceID(h.logger),
		withLogging,
		h.metrics.Instrument,
	)

	router.Get("/metrics", h.metrics.Handler().ServeHTTP)
	router.Get("/api/version", versionHandler(h.appInfo))

	router.Group(func(r chi.Router) {
		r.Use(withTimeout(h.requestTimeout))

		r.Post("/api/identity/signup", h.signUp)
		r.Post("/api/identity/signin", h.signIn)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.identityAuth, withTimeout(h.requestTimeout))

		r.Post("/api/identity/signout", h.signOut)
		r.Get("/api/identity/me", h.me)
		r.Get("/api/identity/token", h.token)
		r.Patch("/api/identity/profile", h.updateProfile)
		r.Put("/api/identity/users/{uid}/claims", h.setClaims)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// withTimeout bounds request handling to d. A non-positive d disables it.
func withTimeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.Timeout(d)
}
