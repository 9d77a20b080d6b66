// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-salon-keeper/internal/logger"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID attaches a child of base carrying the request's trace id to
// the request context and echoes the id in the response. The id is taken
// from the X-Trace-ID request header or generated.
func withTraceID(base *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceIDHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			l := base.GetChildLogger()
			l.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("trace_id", traceID)
			})
			r = r.WithContext(l.WithContext(r.Context()))

			w.Header().Set(traceIDHeader, traceID)
			next.ServeHTTP(w, r)
		})
	}
}
