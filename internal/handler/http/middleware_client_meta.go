// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net"
	"net/http"

	"github.com/MKhiriev/go-salon-keeper/internal/utils"
)

// withClientMeta stores the caller's address and user agent in the request
// context, where record audit entries pick them up. It is expected to run
// after chi's RealIP middleware.
func withClientMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}

		ctx := utils.WithClientMeta(r.Context(), utils.ClientMeta{
			IPAddress: ip,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
