// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-salon-keeper/internal/service"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
)

// versionHandler serves the application version together with the build
// metadata linked into the binary.
func versionHandler(appInfo service.AppInfoService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = utils.WriteJSON(w, appInfo.GetVersionInfo(r.Context()), http.StatusOK)
	}
}
