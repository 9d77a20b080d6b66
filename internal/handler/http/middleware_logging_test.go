// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---- withLogging ----

func TestWithLogging_WritesAccessEntry(t *testing.T) {
	var buf bytes.Buffer
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})
	handler := withTraceID(newBufferLogger(&buf))(withLogging(inner))

	req := httptest.NewRequest(http.MethodPost, "/api/records/client?limit=5", nil)
	req.Header.Set(traceIDHeader, "trace-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastLogEntry(t, &buf)
	assert.Equal(t, "/api/records/client?limit=5", entry["uri"])
	assert.Equal(t, http.MethodPost, entry["method"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.EqualValues(t, len("short and stout"), entry["size"])
	assert.Equal(t, "trace-7", entry["trace_id"])
}

// ---- responseWriter ----

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, w.status)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestResponseWriter_ImplicitOK(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	_, _ = w.Write([]byte("abc"))
	_, _ = w.Write([]byte("de"))

	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 5, w.size)
	assert.Equal(t, "abcde", rr.Body.String())
}

func TestResponseWriter_FlushesThroughUnwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	err := http.NewResponseController(w).Flush()

	assert.NoError(t, err)
	assert.True(t, rr.Flushed)
}
