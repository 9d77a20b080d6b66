// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewHTTPClient_Configured(t *testing.T) {
	client := NewHTTPClient("http://localhost:8081", 5*time.Second)

	if client == nil || client.Client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.BaseURL != "http://localhost:8081" {
		t.Errorf("expected base url to be set, got %q", client.BaseURL)
	}
	if client.GetClient().Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", client.GetClient().Timeout)
	}
}

func TestNewHTTPClient_Independence(t *testing.T) {
	client1 := NewHTTPClient("", 0)
	client2 := NewHTTPClient("", 0)

	if client1.Client == client2.Client {
		t.Fatal("expected independent *resty.Client instances")
	}
}

func TestHTTPClient_EmbeddedClientUsable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected Accept header, got %q", r.Header.Get("Accept"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL, time.Second).R().Get("/ping")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode())
	}
}
