// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/models"
)

func newTestProvider(t *testing.T, serverURL string) *httpIdentityProvider {
	t.Helper()

	p, err := NewHTTPIdentityProvider(config.Adapter{IdentityURL: serverURL, RequestTimeout: 5 * time.Second}, logger.Nop())
	require.NoError(t, err)
	return p.(*httpIdentityProvider)
}

func writeSession(t *testing.T, w http.ResponseWriter, status int, session models.ProviderSession) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(session))
}

var testSession = models.ProviderSession{
	User: models.User{
		UID:    "uid-1",
		Email:  "ann@salon.io",
		Claims: models.Claims{Role: models.RoleManager, Permissions: []string{"read:own_data"}},
	},
	IDToken: "provider-token-1",
}

// ── SignIn / SignUp ─────────────────────────────────────────────────────────

func TestSignIn_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/identity/signin", r.URL.Path)

		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ann@salon.io", creds.Email)
		assert.Equal(t, "secret1", creds.Password)

		writeSession(t, w, http.StatusOK, testSession)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	got, err := p.SignIn(context.Background(), "ann@salon.io", "secret1")

	require.NoError(t, err)
	assert.Equal(t, testSession, got)

	current, ok := p.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, "uid-1", current.UID)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid email or password"}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.SignIn(context.Background(), "ann@salon.io", "bad")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid email or password")

	_, ok := p.CurrentUser()
	assert.False(t, ok)
}

func TestSignUp_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/identity/signup", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("email already exists"))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.SignUp(context.Background(), "ann@salon.io", "secret1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSignIn_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := newTestProvider(t, url)
	_, err := p.SignIn(context.Background(), "ann@salon.io", "secret1")

	assert.ErrorIs(t, err, ErrUnavailable)
}

// ── SignOut ─────────────────────────────────────────────────────────────────

func TestSignOut_ClearsStateEvenOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/identity/signin":
			writeSession(t, w, http.StatusOK, testSession)
		case "/api/identity/signout":
			assert.Equal(t, "Bearer provider-token-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.SignIn(context.Background(), "ann@salon.io", "secret1")
	require.NoError(t, err)

	err = p.SignOut(context.Background())
	assert.ErrorIs(t, err, ErrInternalServerError)

	_, ok := p.CurrentUser()
	assert.False(t, ok)
}

func TestSignOut_NoSessionIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	assert.NoError(t, p.SignOut(context.Background()))
}

// ── RefreshIDToken ──────────────────────────────────────────────────────────

func TestRefreshIDToken(t *testing.T) {
	refreshed := testSession
	refreshed.IDToken = "provider-token-2"
	refreshed.User.Claims.Role = models.RoleAdmin

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/identity/signin":
			writeSession(t, w, http.StatusOK, testSession)
		case "/api/identity/token":
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "Bearer provider-token-1", r.Header.Get("Authorization"))
			writeSession(t, w, http.StatusOK, refreshed)
		}
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.RefreshIDToken(context.Background())
	assert.ErrorIs(t, err, ErrNoCurrentUser)

	_, err = p.SignIn(context.Background(), "ann@salon.io", "secret1")
	require.NoError(t, err)

	got, err := p.RefreshIDToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "provider-token-2", got.IDToken)
	assert.Equal(t, "provider-token-2", p.idToken())
	assert.Equal(t, models.RoleAdmin, got.User.Claims.Role)
}

func TestRefreshIDToken_UnauthorizedDropsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/identity/token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeSession(t, w, http.StatusOK, testSession)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.SignIn(context.Background(), "ann@salon.io", "secret1")
	require.NoError(t, err)

	_, err = p.RefreshIDToken(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, ok := p.CurrentUser()
	assert.False(t, ok)
}

// ── UpdateProfile ───────────────────────────────────────────────────────────

func TestUpdateProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/identity/signup":
			writeSession(t, w, http.StatusCreated, testSession)
		case "/api/identity/profile":
			assert.Equal(t, http.MethodPatch, r.Method)
			var req models.UpdateProfileRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			user := testSession.User
			user.DisplayName = req.DisplayName
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(user)
		}
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.SignUp(context.Background(), "ann@salon.io", "secret1")
	require.NoError(t, err)

	user, err := p.UpdateProfile(context.Background(), "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.DisplayName)

	current, _ := p.CurrentUser()
	assert.Equal(t, "Ann", current.DisplayName)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "localhost:8081", want: "http://localhost:8081"},
		{raw: "https://id.salon.io/", want: "https://id.salon.io"},
		{raw: "  ", wantErr: true},
		{raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPIdentityProvider_InvalidURL(t *testing.T) {
	_, err := NewHTTPIdentityProvider(config.Adapter{}, logger.Nop())
	assert.Error(t, err)
}
