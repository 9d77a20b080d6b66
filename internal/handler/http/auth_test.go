// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-salon-keeper/internal/app"
	"github.com/MKhiriev/go-salon-keeper/internal/service"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// ── signIn ──────────────────────────────────────────────────────────────────

func TestSignIn_Success(t *testing.T) {
	f := newHandlerFixture(t)

	f.sessions.EXPECT().
		SignIn(gomock.Any(), "anna@salon.test", "secret1", true, models.DeviceInfo{UserAgent: "salon-ui/1.0", Platform: "web"}).
		Return(testUser(), nil)
	f.sessions.EXPECT().CurrentSession().Return(testSession(), true)

	rr := f.do(http.MethodPost, "/api/auth/signin", models.SignInRequest{
		Email:      "anna@salon.test",
		Password:   "secret1",
		RememberMe: true,
		Device:     models.DeviceInfo{Platform: "web"},
	}, "")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decodeBody[models.SessionResponse](t, rr)
	assert.True(t, resp.SignedIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "user-1", resp.User.UID)
	require.NotNil(t, resp.Tokens)
	assert.Equal(t, testAccessToken, resp.Tokens.Access)
	assert.Equal(t, testRefreshToken, resp.Tokens.Refresh)
	assert.True(t, testSession().ExpiresAt.Equal(resp.ExpiresAt))
}

func TestSignIn_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    app.MsgInvalidDataProvided,
		},
		{
			name:       "missing password",
			body:       models.SignInRequest{Email: "anna@salon.test"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    app.MsgInvalidDataProvided,
		},
		{
			name:       "not an email",
			body:       models.SignInRequest{Email: "anna", Password: "secret1"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    app.MsgInvalidDataProvided,
		},
		{
			name:       "invalid credentials",
			body:       models.SignInRequest{Email: "anna@salon.test", Password: "secret1"},
			serviceErr: fmt.Errorf("%w: %w", service.ErrAuthentication, service.ErrInvalidCredentials),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    app.MsgInvalidCredentials,
		},
		{
			name:       "already signed in",
			body:       models.SignInRequest{Email: "anna@salon.test", Password: "secret1"},
			serviceErr: fmt.Errorf("%w: %w", service.ErrAuthentication, service.ErrAlreadySignedIn),
			wantStatus: http.StatusConflict,
			wantMsg:    app.MsgAlreadySignedIn,
		},
		{
			name:       "provider down",
			body:       models.SignInRequest{Email: "anna@salon.test", Password: "secret1"},
			serviceErr: fmt.Errorf("%w: %w", service.ErrAuthentication, service.ErrProviderUnavailable),
			wantStatus: http.StatusBadGateway,
			wantMsg:    app.MsgProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			if tt.serviceErr != nil {
				f.sessions.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.User{}, tt.serviceErr)
			}

			rr := f.do(http.MethodPost, "/api/auth/signin", tt.body, "")

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rr))
		})
	}
}

func TestSignIn_CountsAuthEvents(t *testing.T) {
	f := newHandlerFixture(t)

	gomock.InOrder(
		f.sessions.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(models.User{}, fmt.Errorf("%w: %w", service.ErrAuthentication, service.ErrInvalidCredentials)),
		f.sessions.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(testUser(), nil),
	)
	f.sessions.EXPECT().CurrentSession().Return(testSession(), true)

	body := models.SignInRequest{Email: "anna@salon.test", Password: "secret1"}
	f.do(http.MethodPost, "/api/auth/signin", body, "")
	f.do(http.MethodPost, "/api/auth/signin", body, "")

	rr := f.do(http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, rr.Body.String(), `salon_keeper_auth_events_total{event="login",service="test"} 1`)
	assert.Contains(t, rr.Body.String(), `salon_keeper_auth_events_total{event="login_failed",service="test"} 1`)
}

// ── signUp ──────────────────────────────────────────────────────────────────

func TestSignUp_Success(t *testing.T) {
	f := newHandlerFixture(t)

	f.sessions.EXPECT().SignUp(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req models.SignUpRequest) (models.User, error) {
			assert.Equal(t, "Anna", req.DisplayName)
			assert.Equal(t, "Studio A", req.BusinessName)
			assert.Equal(t, "salon-ui/1.0", req.Device.UserAgent)
			return testUser(), nil
		})
	f.sessions.EXPECT().CurrentSession().Return(testSession(), true)

	rr := f.do(http.MethodPost, "/api/auth/signup", models.SignUpRequest{
		Email:        "anna@salon.test",
		Password:     "secret1",
		DisplayName:  "Anna",
		BusinessName: "Studio A",
	}, "")

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decodeBody[models.SessionResponse](t, rr)
	assert.True(t, resp.SignedIn)
	assert.NotNil(t, resp.Tokens)
}

func TestSignUp_Errors(t *testing.T) {
	t.Run("short password", func(t *testing.T) {
		f := newHandlerFixture(t)

		rr := f.do(http.MethodPost, "/api/auth/signup", models.SignUpRequest{
			Email: "anna@salon.test", Password: "12345", DisplayName: "Anna",
		}, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("email in use", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessions.EXPECT().SignUp(gomock.Any(), gomock.Any()).
			Return(models.User{}, fmt.Errorf("%w: %w", service.ErrAuthentication, service.ErrEmailAlreadyInUse))

		rr := f.do(http.MethodPost, "/api/auth/signup", models.SignUpRequest{
			Email: "anna@salon.test", Password: "secret1", DisplayName: "Anna",
		}, "")

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, app.MsgEmailAlreadyInUse, errorMessage(t, rr))
	})
}

// ── signOut ─────────────────────────────────────────────────────────────────

func TestSignOut(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectSignedIn()
		f.sessions.EXPECT().SignOut(gomock.Any()).Return(nil)

		rr := f.do(http.MethodPost, "/api/auth/signout", nil, testAccessToken)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, decodeBody[models.SessionResponse](t, rr).SignedIn)
	})

	t.Run("provider rejects", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectSignedIn()
		f.sessions.EXPECT().SignOut(gomock.Any()).
			Return(fmt.Errorf("%w: %w", service.ErrAuthentication, service.ErrSignOut))

		rr := f.do(http.MethodPost, "/api/auth/signout", nil, testAccessToken)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Equal(t, app.MsgSignOutFailed, errorMessage(t, rr))
	})

	t.Run("without token", func(t *testing.T) {
		f := newHandlerFixture(t)

		rr := f.do(http.MethodPost, "/api/auth/signout", nil, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

// ── refresh ─────────────────────────────────────────────────────────────────

func TestRefresh(t *testing.T) {
	refreshClaims := &models.TokenClaims{Type: models.RefreshToken, SessionID: testSessionID}

	t.Run("remints the pair", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().Verify(testRefreshToken).Return(refreshClaims, true)
		f.sessions.EXPECT().CurrentSession().Return(testSession(), true).Times(2)
		f.sessions.EXPECT().RefreshSession(gomock.Any()).Return(true)

		rr := f.do(http.MethodPost, "/api/auth/refresh", nil, testRefreshToken)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.NotNil(t, decodeBody[models.SessionResponse](t, rr).Tokens)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().Verify(testAccessToken).
			Return(&models.TokenClaims{Type: models.AccessToken, SessionID: testSessionID}, true)

		rr := f.do(http.MethodPost, "/api/auth/refresh", nil, testAccessToken)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, app.MsgTokenIsExpiredOrInvalid, errorMessage(t, rr))
	})

	t.Run("token of another session", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().Verify(testRefreshToken).
			Return(&models.TokenClaims{Type: models.RefreshToken, SessionID: "session-0"}, true)
		f.sessions.EXPECT().CurrentSession().Return(testSession(), true)

		rr := f.do(http.MethodPost, "/api/auth/refresh", nil, testRefreshToken)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, app.MsgSessionExpired, errorMessage(t, rr))
	})

	t.Run("nothing to refresh", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.tokens.EXPECT().Verify(testRefreshToken).Return(refreshClaims, true)
		f.sessions.EXPECT().CurrentSession().Return(testSession(), true)
		f.sessions.EXPECT().RefreshSession(gomock.Any()).Return(false)

		rr := f.do(http.MethodPost, "/api/auth/refresh", nil, testRefreshToken)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, app.MsgNothingToRefresh, errorMessage(t, rr))
	})
}

// ── state and authorization queries ─────────────────────────────────────────

func TestAuthState(t *testing.T) {
	t.Run("signed in, tokens withheld", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessions.EXPECT().CurrentSession().Return(testSession(), true)

		rr := f.do(http.MethodGet, "/api/auth/state", nil, "")

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[models.SessionResponse](t, rr)
		assert.True(t, resp.SignedIn)
		assert.Nil(t, resp.Tokens)
		assert.NotContains(t, rr.Body.String(), testAccessToken)
	})

	t.Run("signed out", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.sessions.EXPECT().CurrentSession().Return(models.Session{}, false)

		rr := f.do(http.MethodGet, "/api/auth/state", nil, "")

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[models.SessionResponse](t, rr)
		assert.False(t, resp.SignedIn)
		assert.Nil(t, resp.User)
	})
}

func TestAccess(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectSignedIn()
	f.sessions.EXPECT().IsAdmin().Return(false)
	f.sessions.EXPECT().HasPermission("manage_staff").Return(true)
	f.sessions.EXPECT().HasPermission("delete_records").Return(false)
	f.sessions.EXPECT().HasRole(models.RoleManager).Return(true)

	rr := f.do(http.MethodGet, "/api/auth/access?permission=manage_staff&permission=delete_records&role=manager", nil, testAccessToken)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decodeBody[models.AccessResponse](t, rr)
	assert.Equal(t, models.RoleManager, resp.Role)
	assert.False(t, resp.Admin)
	assert.Equal(t, map[string]bool{"manage_staff": true, "delete_records": false}, resp.Permissions)
	assert.Equal(t, map[string]bool{"manager": true}, resp.Roles)
}

func TestSecurityLog(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectSignedIn()
	f.sessions.EXPECT().SecurityLog().Return([]models.SecurityLogEntry{
		{Event: service.EventLogin, Timestamp: testNow},
	})

	rr := f.do(http.MethodGet, "/api/auth/security-log", nil, testAccessToken)

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[models.SecurityLogResponse](t, rr)
	assert.Equal(t, 1, resp.Length)
	assert.Equal(t, service.EventLogin, resp.Entries[0].Event)
}
