// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-salon-keeper/internal/app"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// ── activity / extend ───────────────────────────────────────────────────────

func TestActivity(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectSignedIn()

	rr := f.do(http.MethodPost, "/api/session/activity", nil, testAccessToken)

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[models.SessionResponse](t, rr)
	assert.True(t, resp.SignedIn)
	assert.Nil(t, resp.Tokens)
}

func TestExtend(t *testing.T) {
	t.Run("by a duration string", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectSignedIn()
		f.sessions.EXPECT().ExtendSession(gomock.Any(), 15*time.Minute).Return(testNow.Add(25*time.Hour), true)

		rr := f.do(http.MethodPost, "/api/session/extend", `{"additional_time":"15m"}`, testAccessToken)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.NotNil(t, decodeBody[models.SessionResponse](t, rr).Tokens)
	})

	t.Run("by milliseconds", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectSignedIn()
		f.sessions.EXPECT().ExtendSession(gomock.Any(), 90*time.Second).Return(testNow, true)

		rr := f.do(http.MethodPost, "/api/session/extend", `{"additional_time":90000}`, testAccessToken)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("full length by default", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectSignedIn()
		f.sessions.EXPECT().ExtendSession(gomock.Any(), time.Duration(0)).Return(testNow, true)

		rr := f.do(http.MethodPost, "/api/session/extend", `{}`, testAccessToken)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("session gone meanwhile", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectSignedIn()
		f.sessions.EXPECT().ExtendSession(gomock.Any(), gomock.Any()).Return(time.Time{}, false)

		rr := f.do(http.MethodPost, "/api/session/extend", `{}`, testAccessToken)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, app.MsgNoActiveSession, errorMessage(t, rr))
	})

	t.Run("bad duration", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectSignedIn()

		rr := f.do(http.MethodPost, "/api/session/extend", `{"additional_time":"soon"}`, testAccessToken)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

// ── event stream ────────────────────────────────────────────────────────────

type capturedListeners struct {
	state   chan func(models.AuthState)
	warning chan func(models.SessionWarning)
	expired chan func(models.SessionExpired)
}

// captureListeners records the callbacks the stream subscribes and replays
// the signed-in state right away, like the session manager does.
func (f *handlerFixture) captureListeners() *capturedListeners {
	c := &capturedListeners{
		state:   make(chan func(models.AuthState), 1),
		warning: make(chan func(models.SessionWarning), 1),
		expired: make(chan func(models.SessionExpired), 1),
	}

	f.sessions.EXPECT().OnAuthStateChanged(gomock.Any()).DoAndReturn(func(fn func(models.AuthState)) func() {
		session := testSession()
		fn(models.AuthState{SignedIn: true, User: &session.User, Session: &session})
		c.state <- fn
		return func() {}
	})
	f.sessions.EXPECT().OnSessionWarning(gomock.Any()).DoAndReturn(func(fn func(models.SessionWarning)) func() {
		c.warning <- fn
		return func() {}
	})
	f.sessions.EXPECT().OnSessionExpired(gomock.Any()).DoAndReturn(func(fn func(models.SessionExpired)) func() {
		c.expired <- fn
		return func() {}
	})
	return c
}

// readEvent returns the name and data of the next event, skipping comments.
func readEvent(t *testing.T, scanner *bufio.Scanner) (string, string) {
	t.Helper()

	var name, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
	require.NoError(t, scanner.Err())
	t.Fatal("stream ended before an event was read")
	return "", ""
}

func TestSessionEvents_Stream(t *testing.T) {
	f := newHandlerFixture(t)
	listeners := f.captureListeners()

	server := httptest.NewServer(f.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/session/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)

	name, data := readEvent(t, scanner)
	assert.Equal(t, eventAuth, name)
	assert.Contains(t, data, `"signed_in":true`)
	assert.NotContains(t, data, testAccessToken)

	(<-listeners.warning)(models.SessionWarning{TimeRemaining: 5 * time.Minute})
	name, data = readEvent(t, scanner)
	assert.Equal(t, eventWarning, name)
	assert.JSONEq(t, `{"timeRemaining":300000}`, data)

	(<-listeners.expired)(models.SessionExpired{SessionID: testSessionID, Reason: models.ExpiredInactivity})
	name, data = readEvent(t, scanner)
	assert.Equal(t, eventExpired, name)
	assert.JSONEq(t, `{"session_id":"session-1","reason":"inactivity"}`, data)

	(<-listeners.state)(models.AuthState{SignedIn: false})
	name, data = readEvent(t, scanner)
	assert.Equal(t, eventAuth, name)
	assert.JSONEq(t, `{"signed_in":false}`, data)
}

func TestSessionEvents_Heartbeat(t *testing.T) {
	f := newHandlerFixture(t)
	f.handler.heartbeat = 10 * time.Millisecond
	f.router = f.handler.Init()
	f.captureListeners()

	server := httptest.NewServer(f.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/session/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if scanner.Text() == ": ping" {
			return
		}
	}
	t.Fatal("no heartbeat received")
}
