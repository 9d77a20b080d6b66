// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

type httpIdentityProvider struct {
	client *utils.HTTPClient

	mu      sync.RWMutex
	current *models.ProviderSession

	logger *logger.Logger
}

// NewHTTPIdentityProvider constructs an HTTP/REST implementation of
// [IdentityProvider]. It normalises and validates the base URL from
// cfg.IdentityURL and configures the underlying HTTP client with the resolved
// base URL and request timeout.
//
// Returns an error if cfg.IdentityURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPIdentityProvider(cfg config.Adapter, logger *logger.Logger) (IdentityProvider, error) {
	baseURL, err := normalizeBaseURL(cfg.IdentityURL)
	if err != nil {
		return nil, fmt.Errorf("invalid identity provider address: %w", err)
	}

	return &httpIdentityProvider{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SignIn implements [IdentityProvider]. It POSTs the credentials to
// POST /api/identity/signin and keeps the returned session as current.
func (h *httpIdentityProvider) SignIn(ctx context.Context, email, password string) (models.ProviderSession, error) {
	return h.authenticate(ctx, "/api/identity/signin", email, password)
}

// SignUp implements [IdentityProvider]. It POSTs the credentials to
// POST /api/identity/signup and keeps the returned session as current.
func (h *httpIdentityProvider) SignUp(ctx context.Context, email, password string) (models.ProviderSession, error) {
	return h.authenticate(ctx, "/api/identity/signup", email, password)
}

func (h *httpIdentityProvider) authenticate(ctx context.Context, path, email, password string) (models.ProviderSession, error) {
	var session models.ProviderSession

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.Credentials{Email: email, Password: password}).
		SetResult(&session).
		Post(path)
	if err != nil {
		h.logger.Err(err).Str("func", "*httpIdentityProvider.authenticate").Str("path", path).Msg("identity provider request failed")
		return models.ProviderSession{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ProviderSession{}, err
	}

	h.setCurrent(&session)
	return session, nil
}

// SignOut implements [IdentityProvider]. The current session is dropped
// before the request is sent, so local state is clean whatever the outcome.
func (h *httpIdentityProvider) SignOut(ctx context.Context) error {
	token := h.idToken()
	h.setCurrent(nil)

	if token == "" {
		return nil
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Post("/api/identity/signout")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// CurrentUser implements [IdentityProvider].
func (h *httpIdentityProvider) CurrentUser() (models.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == nil {
		return models.User{}, false
	}
	return h.current.User, true
}

// RefreshIDToken implements [IdentityProvider]. It GETs /api/identity/token
// with the current ID token and replaces the current session with the result.
// A 401 means the provider session is gone; it is dropped locally as well.
func (h *httpIdentityProvider) RefreshIDToken(ctx context.Context) (models.ProviderSession, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.ProviderSession{}, err
	}

	var session models.ProviderSession
	resp, err := req.SetResult(&session).Get("/api/identity/token")
	if err != nil {
		return models.ProviderSession{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		if resp.StatusCode() == http.StatusUnauthorized {
			h.setCurrent(nil)
		}
		return models.ProviderSession{}, err
	}

	h.setCurrent(&session)
	return session, nil
}

// UpdateProfile implements [IdentityProvider]. It PATCHes
// /api/identity/profile and mirrors the new display name into the current
// session.
func (h *httpIdentityProvider) UpdateProfile(ctx context.Context, displayName string) (models.User, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	resp, err := req.
		SetBody(models.UpdateProfileRequest{DisplayName: displayName}).
		SetResult(&user).
		Patch("/api/identity/profile")
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	h.mu.Lock()
	if h.current != nil && h.current.User.UID == user.UID {
		h.current.User = user
	}
	h.mu.Unlock()

	return user, nil
}

func (h *httpIdentityProvider) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.idToken()
	if token == "" {
		return nil, ErrNoCurrentUser
	}
	return h.client.R().SetContext(ctx).SetAuthToken(token), nil
}

func (h *httpIdentityProvider) idToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == nil {
		return ""
	}
	return h.current.IDToken
}

func (h *httpIdentityProvider) setCurrent(session *models.ProviderSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = session
}
