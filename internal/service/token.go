// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// defaultTTL is what ParseTTL falls back to for input it cannot read.
const defaultTTL = 24 * time.Hour

// tokenService is the HMAC-SHA256 JWT implementation of [TokenCodec].
type tokenService struct {
	signKey   string
	issuer    string
	audience  string
	accessTTL time.Duration

	clock Clock
	ids   *utils.UUIDGenerator
}

// NewTokenService constructs a [TokenCodec] from the token settings in cfg.
// Verification uses clock for expiry checks.
func NewTokenService(cfg config.App, clock Clock) TokenCodec {
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}

	return &tokenService{
		signKey:   cfg.TokenSignKey,
		issuer:    cfg.TokenIssuer,
		audience:  cfg.TokenAudience,
		accessTTL: accessTTL,
		clock:     clock,
		ids:       utils.NewUUIDGenerator(),
	}
}

// Mint implements [TokenCodec].
func (s *tokenService) Mint(claims models.TokenClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("%w: non-positive ttl %s", ErrTokenCreationFailed, ttl)
	}

	now := s.clock.Now()
	claims.Issuer = s.issuer
	claims.Audience = jwt.ClaimStrings{s.audience}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.ID == "" {
		claims.ID = s.ids.Generate()
	}
	if claims.Type == "" {
		claims.Type = models.AccessToken
	}

	token, err := utils.SignJWT(&claims, s.signKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}
	return token, nil
}

// MintPair implements [TokenCodec]. The access token never outlives the
// refresh token.
func (s *tokenService) MintPair(user models.User, sessionID, providerToken string, refreshTTL time.Duration) (models.TokenPair, error) {
	base := claimsForUser(user, sessionID, providerToken)

	accessTTL := min(s.accessTTL, refreshTTL)

	access := base
	access.Type = models.AccessToken
	accessToken, err := s.Mint(access, accessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh := base
	refresh.Type = models.RefreshToken
	refreshToken, err := s.Mint(refresh, refreshTTL)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

// Verify implements [TokenCodec].
func (s *tokenService) Verify(token string) (*models.TokenClaims, bool) {
	var claims models.TokenClaims
	if err := s.parse(token, &claims); err != nil {
		return nil, false
	}
	return &claims, true
}

// claimDefects are the claim validation failures that disqualify a token
// even when it has also expired.
var claimDefects = []error{
	jwt.ErrTokenInvalidIssuer,
	jwt.ErrTokenInvalidAudience,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenRequiredClaimMissing,
}

// VerifyExpired implements [TokenCodec]. The parser checks the signature
// before any claim, so an expiry error implies a genuine signature.
func (s *tokenService) VerifyExpired(token string) (*models.TokenClaims, bool) {
	var claims models.TokenClaims

	err := s.parse(token, &claims)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		return nil, false
	}
	for _, defect := range claimDefects {
		if errors.Is(err, defect) {
			return nil, false
		}
	}

	return &claims, true
}

func (s *tokenService) parse(token string, claims *models.TokenClaims) error {
	return utils.ParseJWT(token, s.signKey, claims,
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.clock.Now),
	)
}

func claimsForUser(user models.User, sessionID, providerToken string) models.TokenClaims {
	return models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.UID},
		Email:            user.Email,
		Name:             user.DisplayName,
		Role:             user.Claims.Role,
		Permissions:      append([]string{}, user.Claims.Permissions...),
		Admin:            user.Claims.Admin,
		SessionID:        sessionID,
		ProviderToken:    providerToken,
	}
}

// ParseTTL reads durations such as "30s", "15m", "1h" or "30d": a positive
// integer followed by exactly one unit character. Anything else yields 24h.
func ParseTTL(ttl string) time.Duration {
	if len(ttl) < 2 {
		return defaultTTL
	}

	n, err := strconv.ParseInt(ttl[:len(ttl)-1], 10, 64)
	if err != nil || n <= 0 {
		return defaultTTL
	}

	var unit time.Duration
	switch ttl[len(ttl)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	default:
		return defaultTTL
	}

	return time.Duration(n) * unit
}
