// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SignJWT signs claims with HMAC-SHA256 using signKey and returns the
// compact header.payload.signature string.
//
// Example usage:
//
//	signed, err := utils.SignJWT(&jwt.RegisteredClaims{Subject: "uid"}, "secret")
func SignJWT(claims jwt.Claims, signKey string) (string, error) {
	if claims == nil || signKey == "" {
		return "", errors.New("invalid params for signing JWT token")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return signed, nil
}

// ParseJWT verifies tokenString and decodes its payload into claims.
//
// Validation includes:
//   - Signature verification with signKey; only HS256 is accepted
//   - Expiration (exp) claim check (always required)
//   - Whatever extra checks opts add (jwt.WithIssuer, jwt.WithAudience,
//     jwt.WithTimeFunc, ...)
//
// Example usage:
//
//	var claims models.TokenClaims
//	err := utils.ParseJWT(raw, "secret", &claims, jwt.WithIssuer("salon-keeper"))
func ParseJWT(tokenString, signKey string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	if tokenString == "" {
		return errors.New("empty token")
	}

	opts = append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}, opts...)

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	return nil
}

// ParseJWTUnverified decodes the payload of tokenString into claims without
// checking the signature. Only use it on tokens that came from a trusted
// channel, for example to read the expiry of a provider token.
func ParseJWTUnverified(tokenString string, claims jwt.Claims) error {
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return fmt.Errorf("error occurred parsing unverified token: %w", err)
	}
	return nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <t>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
