// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/store"
	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// identityService is the account authority behind cmd/identity.
// Passwords are stored as salted bcrypt hashes and ID tokens are JWTs of
// type "id" carrying the account's claims.
type identityService struct {
	userRepository store.UserRepository
	tokens         TokenCodec

	// hashKey peppers passwords before they are hashed.
	hashKey string

	// bootstrapAdmin is granted admin claims when it signs up.
	bootstrapAdmin string

	idTokenTTL time.Duration

	clock Clock
	ids   *utils.UUIDGenerator

	logger *logger.Logger
}

// NewIdentityService constructs an [IdentityService]. tokens signs the ID
// tokens; it must be configured with the identity provider's own key.
func NewIdentityService(userRepository store.UserRepository, tokens TokenCodec, cfg config.App, clock Clock, logger *logger.Logger) IdentityService {
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &identityService{
		userRepository: userRepository,
		tokens:         tokens,
		hashKey:        cfg.PasswordHashKey,
		bootstrapAdmin: strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail)),
		idTokenTTL:     ttl,
		clock:          clock,
		ids:            utils.NewUUIDGenerator(),
		logger:         logger,
	}
}

// SignUp creates an account with the default claims: role "user" and the
// default permissions, or admin claims for the bootstrap admin email.
//
// Returns ErrInvalidDataProvided for an empty email or password and a
// wrapped [store.ErrEmailAlreadyExists] for a taken email.
func (s *identityService) SignUp(ctx context.Context, creds models.Credentials) (models.ProviderSession, error) {
	log := logger.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		log.Error().Str("email", email).Msg("invalid sign up data provided")
		return models.ProviderSession{}, ErrInvalidDataProvided
	}

	passwordHash, err := utils.HashPassword(creds.Password, s.hashKey)
	if err != nil {
		log.Err(err).Str("email", email).Msg("failed to hash password")
		return models.ProviderSession{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now().UTC()
	account := models.Account{
		UID:          s.ids.Generate(),
		Email:        email,
		PasswordHash: passwordHash,
		Claims:       s.initialClaims(email).Raw(),
		CreatedAt:    now,
		LastSignInAt: now,
	}

	created, err := s.userRepository.CreateUser(ctx, account)
	if err != nil {
		log.Err(err).Str("email", email).Msg("account creation ended with error")
		return models.ProviderSession{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	log.Info().Str("user_id", created.UID).Msg("account created")
	return s.providerSession(created)
}

// SignIn checks the password of the account registered under the email.
//
// Returns ErrInvalidDataProvided for empty input, a wrapped
// [store.ErrNoUserWasFound] for an unknown email and ErrWrongPassword for a
// password mismatch.
func (s *identityService) SignIn(ctx context.Context, creds models.Credentials) (models.ProviderSession, error) {
	log := logger.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		log.Error().Str("email", email).Msg("invalid sign in data provided")
		return models.ProviderSession{}, ErrInvalidDataProvided
	}

	account, err := s.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("account search by email failed")
		return models.ProviderSession{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if !utils.VerifyPassword(creds.Password, account.PasswordHash, s.hashKey) {
		log.Error().Str("user_id", account.UID).Msg("wrong password")
		return models.ProviderSession{}, ErrWrongPassword
	}

	account.LastSignInAt = s.clock.Now().UTC()
	if err = s.userRepository.UpdateUser(ctx, account); err != nil {
		log.Err(err).Str("user_id", account.UID).Msg("failed to record sign in time")
	}

	return s.providerSession(account)
}

// IDToken implements [IdentityService].
func (s *identityService) IDToken(ctx context.Context, uid string) (models.ProviderSession, error) {
	account, err := s.findAccount(ctx, uid)
	if err != nil {
		return models.ProviderSession{}, err
	}
	return s.providerSession(account)
}

// VerifyIDToken implements [IdentityService]. Any verification failure is
// reported as ErrTokenIsExpiredOrInvalid.
func (s *identityService) VerifyIDToken(_ context.Context, token string) (string, error) {
	claims, ok := s.tokens.Verify(token)
	if !ok || claims.Type != models.IDToken || claims.Subject == "" {
		return "", ErrTokenIsExpiredOrInvalid
	}
	return claims.Subject, nil
}

// User implements [IdentityService].
func (s *identityService) User(ctx context.Context, uid string) (models.User, error) {
	account, err := s.findAccount(ctx, uid)
	if err != nil {
		return models.User{}, err
	}
	return account.User(), nil
}

// UpdateProfile implements [IdentityService].
func (s *identityService) UpdateProfile(ctx context.Context, uid, displayName string) (models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	account, err := s.findAccount(ctx, uid)
	if err != nil {
		return models.User{}, err
	}

	account.DisplayName = displayName
	if err = s.userRepository.UpdateUser(ctx, account); err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", uid).Msg("failed to update profile")
		return models.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return account.User(), nil
}

// SetClaims implements [IdentityService]. It returns ErrPermissionDenied
// unless callerUID holds admin claims.
func (s *identityService) SetClaims(ctx context.Context, callerUID, targetUID string, claims models.RawClaims) (models.User, error) {
	log := logger.FromContext(ctx)

	caller, err := s.findAccount(ctx, callerUID)
	if err != nil {
		return models.User{}, err
	}
	if !caller.User().Claims.Admin {
		log.Error().Str("user_id", callerUID).Str("target_id", targetUID).Msg("non-admin tried to set claims")
		return models.User{}, ErrPermissionDenied
	}

	target, err := s.findAccount(ctx, targetUID)
	if err != nil {
		return models.User{}, err
	}

	target.Claims = claims
	if err = s.userRepository.UpdateUser(ctx, target); err != nil {
		log.Err(err).Str("target_id", targetUID).Msg("failed to update claims")
		return models.User{}, fmt.Errorf("failed to update claims: %w", err)
	}

	log.Info().Str("user_id", callerUID).Str("target_id", targetUID).Msg("claims updated")
	return target.User(), nil
}

func (s *identityService) findAccount(ctx context.Context, uid string) (models.Account, error) {
	if uid == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	account, err := s.userRepository.FindUserByUID(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("user_id", uid).Msg("account search by uid failed")
		return models.Account{}, fmt.Errorf("account search by uid failed: %w", err)
	}
	return account, nil
}

func (s *identityService) providerSession(account models.Account) (models.ProviderSession, error) {
	user := account.User()

	token, err := s.tokens.Mint(models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.UID},
		Email:            user.Email,
		Name:             user.DisplayName,
		Role:             user.Claims.Role,
		Permissions:      user.Claims.Permissions,
		Admin:            user.Claims.Admin,
		Type:             models.IDToken,
	}, s.idTokenTTL)
	if err != nil {
		return models.ProviderSession{}, err
	}

	return models.ProviderSession{User: user, IDToken: token}, nil
}

func (s *identityService) initialClaims(email string) models.Claims {
	if s.bootstrapAdmin != "" && email == s.bootstrapAdmin {
		return models.Claims{Admin: true, Role: models.RoleAdmin, Permissions: models.DefaultPermissions()}
	}
	return models.Claims{Role: models.RoleUser, Permissions: models.DefaultPermissions()}
}
