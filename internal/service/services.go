// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-salon-keeper/internal/adapter"
	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/crypto"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/internal/store"
	"github.com/MKhiriev/go-salon-keeper/internal/validators"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// Services is the service layer of cmd/salon.
type Services struct {
	Tokens           TokenCodec
	Sessions         *SessionStore
	SessionManager   *AuthSessionManager
	RecordService    RecordService
	AppInfoService   AppInfoService
	SessionValidator *SessionValidatorJob
}

// NewServices wires the session core and the record store on top of
// storages and the identity provider client.
func NewServices(storages *store.Storages, provider adapter.IdentityProvider, cfg *config.AppConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	clock := SystemClock()

	cipher, err := crypto.NewDataCipher(cfg.App.DataKey, cfg.App.DataKeySalt)
	if err != nil {
		return nil, fmt.Errorf("error creating record cipher: %w", err)
	}

	appInfo, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, err
	}

	tokens := NewTokenService(cfg.App, clock)
	sessions := NewSessionStore(cfg.Session, clock, storages.PersistentKV, storages.EphemeralKV, logger)
	records := NewRecordStore(storages.RecordRepository, cipher, validators.NewRecordValidator(), clock, logger)

	return &Services{
		Tokens:           tokens,
		Sessions:         sessions,
		SessionManager:   NewAuthSessionManager(provider, tokens, sessions, records, cfg.Session, clock, logger),
		RecordService:    records,
		AppInfoService:   appInfo,
		SessionValidator: NewSessionValidatorJob(sessions, cfg.Session.ValidatorInterval),
	}, nil
}

// IdentityServices is the service layer of cmd/identity.
type IdentityServices struct {
	IdentityService IdentityService
	AppInfoService  AppInfoService
}

// NewIdentityServices wires the account authority on top of storages.
func NewIdentityServices(storages *store.IdentityStorages, cfg *config.IdentityConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*IdentityServices, error) {
	clock := SystemClock()

	appInfo, err := NewAppInfoService(cfg.App, buildInfo, logger)
	if err != nil {
		return nil, err
	}

	tokens := NewTokenService(cfg.App, clock)

	return &IdentityServices{
		IdentityService: NewIdentityService(storages.UserRepository, tokens, cfg.App, clock, logger),
		AppInfoService:  appInfo,
	}, nil
}
