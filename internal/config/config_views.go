// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// AppConfig is the validated configuration of the salon backend process.
type AppConfig struct {
	App     App
	Session Session
	Storage Storage
	Server  Server
	Adapter Adapter
	Log     Log
}

// IdentityConfig is the validated configuration of the identity provider
// process. It needs no session or adapter settings.
type IdentityConfig struct {
	App     App
	Storage Storage
	Server  Server
	Log     Log
}

// GetAppConfig loads the structured configuration and narrows it to the
// salon backend view.
func GetAppConfig() (*AppConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	return newAppConfig(cfg)
}

// GetIdentityConfig loads the structured configuration and narrows it to
// the identity provider view.
func GetIdentityConfig() (*IdentityConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	return newIdentityConfig(cfg)
}

func newAppConfig(cfg *StructuredConfig) (*AppConfig, error) {
	appCfg := &AppConfig{
		App:     cfg.App,
		Session: cfg.Session,
		Storage: cfg.Storage,
		Server:  cfg.Server,
		Adapter: cfg.Adapter,
		Log:     cfg.Log,
	}

	if err := appCfg.validate(); err != nil {
		return nil, fmt.Errorf("error validating app config: %w", err)
	}

	return appCfg, nil
}

func newIdentityConfig(cfg *StructuredConfig) (*IdentityConfig, error) {
	idCfg := &IdentityConfig{
		App:     cfg.App,
		Storage: cfg.Storage,
		Server:  cfg.Server,
		Log:     cfg.Log,
	}

	if err := idCfg.validate(); err != nil {
		return nil, fmt.Errorf("error validating identity config: %w", err)
	}

	return idCfg, nil
}
