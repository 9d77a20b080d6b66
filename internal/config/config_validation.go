// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

func (s Storage) validate() error {
	switch s.DB.Driver {
	case DriverPostgres, DriverSQLite:
		if s.DB.DSN == "" {
			return fmt.Errorf("%w: empty dsn for driver %q", ErrInvalidStorageConfigs, s.DB.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown db driver %q", ErrInvalidStorageConfigs, s.DB.Driver)
	}

	switch s.Ephemeral.Driver {
	case EphemeralMemory:
	case EphemeralRedis:
		if s.Ephemeral.RedisAddress == "" {
			return fmt.Errorf("%w: empty redis address", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown ephemeral driver %q", ErrInvalidStorageConfigs, s.Ephemeral.Driver)
	}

	return nil
}

func (s Session) validate() error {
	if s.Duration <= 0 || s.PersistentDuration <= 0 || s.MaxInactive <= 0 {
		return fmt.Errorf("%w: lifetimes must be positive", ErrInvalidSessionConfigs)
	}
	if s.Warning <= 0 || s.Warning >= s.Duration {
		return fmt.Errorf("%w: warning must be shorter than session duration", ErrInvalidSessionConfigs)
	}
	if s.MaxLifetime < s.Duration || s.PersistentMaxLifetime < s.PersistentDuration {
		return fmt.Errorf("%w: max lifetime shorter than initial lifetime", ErrInvalidSessionConfigs)
	}
	if s.ValidatorInterval <= 0 {
		return fmt.Errorf("%w: validator interval must be positive", ErrInvalidSessionConfigs)
	}

	return nil
}

func (cfg *AppConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.DataKey == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Adapter.IdentityURL == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if err := cfg.Storage.validate(); err != nil {
		return err
	}

	return cfg.Session.validate()
}

func (cfg *IdentityConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.PasswordHashKey == "" {
		return ErrInvalidAppConfigs
	}

	return cfg.Storage.validate()
}
