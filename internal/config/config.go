// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// salon and identity binaries. It is populated by merging environment
// variables, command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token, encryption and hashing secrets.
	App App `envPrefix:"APP_"`

	// Session holds the session lifetime and timer settings.
	Session Session `envPrefix:"SESSION_"`

	// Storage holds the record database and the session key-value tiers.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the inbound HTTP listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the identity provider client settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Log holds logger settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level secrets and token parameters.
type App struct {
	// TokenSignKey signs and verifies session tokens (salon) or provider
	// ID tokens (identity).
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in and required from tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenAudience is the "aud" claim embedded in and required from tokens.
	// Env: APP_TOKEN_AUDIENCE
	TokenAudience string `env:"TOKEN_AUDIENCE"`

	// AccessTokenTTL is the lifetime of an access token (e.g. "1h").
	// Env: APP_ACCESS_TOKEN_TTL
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL"`

	// DataKey is the passphrase the record cipher key is derived from.
	// Env: APP_DATA_KEY
	DataKey string `env:"DATA_KEY"`

	// DataKeySalt is the salt used when deriving the record cipher key.
	// Env: APP_DATA_KEY_SALT
	DataKeySalt string `env:"DATA_KEY_SALT"`

	// PasswordHashKey peppers account passwords before bcrypt (identity).
	// Env: APP_PASSWORD_HASH_KEY
	PasswordHashKey string `env:"PASSWORD_HASH_KEY"`

	// BootstrapAdminEmail is granted admin claims when it signs up
	// (identity). Env: APP_BOOTSTRAP_ADMIN_EMAIL
	BootstrapAdminEmail string `env:"BOOTSTRAP_ADMIN_EMAIL"`

	// Version is the semantic version reported by /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Session holds session lifetimes and timer periods.
type Session struct {
	// Duration is the lifetime of a regular session. Env: SESSION_DURATION
	Duration time.Duration `env:"DURATION"`

	// PersistentDuration is the lifetime of a "remember me" session.
	// Env: SESSION_PERSISTENT_DURATION
	PersistentDuration time.Duration `env:"PERSISTENT_DURATION"`

	// MaxLifetime caps how far a regular session may be extended past its
	// creation. Env: SESSION_MAX_LIFETIME
	MaxLifetime time.Duration `env:"MAX_LIFETIME"`

	// PersistentMaxLifetime caps extension of a "remember me" session.
	// Env: SESSION_PERSISTENT_MAX_LIFETIME
	PersistentMaxLifetime time.Duration `env:"PERSISTENT_MAX_LIFETIME"`

	// MaxInactive is the allowed gap between two tracked activities.
	// Env: SESSION_MAX_INACTIVE
	MaxInactive time.Duration `env:"MAX_INACTIVE"`

	// Warning is how long before expiry the warning event fires.
	// Env: SESSION_WARNING
	Warning time.Duration `env:"WARNING"`

	// ValidatorInterval is the period of the background validity check.
	// Env: SESSION_VALIDATOR_INTERVAL
	ValidatorInterval time.Duration `env:"VALIDATOR_INTERVAL"`

	// ActivityThrottle is the minimum gap between two persisted activity
	// updates. Env: SESSION_ACTIVITY_THROTTLE
	ActivityThrottle time.Duration `env:"ACTIVITY_THROTTLE"`
}

// Storage groups all persistence backends.
type Storage struct {
	// DB is the relational database holding records, accounts and the
	// persistent session tier.
	DB DB `envPrefix:"DB_"`

	// Ephemeral is the short-lived session tier.
	Ephemeral Ephemeral `envPrefix:"EPHEMERAL_"`
}

// Database drivers understood by the store package.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DB holds relational database connection settings.
type DB struct {
	// Driver is one of "postgres", "sqlite" or "memory".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the connection string or SQLite file path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Ephemeral tier drivers.
const (
	EphemeralMemory = "memory"
	EphemeralRedis  = "redis"
)

// Ephemeral holds settings of the session-lifetime key-value tier.
type Ephemeral struct {
	// Driver is "memory" or "redis". Env: STORAGE_EPHEMERAL_DRIVER
	Driver string `env:"DRIVER"`

	// RedisAddress is host:port of the redis server.
	// Env: STORAGE_EPHEMERAL_REDIS_ADDRESS
	RedisAddress string `env:"REDIS_ADDRESS"`

	// RedisPassword is the optional redis password.
	// Env: STORAGE_EPHEMERAL_REDIS_PASSWORD
	RedisPassword string `env:"REDIS_PASSWORD"`

	// RedisDB is the redis logical database index.
	// Env: STORAGE_EPHEMERAL_REDIS_DB
	RedisDB int `env:"REDIS_DB"`
}

// Server holds the inbound transport settings.
type Server struct {
	// HTTPAddress is the "host:port" the HTTP server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the identity provider client settings.
type Adapter struct {
	// IdentityURL is the base URL of the identity provider.
	// Env: ADAPTER_IDENTITY_URL
	IdentityURL string `env:"IDENTITY_URL"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Log holds logger settings.
type Log struct {
	// Level is a zerolog level name. Env: LOG_LEVEL
	Level string `env:"LEVEL"`
}

// Defaults returns the configuration applied underneath every loaded
// source: only fields left empty by env, flags and JSON take these values.
func Defaults() StructuredConfig {
	return StructuredConfig{
		App: App{
			TokenIssuer:    "salon-keeper",
			TokenAudience:  "salon-keeper-app",
			AccessTokenTTL: time.Hour,
		},
		Session: Session{
			Duration:              24 * time.Hour,
			PersistentDuration:    30 * 24 * time.Hour,
			MaxLifetime:           7 * 24 * time.Hour,
			PersistentMaxLifetime: 90 * 24 * time.Hour,
			MaxInactive:           30 * time.Minute,
			Warning:               5 * time.Minute,
			ValidatorInterval:     time.Minute,
			ActivityThrottle:      30 * time.Second,
		},
		Storage: Storage{
			DB:        DB{Driver: DriverSQLite, DSN: "salon.db"},
			Ephemeral: Ephemeral{Driver: EphemeralMemory},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Adapter: Adapter{
			RequestTimeout: 10 * time.Second,
		},
		Log: Log{Level: "info"},
	}
}

// GetStructuredConfig loads, merges and defaults the configuration from all
// sources. Later sources override earlier non-zero fields:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// The result is not validated; use [GetAppConfig] or [GetIdentityConfig].
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder(os.Args[1:]).
		withEnv().
		withFlags().
		withJSON().
		build()
}
