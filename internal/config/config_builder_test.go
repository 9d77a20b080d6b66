// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder(nil)
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilderYieldsDefaults(t *testing.T) {
	cfg, err := newConfigBuilder(nil).build()
	require.NoError(t, err)

	want := Defaults()
	assert.Equal(t, &want, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder(nil)
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_LaterSourceOverridesEarlier(t *testing.T) {
	b := newConfigBuilder(nil)
	b.configs = append(b.configs,
		&StructuredConfig{App: App{TokenSignKey: "from-env", TokenIssuer: "env-issuer"}},
		&StructuredConfig{App: App{TokenSignKey: "from-json"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "from-json", cfg.App.TokenSignKey)
	assert.Equal(t, "env-issuer", cfg.App.TokenIssuer, "zero field in later source must not erase earlier value")
}

func TestBuild_DefaultsFillOnlyZeroFields(t *testing.T) {
	b := newConfigBuilder(nil)
	b.configs = append(b.configs, &StructuredConfig{
		Session: Session{MaxInactive: 10 * time.Minute},
	})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Session.MaxInactive)
	assert.Equal(t, 24*time.Hour, cfg.Session.Duration)
	assert.Equal(t, 30*time.Second, cfg.Session.ActivityThrottle)
}

// ── withFlags / withJSON ──────────────────────────────────────────────────────

func TestWithFlags_InvalidFlagRecordsError(t *testing.T) {
	b := newConfigBuilder([]string{"-unknown-flag"}).withFlags()
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

func TestWithJSON_NoPathIsNoop(t *testing.T) {
	b := newConfigBuilder(nil)
	b.configs = append(b.configs, &StructuredConfig{})

	b.withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_MissingFileRecordsError(t *testing.T) {
	b := newConfigBuilder(nil)
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/definitely/missing.json"})

	b.withJSON()
	assert.Error(t, b.err)
}

func TestBuilder_FlagsPointToJSON(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"app":     map[string]any{"token_sign_key": "json-key", "data_key": "json-data"},
		"session": map[string]any{"max_inactive": "15m"},
	})

	cfg, err := newConfigBuilder([]string{"-c", path, "-token-issuer", "flag-issuer"}).
		withFlags().
		withJSON().
		build()
	require.NoError(t, err)

	assert.Equal(t, "json-key", cfg.App.TokenSignKey)
	assert.Equal(t, "json-data", cfg.App.DataKey)
	assert.Equal(t, "flag-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 15*time.Minute, cfg.Session.MaxInactive)
	assert.Equal(t, path, cfg.JSONFilePath)
}

// ── views ─────────────────────────────────────────────────────────────────────

func validStructured() *StructuredConfig {
	cfg := Defaults()
	cfg.App.TokenSignKey = "sign"
	cfg.App.DataKey = "data"
	cfg.App.PasswordHashKey = "hash"
	cfg.Adapter.IdentityURL = "http://localhost:8081"
	return &cfg
}

func TestNewAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*StructuredConfig) {}},
		{
			name:    "missing sign key",
			mutate:  func(c *StructuredConfig) { c.App.TokenSignKey = "" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "missing data key",
			mutate:  func(c *StructuredConfig) { c.App.DataKey = "" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "missing identity url",
			mutate:  func(c *StructuredConfig) { c.Adapter.IdentityURL = "" },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "unknown db driver",
			mutate:  func(c *StructuredConfig) { c.Storage.DB.Driver = "oracle" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *StructuredConfig) { c.Storage.DB = DB{Driver: DriverPostgres} },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:   "memory without dsn",
			mutate: func(c *StructuredConfig) { c.Storage.DB = DB{Driver: DriverMemory} },
		},
		{
			name:    "redis without address",
			mutate:  func(c *StructuredConfig) { c.Storage.Ephemeral = Ephemeral{Driver: EphemeralRedis} },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "warning longer than session",
			mutate:  func(c *StructuredConfig) { c.Session.Warning = 25 * time.Hour },
			wantErr: ErrInvalidSessionConfigs,
		},
		{
			name:    "max lifetime below duration",
			mutate:  func(c *StructuredConfig) { c.Session.MaxLifetime = time.Hour },
			wantErr: ErrInvalidSessionConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validStructured()
			tt.mutate(cfg)

			appCfg, err := newAppConfig(cfg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, appCfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg.Session, appCfg.Session)
		})
	}
}

func TestNewIdentityConfig(t *testing.T) {
	cfg := validStructured()
	cfg.Adapter = Adapter{}

	idCfg, err := newIdentityConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "hash", idCfg.App.PasswordHashKey)

	cfg.App.PasswordHashKey = ""
	_, err = newIdentityConfig(cfg)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}
