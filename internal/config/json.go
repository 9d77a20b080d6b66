// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// duration fields that accept "1h" style strings.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey    string   `json:"token_sign_key"`
		TokenIssuer     string   `json:"token_issuer"`
		TokenAudience   string   `json:"token_audience"`
		AccessTokenTTL  Duration `json:"access_token_ttl"`
		DataKey         string   `json:"data_key"`
		DataKeySalt     string   `json:"data_key_salt"`
		PasswordHashKey string   `json:"password_hash_key"`
		Version         string   `json:"version"`
		BootstrapAdmin  string   `json:"bootstrap_admin_email"`
	} `json:"app,omitempty"`

	Session struct {
		Duration              Duration `json:"duration"`
		PersistentDuration    Duration `json:"persistent_duration"`
		MaxLifetime           Duration `json:"max_lifetime"`
		PersistentMaxLifetime Duration `json:"persistent_max_lifetime"`
		MaxInactive           Duration `json:"max_inactive"`
		Warning               Duration `json:"warning"`
		ValidatorInterval     Duration `json:"validator_interval"`
		ActivityThrottle      Duration `json:"activity_throttle"`
	} `json:"session,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`

		Ephemeral struct {
			Driver        string `json:"driver"`
			RedisAddress  string `json:"redis_address"`
			RedisPassword string `json:"redis_password"`
			RedisDB       int    `json:"redis_db"`
		} `json:"ephemeral,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		IdentityURL    string   `json:"identity_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:        jsonCfg.App.TokenSignKey,
			TokenIssuer:         jsonCfg.App.TokenIssuer,
			TokenAudience:       jsonCfg.App.TokenAudience,
			AccessTokenTTL:      time.Duration(jsonCfg.App.AccessTokenTTL),
			DataKey:             jsonCfg.App.DataKey,
			DataKeySalt:         jsonCfg.App.DataKeySalt,
			PasswordHashKey:     jsonCfg.App.PasswordHashKey,
			Version:             jsonCfg.App.Version,
			BootstrapAdminEmail: jsonCfg.App.BootstrapAdmin,
		},
		Session: Session{
			Duration:              time.Duration(jsonCfg.Session.Duration),
			PersistentDuration:    time.Duration(jsonCfg.Session.PersistentDuration),
			MaxLifetime:           time.Duration(jsonCfg.Session.MaxLifetime),
			PersistentMaxLifetime: time.Duration(jsonCfg.Session.PersistentMaxLifetime),
			MaxInactive:           time.Duration(jsonCfg.Session.MaxInactive),
			Warning:               time.Duration(jsonCfg.Session.Warning),
			ValidatorInterval:     time.Duration(jsonCfg.Session.ValidatorInterval),
			ActivityThrottle:      time.Duration(jsonCfg.Session.ActivityThrottle),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
			Ephemeral: Ephemeral{
				Driver:        jsonCfg.Storage.Ephemeral.Driver,
				RedisAddress:  jsonCfg.Storage.Ephemeral.RedisAddress,
				RedisPassword: jsonCfg.Storage.Ephemeral.RedisPassword,
				RedisDB:       jsonCfg.Storage.Ephemeral.RedisDB,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			IdentityURL:    jsonCfg.Adapter.IdentityURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Log: Log{Level: jsonCfg.Log.Level},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
