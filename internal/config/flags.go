// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses configuration flags from args using a dedicated
// FlagSet, so repeated calls and tests never touch flag.CommandLine.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-db-driver database driver (postgres, sqlite, memory)
//	-ephemeral ephemeral session tier (memory, redis)
//	-redis-address redis address host:port
//	-identity-url identity provider base URL
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-access-token-ttl access token lifetime (e.g., "1h")
//	-data-key record encryption passphrase
//	-password-hash-key password hash key
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-session-duration regular session lifetime
//	-max-inactive inactivity window
//	-log-level zerolog level
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("salon-keeper", flag.ContinueOnError)

	var serverAddress, redisAddress NetAddress
	var databaseDSN, dbDriver, ephemeralDriver string
	var identityURL string
	var jsonConfigPath string
	var tokenSignKey, tokenIssuer string
	var accessTokenTTL time.Duration
	var dataKey, passwordHashKey string
	var requestTimeout time.Duration
	var sessionDuration, maxInactive time.Duration
	var logLevel string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&dbDriver, "db-driver", "", "Database driver (postgres, sqlite, memory)")
	fs.StringVar(&ephemeralDriver, "ephemeral", "", "Ephemeral session tier (memory, redis)")
	fs.Var(&redisAddress, "redis-address", "Redis address host:port")
	fs.StringVar(&identityURL, "identity-url", "", "Identity provider base URL")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&accessTokenTTL, "access-token-ttl", 0, "Access token lifetime (e.g., 1h, 30m)")
	fs.StringVar(&dataKey, "data-key", "", "Record encryption passphrase")
	fs.StringVar(&passwordHashKey, "password-hash-key", "", "Password hash key")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&sessionDuration, "session-duration", 0, "Regular session lifetime")
	fs.DurationVar(&maxInactive, "max-inactive", 0, "Inactivity window")
	fs.StringVar(&logLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:    tokenSignKey,
			TokenIssuer:     tokenIssuer,
			AccessTokenTTL:  accessTokenTTL,
			DataKey:         dataKey,
			PasswordHashKey: passwordHashKey,
		},
		Session: Session{
			Duration:    sessionDuration,
			MaxInactive: maxInactive,
		},
		Storage: Storage{
			DB: DB{
				Driver: dbDriver,
				DSN:    databaseDSN,
			},
			Ephemeral: Ephemeral{
				Driver:       ephemeralDriver,
				RedisAddress: redisAddress.String(),
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			IdentityURL:    identityURL,
			RequestTimeout: requestTimeout,
		},
		Log:          Log{Level: logLevel},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
