// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered identifiers for records, sessions,
// accounts and trace ids.
type UUIDGenerator struct {
	prefix string
}

// NewUUIDGenerator returns a generator of bare UUIDv7 strings.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewPrefixedUUIDGenerator returns a generator of "<prefix>_<uuid>" strings.
func NewPrefixedUUIDGenerator(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate returns a new identifier. It falls back to a random v4 UUID if
// the v7 clock source fails.
func (g *UUIDGenerator) Generate() string {
	id := newUUID()
	if g == nil || g.prefix == "" {
		return id
	}
	return g.prefix + "_" + id
}

func newUUID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
