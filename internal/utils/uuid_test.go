// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()
	a, b := g.Generate(), g.Generate()

	if a == b {
		t.Fatal("expected unique identifiers")
	}
	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("expected valid uuid, got %q: %v", a, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected uuid v7, got v%d", parsed.Version())
	}
}

func TestUUIDGenerator_Prefixed(t *testing.T) {
	id := NewPrefixedUUIDGenerator("session").Generate()
	if !strings.HasPrefix(id, "session_") {
		t.Fatalf("expected session_ prefix, got %q", id)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(id, "session_")); err != nil {
		t.Errorf("expected uuid suffix: %v", err)
	}
}
