// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strings"
	"testing"
)

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("s3cret!", "key")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("s3cret!", "key")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if first == second {
		t.Error("expected equal passwords to hash differently")
	}
	if !strings.HasPrefix(first, "$2a$") {
		t.Errorf("expected a bcrypt hash, got %q", first)
	}
	if !VerifyPassword("s3cret!", first, "key") || !VerifyPassword("s3cret!", second, "key") {
		t.Error("expected both hashes to verify")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", "key")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if VerifyPassword("wrong", hash, "key") {
		t.Error("expected wrong password to be rejected")
	}
	if VerifyPassword("s3cret!", hash, "other-key") {
		t.Error("expected wrong pepper to be rejected")
	}
	if VerifyPassword("s3cret!", HashString("s3cret!", "key"), "key") {
		t.Error("expected an unsalted HMAC to be rejected")
	}
	if VerifyPassword("s3cret!", "", "key") {
		t.Error("expected empty hash to be rejected")
	}
}

func TestHashPassword_LongPassword(t *testing.T) {
	long := strings.Repeat("x", 200)
	hash, err := HashPassword(long, "key")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if VerifyPassword(long[:100], hash, "key") {
		t.Error("expected a truncated password to be rejected")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword("", "key"); err == nil {
		t.Error("expected error for empty password")
	}
}
