// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestHashString_MatchesHMAC(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("key"))
	mac.Write([]byte("password"))
	want := hex.EncodeToString(mac.Sum(nil))

	if got := HashString("password", "key"); got != want {
		t.Errorf("HashString() = %s, want %s", got, want)
	}
}

func TestHashString_Deterministic(t *testing.T) {
	if HashString("data", "key") != HashString("data", "key") {
		t.Error("expected identical hashes for identical input")
	}
	if HashString("data", "key") == HashString("data", "other") {
		t.Error("expected different hashes for different keys")
	}
}
