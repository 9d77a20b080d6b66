// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func newTestCipher(t *testing.T, passphrase string) DataCipher {
	t.Helper()
	c, err := NewDataCipher(passphrase, "test-salt")
	if err != nil {
		t.Fatalf("NewDataCipher error: %v", err)
	}
	return c
}

func TestNewDataCipher_EmptyPassphrase(t *testing.T) {
	if _, err := NewDataCipher("", "salt"); !errors.Is(err, ErrEmptyPassphrase) {
		t.Fatalf("expected ErrEmptyPassphrase, got %v", err)
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, 16)

	k1 := DeriveKey("correct horse battery staple", salt)
	k2 := DeriveKey("correct horse battery staple", salt)
	k3 := DeriveKey("correct horse battery staple", bytes.Repeat([]byte{0xCD}, 16))

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatal("expected identical keys for identical inputs")
	}
	if bytes.Equal(k1, k3) {
		t.Fatal("expected different keys for different salts")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t, "passphrase")
	in := map[string]any{"name": "Jane", "phone": "+1 555 0100", "visits": float64(3)}

	blob, err := c.Encrypt(in)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if strings.Contains(blob, "Jane") {
		t.Fatal("ciphertext leaks plaintext")
	}

	var out map[string]any
	if err := c.Decrypt(blob, &out); err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
	if out["name"] != "Jane" || out["phone"] != "+1 555 0100" || out["visits"] != float64(3) {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestEncrypt_RandomNonce(t *testing.T) {
	c := newTestCipher(t, "passphrase")

	b1, _ := c.Encrypt("same")
	b2, _ := c.Encrypt("same")
	if b1 == b2 {
		t.Fatal("expected different blobs for repeated encryption")
	}
}

func TestEncrypt_UnmarshalableValue(t *testing.T) {
	c := newTestCipher(t, "passphrase")
	if _, err := c.Encrypt(make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestDecrypt_Failures(t *testing.T) {
	c := newTestCipher(t, "passphrase")
	other := newTestCipher(t, "another-passphrase")

	blob, err := c.Encrypt(map[string]string{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := base64.StdEncoding.DecodeString(blob)
	raw[len(raw)-1] ^= 0xFF
	tampered := base64.StdEncoding.EncodeToString(raw)

	notJSON, err := c.Encrypt("plain string")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		cipher DataCipher
		blob   string
		target any
	}{
		{"not base64", c, "%%%", &map[string]string{}},
		{"too short", c, base64.StdEncoding.EncodeToString([]byte{1, 2}), &map[string]string{}},
		{"tampered", c, tampered, &map[string]string{}},
		{"wrong key", other, blob, &map[string]string{}},
		{"wrong target type", c, notJSON, &map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cipher.Decrypt(tt.blob, tt.target)
			if !errors.Is(err, ErrDecryption) {
				t.Fatalf("expected ErrDecryption, got %v", err)
			}
		})
	}
}
