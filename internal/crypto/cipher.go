// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the at-rest cipher for record bodies.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// defaultSalt is used when no salt is configured. Changing it makes every
// previously encrypted record unreadable.
const defaultSalt = "salon-keeper/records/v1"

// Argon2id parameters recommended by OWASP (2024).
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024 // 64 MiB
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32 // AES-256
)

type aesGCMCipher struct {
	gcm cipher.AEAD
}

// NewDataCipher derives a 256-bit key from passphrase and salt with Argon2id
// and returns an AES-256-GCM [DataCipher]. An empty salt selects the built-in
// default.
func NewDataCipher(passphrase, salt string) (DataCipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if salt == "" {
		salt = defaultSalt
	}

	key := DeriveKey(passphrase, []byte(salt))
	return newAESGCMCipher(key)
}

// DeriveKey stretches passphrase into an AES-256 key using Argon2id.
func DeriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

func newAESGCMCipher(key []byte) (*aesGCMCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &aesGCMCipher{gcm: gcm}, nil
}

// Encrypt implements [DataCipher].
func (c *aesGCMCipher) Encrypt(data any) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}

	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := c.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [DataCipher].
func (c *aesGCMCipher) Decrypt(blob string, target any) error {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return fmt.Errorf("%w: decode base64: %w", ErrDecryption, err)
	}

	nonceSize := c.gcm.NonceSize()
	if len(raw) < nonceSize {
		return fmt.Errorf("%w: ciphertext too short", ErrDecryption)
	}
	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("%w: unmarshal data: %w", ErrDecryption, err)
	}

	return nil
}
