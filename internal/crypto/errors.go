// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrDecryption is returned when a blob cannot be decoded, authenticated
	// or unmarshalled.
	ErrDecryption = errors.New("decryption failed")
	// ErrEmptyPassphrase is returned when no key material is configured.
	ErrEmptyPassphrase = errors.New("empty encryption passphrase")
)
