// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/data_cipher_mock.go -package=mock

// DataCipher encrypts record bodies at rest.
//
// Blobs are Base64 (standard encoding) of nonce ‖ ciphertext produced by
// AES-256-GCM with a key derived once from the configured passphrase.
type DataCipher interface {
	// Encrypt serializes data to JSON and encrypts it.
	Encrypt(data any) (string, error)

	// Decrypt decrypts blob and unmarshals the JSON plaintext into target
	// (a non-nil pointer, as for json.Unmarshal). Every failure wraps
	// [ErrDecryption].
	Decrypt(blob string, target any) error
}
