// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for account passwords.
const PasswordCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt hash of password. The password is
// first keyed with pepper through [HashString], so a leaked table alone is
// not enough to test guesses, and the bcrypt input always stays at 64 bytes,
// under bcrypt's 72 byte limit.
//
// Example usage:
//
//	hash, err := utils.HashPassword(password, passwordHashKey)
func HashPassword(password, pepper string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(HashString(password, pepper)), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches a hash produced by
// [HashPassword] with the same pepper.
func VerifyPassword(password, hash, pepper string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(HashString(password, pepper))) == nil
}
