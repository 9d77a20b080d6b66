// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"strings"
	"sync"

	"github.com/MKhiriev/go-salon-keeper/models"
)

type memoryUserRepository struct {
	mu      sync.RWMutex
	byUID   map[string]models.Account
	byEmail map[string]string
}

// NewMemoryUserRepository returns an empty in-memory [UserRepository].
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byUID:   make(map[string]models.Account),
		byEmail: make(map[string]string),
	}
}

func (m *memoryUserRepository) CreateUser(_ context.Context, account models.Account) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account.Email = strings.ToLower(account.Email)
	if _, taken := m.byEmail[account.Email]; taken {
		return models.Account{}, ErrEmailAlreadyExists
	}

	m.byUID[account.UID] = account
	m.byEmail[account.Email] = account.UID
	return account, nil
}

func (m *memoryUserRepository) FindUserByEmail(ctx context.Context, email string) (models.Account, error) {
	m.mu.RLock()
	uid, ok := m.byEmail[strings.ToLower(email)]
	m.mu.RUnlock()

	if !ok {
		return models.Account{}, ErrNoUserWasFound
	}
	return m.FindUserByUID(ctx, uid)
}

func (m *memoryUserRepository) FindUserByUID(_ context.Context, uid string) (models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.byUID[uid]
	if !ok {
		return models.Account{}, ErrNoUserWasFound
	}
	account.Claims.Permissions = append([]string(nil), account.Claims.Permissions...)
	return account, nil
}

func (m *memoryUserRepository) UpdateUser(_ context.Context, account models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byUID[account.UID]
	if !ok {
		return ErrNoUserWasFound
	}

	current.DisplayName = account.DisplayName
	current.EmailVerified = account.EmailVerified
	current.Claims = account.Claims
	current.LastSignInAt = account.LastSignInAt
	m.byUID[account.UID] = current
	return nil
}
