// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
)

func newTestRedisKV(t *testing.T) (KeyValueStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), config.Ephemeral{RedisAddress: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisKeyValueStore(client), mr
}

func TestRedisKeyValueStore_SetGetDelete(t *testing.T) {
	kv, mr := newTestRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "session", "payload", 0))
	assert.True(t, mr.Exists(redisKeyPrefix+"session"))

	v, err := kv.Get(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, "payload", v)

	require.NoError(t, kv.Delete(ctx, "session", "other"))
	_, err = kv.Get(ctx, "session")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisKeyValueStore_TTL(t *testing.T) {
	kv, mr := newTestRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "session", "payload", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(redisKeyPrefix+"session"))

	mr.FastForward(time.Minute + time.Second)

	_, err := kv.Get(ctx, "session")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), config.Ephemeral{RedisAddress: addr})
	assert.Error(t, err)
}

func TestNewStorages_Memory(t *testing.T) {
	s, err := NewStorages(context.Background(), config.Storage{
		DB:        config.DB{Driver: config.DriverMemory},
		Ephemeral: config.Ephemeral{Driver: config.EphemeralMemory},
	}, nopLogger())
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.RecordRepository)
	assert.NotNil(t, s.PersistentKV)
	assert.NotNil(t, s.EphemeralKV)
}

func TestNewStorages_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewStorages(context.Background(), config.Storage{
		DB:        config.DB{Driver: config.DriverMemory},
		Ephemeral: config.Ephemeral{Driver: config.EphemeralRedis, RedisAddress: mr.Addr()},
	}, nopLogger())
	require.NoError(t, err)

	require.NoError(t, s.EphemeralKV.Set(context.Background(), "k", "v", 0))
	assert.True(t, mr.Exists(redisKeyPrefix+"k"))
	assert.NoError(t, s.Close())
}

func TestNewStorages_UnknownDriver(t *testing.T) {
	_, err := NewStorages(context.Background(), config.Storage{
		DB:        config.DB{Driver: "mongo"},
		Ephemeral: config.Ephemeral{Driver: config.EphemeralMemory},
	}, nopLogger())
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewStorages(context.Background(), config.Storage{
		DB:        config.DB{Driver: config.DriverMemory},
		Ephemeral: config.Ephemeral{Driver: "memcached"},
	}, nopLogger())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewIdentityStorages_Memory(t *testing.T) {
	s, err := NewIdentityStorages(context.Background(), config.Storage{
		DB: config.DB{Driver: config.DriverMemory},
	}, nopLogger())
	require.NoError(t, err)
	assert.NotNil(t, s.UserRepository)
	assert.NoError(t, s.Close())
}
