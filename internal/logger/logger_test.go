// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_RoleAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "salon", "info")

	l.Info().Msg("hello")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "salon", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Equal(t, "hello", entry["message"])
}

func TestNewLogger_CallerFieldName(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "caller", "debug")
	l.Info().Msg("x")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Contains(t, entry["func"], "TestNewLogger_CallerFieldName")
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "explicit warn", level: "warn", want: zerolog.WarnLevel},
		{name: "empty falls back to debug", level: "", want: zerolog.DebugLevel},
		{name: "unknown falls back to debug", level: "loud", want: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newLogger(&bytes.Buffer{}, "lvl", tt.level)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func TestNop_DiscardsOutput(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestGetChildLogger_DoesNotAffectParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newLogger(&buf, "parent", "debug")

	child := parent.GetChildLogger()
	child.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", "abc")
	})

	parent.Info().Msg("from parent")
	entry := decodeEntry(t, &buf)
	assert.NotContains(t, entry, "trace_id")

	buf.Reset()
	child.Info().Msg("from child")
	entry = decodeEntry(t, &buf)
	assert.Equal(t, "abc", entry["trace_id"])
}

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "ctx", "debug")
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("via ctx")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "ctx", entry["role"])
}

func TestFromRequest_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "req", "debug")
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(l.WithContext(r.Context()))

	FromRequest(r).Info().Msg("via request")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "req", entry["role"])
}

func TestFromContext_WithoutLogger_NotNil(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}
