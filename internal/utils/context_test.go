// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-salon-keeper/models"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestUserIDCtxKey(t *testing.T) {
	if UserIDCtxKey.String() != "userID" {
		t.Errorf("expected 'userID', got '%s'", UserIDCtxKey.String())
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	ctx := WithUserID(context.Background(), "uid-42")
	userID, ok := GetUserIDFromContext(ctx)
	if !ok || userID != "uid-42" {
		t.Fatalf("expected uid-42/true, got %q/%v", userID, ok)
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	if _, ok := GetUserIDFromContext(context.Background()); ok {
		t.Error("expected ok=false for empty context")
	}
	if _, ok := GetUserIDFromContext(WithUserID(context.Background(), "")); ok {
		t.Error("expected ok=false for empty uid")
	}
	ctx := context.WithValue(context.Background(), UserIDCtxKey, 42)
	if _, ok := GetUserIDFromContext(ctx); ok {
		t.Error("expected ok=false for wrong type")
	}
}

func TestActorFromContext(t *testing.T) {
	ctx := WithClientMeta(context.Background(), ClientMeta{IPAddress: "10.0.0.1", UserAgent: "test-agent"})

	got := ActorFromContext(ctx, "uid", models.RoleManager)
	want := models.Actor{UserID: "uid", Role: models.RoleManager, IPAddress: "10.0.0.1", UserAgent: "test-agent"}
	if got != want {
		t.Errorf("ActorFromContext() = %+v, want %+v", got, want)
	}

	bare := ActorFromContext(context.Background(), "uid", models.RoleAdmin)
	if bare.IPAddress != "" || bare.UserAgent != "" {
		t.Errorf("expected empty client meta, got %+v", bare)
	}
}
