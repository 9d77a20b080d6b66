// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNormalizeClaims(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawClaims
		want Claims
	}{
		{
			name: "nil claims get defaults",
			raw:  nil,
			want: Claims{Role: RoleUser, Permissions: []string{}},
		},
		{
			name: "empty claims get defaults",
			raw:  &RawClaims{},
			want: Claims{Role: RoleUser, Permissions: []string{}},
		},
		{
			name: "empty role string falls back to user",
			raw:  &RawClaims{Role: ptr("")},
			want: Claims{Role: RoleUser, Permissions: []string{}},
		},
		{
			name: "all fields present",
			raw:  &RawClaims{Admin: ptr(true), Role: ptr("manager"), Permissions: []string{"a", "b"}},
			want: Claims{Admin: true, Role: RoleManager, Permissions: []string{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeClaims(tt.raw))
		})
	}
}

func TestNormalizeClaims_DoesNotAliasInput(t *testing.T) {
	raw := &RawClaims{Permissions: []string{"a"}}
	claims := NormalizeClaims(raw)
	claims.Permissions[0] = "changed"
	assert.Equal(t, "a", raw.Permissions[0])
}

func TestClaims_RawRoundTrip(t *testing.T) {
	c := Claims{Admin: true, Role: RoleStaff, Permissions: []string{PermissionReadOwnData}}
	raw := c.Raw()
	assert.Equal(t, c, NormalizeClaims(&raw))
	assert.True(t, c.HasPermission(PermissionReadOwnData))
	assert.False(t, c.HasPermission(PermissionWriteOwnData))
}

func TestAccount_UserHidesPasswordAndNormalizes(t *testing.T) {
	acc := Account{UID: "u1", Email: "a@b.c", PasswordHash: "secret"}
	u := acc.User()
	assert.Equal(t, RoleUser, u.Claims.Role)

	b, err := json.Marshal(acc)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
}

func TestAppendAuditEntry_CapsAndKeepsOrder(t *testing.T) {
	var trail []AuditEntry
	for i := 0; i < MaxAuditTrailLength+1; i++ {
		trail = AppendAuditEntry(trail, AuditEntry{UserID: fmt.Sprint(i)})
	}

	require.Len(t, trail, MaxAuditTrailLength)
	assert.Equal(t, "1", trail[0].UserID, "oldest entry must be dropped")
	for i := range trail {
		assert.Equal(t, fmt.Sprint(i+1), trail[i].UserID)
	}
}

func TestAppendAuditEntry_DoesNotModifyInput(t *testing.T) {
	trail := make([]AuditEntry, 1, 10)
	trail[0] = AuditEntry{UserID: "first"}

	out := AppendAuditEntry(trail, AuditEntry{UserID: "second"})
	assert.Len(t, trail, 1)
	assert.Len(t, out, 2)

	out[0].UserID = "mutated"
	assert.Equal(t, "first", trail[0].UserID)
}

func TestActor_AuditEntry(t *testing.T) {
	now := time.Now()
	a := Actor{UserID: "u", Role: RoleAdmin, IPAddress: "10.0.0.1", UserAgent: "ua"}
	e := a.AuditEntry(AuditDelete, now, nil)
	assert.Equal(t, AuditEntry{Action: AuditDelete, UserID: "u", Timestamp: now, IPAddress: "10.0.0.1", UserAgent: "ua"}, e)
}

func TestDataType_Valid(t *testing.T) {
	for _, dt := range DataTypes {
		assert.True(t, dt.Valid(), dt)
	}
	assert.False(t, DataType("invoice").Valid())
	assert.False(t, DataType("").Valid())
}

func TestRecordPermissions(t *testing.T) {
	p := RecordPermissions{
		Read:   []Role{RoleAdmin, RoleManager},
		Write:  []Role{RoleAdmin},
		Delete: nil,
	}
	assert.True(t, p.CanRead(RoleManager))
	assert.False(t, p.CanRead(RoleStaff))
	assert.True(t, p.CanWrite(RoleAdmin))
	assert.False(t, p.CanWrite(RoleManager))
	assert.False(t, p.CanDelete(RoleAdmin))
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "milliseconds", input: `60000`, want: time.Minute},
		{name: "duration string", input: `"15m"`, want: 15 * time.Minute},
		{name: "null", input: `null`, want: 0},
		{name: "bad string", input: `"later"`, wantErr: true},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestSessionWarning_TimeRemainingMillis(t *testing.T) {
	w := SessionWarning{TimeRemaining: 5 * time.Minute}
	assert.Equal(t, int64(300000), w.TimeRemainingMillis())
}

func TestNewVersionResponse(t *testing.T) {
	resp := NewVersionResponse("1.0.0", NewAppBuildInfo("v1", "2026-01-01", "abc"))
	assert.Equal(t, VersionResponse{Version: "1.0.0", Build: "v1", Date: "2026-01-01", Commit: "abc"}, resp)
}
