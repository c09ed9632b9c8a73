package security

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/internal/common"
)

var testSecret = []byte("test-secret")

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, 0)

	token, err := svc.Issue(42, "alice")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "alice", id.Username)
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	a, err := svc.Issue(1, "alice")
	require.NoError(t, err)
	b, err := svc.Issue(1, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenService_VerifyRejects(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	valid, err := svc.Issue(7, "bob")
	require.NoError(t, err)

	t.Run("tampered signature", func(t *testing.T) {
		parts := strings.Split(valid, ".")
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		parts[2] = string(sig)

		_, err := svc.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService([]byte("another-secret"), time.Hour)
		_, err := other.Verify(valid)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
		old := NewTokenService(testSecret, DefaultTokenTTL, WithClock(past))
		token, err := old.Issue(7, "bob")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, common.ErrTokenExpired)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("missing identity claims", func(t *testing.T) {
		_, token, err := svc.Auth().Encode(map[string]interface{}{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})
}

func TestIdentityFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  map[string]interface{}
		wantID  int64
		wantErr bool
	}{
		{"float id", map[string]interface{}{"user_id": float64(3), "username": "a"}, 3, false},
		{"json number id", map[string]interface{}{"user_id": json.Number("9"), "username": "a"}, 9, false},
		{"int64 id", map[string]interface{}{"user_id": int64(5), "username": "a"}, 5, false},
		{"fractional id", map[string]interface{}{"user_id": 1.5, "username": "a"}, 0, true},
		{"string id", map[string]interface{}{"user_id": "3", "username": "a"}, 0, true},
		{"missing id", map[string]interface{}{"username": "a"}, 0, true},
		{"empty username", map[string]interface{}{"user_id": float64(3), "username": ""}, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := IdentityFromClaims(tc.claims)
			if tc.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id.UserID)
		})
	}
}
