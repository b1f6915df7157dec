package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	payload := &Payload{
		ID:     "user-123",
		Role:   RoleUser,
		Name:   "Sara",
		Avatar: "https://example.com/a.png",
	}

	signed, err := GenerateToken(payload, testSecret, IdentityExpiration)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	parsed, err := ParseToken(signed, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "user-123", parsed.ID)
	assert.Equal(t, RoleUser, parsed.Role)
	assert.Equal(t, "Sara", parsed.Name)
	assert.Equal(t, "https://example.com/a.png", parsed.Avatar)
	assert.Equal(t, TokenIssuer, parsed.Issuer)
}

func TestParseTokenRejections(t *testing.T) {
	t.Parallel()

	payload := &Payload{ID: "user-123", Role: RoleAdmin}

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		signed, err := GenerateToken(payload, testSecret, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken(signed, "another-secret")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		signed, err := GenerateToken(payload, testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(signed, testSecret)
		assert.Error(t, err)
	})

	t.Run("garbage input", func(t *testing.T) {
		t.Parallel()
		_, err := ParseToken("not.a.token", testSecret)
		assert.Error(t, err)
	})
}

func TestRoleHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role         string
		wantAdmin    bool
		wantOfficial bool
	}{
		{role: RoleUser, wantAdmin: false, wantOfficial: false},
		{role: RoleAdmin, wantAdmin: true, wantOfficial: false},
		{role: RoleOfficial, wantAdmin: true, wantOfficial: true},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			t.Parallel()
			p := &Payload{Role: tt.role}
			assert.Equal(t, tt.wantAdmin, p.IsAdmin())
			assert.Equal(t, tt.wantOfficial, p.IsOfficial())
		})
	}
}
