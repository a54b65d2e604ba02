package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fixedGenerator returns a generator whose clock is pinned to issuedAt.
func fixedGenerator(secret string, expiration time.Duration) *generator {
	gen := NewGenerator(secret, expiration)
	gen.now = func() time.Time { return issuedAt }
	return gen
}

// decode reads the claims without validating exp, since the pinned clock is in the past.
func decode(t *testing.T, tokenStr string) (*jwt.Token, *Claims) {
	t.Helper()
	claims := &Claims{}
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims)
	require.NoError(t, err)
	return token, claims
}

func TestGenerator_GenerateToken_Claims(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		userID     uint
		email      string
		expiration time.Duration
		wantSub    string
	}{
		{"first reader", 1, "reader@example.com", 24 * time.Hour, "1"},
		{"plus addressing", 42, "reader+books@example.com", time.Hour, "42"},
		{"large id", 4294967295, "big@example.com", time.Minute, "4294967295"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokenStr, err := fixedGenerator("library-secret", tt.expiration).GenerateToken(tt.userID, tt.email)
			require.NoError(t, err)

			token, claims := decode(t, tokenStr)
			assert.Equal(t, jwt.SigningMethodHS256.Alg(), token.Method.Alg())
			assert.Equal(t, tt.wantSub, claims.Subject)
			assert.Equal(t, tt.email, claims.Email)
			require.NotNil(t, claims.IssuedAt)
			require.NotNil(t, claims.ExpiresAt)
			assert.True(t, claims.IssuedAt.Time.Equal(issuedAt))
			assert.True(t, claims.ExpiresAt.Time.Equal(issuedAt.Add(tt.expiration)))
		})
	}
}

func TestGenerator_GenerateToken_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator("", time.Hour).GenerateToken(1, "reader@example.com")

	assert.EqualError(t, err, "jwt secret is empty")
}

func TestGenerator_GenerateToken_SignedWithSecret(t *testing.T) {
	t.Parallel()

	tokenStr, err := NewGenerator("library-secret", time.Hour).GenerateToken(3, "reader@example.com")
	require.NoError(t, err)

	_, err = jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		return []byte("another-secret"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestGenerator_TokenAcceptedByParseToken(t *testing.T) {
	t.Parallel()

	tokenStr, err := NewGenerator("round-trip-secret", time.Hour).GenerateToken(7, "seven@example.com")
	require.NoError(t, err)

	userID, err := ParseToken([]byte("round-trip-secret"), tokenStr)

	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestGenerator_ExpiredTokenRejectedByParseToken(t *testing.T) {
	t.Parallel()

	// Pinned to 2024 with a one hour lifetime, so the token is long expired.
	tokenStr, err := fixedGenerator("library-secret", time.Hour).GenerateToken(7, "seven@example.com")
	require.NoError(t, err)

	_, err = ParseToken([]byte("library-secret"), tokenStr)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
