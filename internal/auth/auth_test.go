package auth

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Generate("user-1", "anna")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "anna", claims.Username)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	valid, err := issuer.Generate("user-1", "anna")
	require.NoError(t, err)

	expiredIssuer := NewTokenIssuer("secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Generate("user-1", "anna")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := issuer.Generate("", "anna")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		by    *TokenIssuer
	}{
		{"garbage", "not-a-token", issuer},
		{"wrong secret", valid, NewTokenIssuer("other", time.Hour)},
		{"expired", expired, issuer},
		{"alg none", unsigned, issuer},
		{"missing user id", noUser, issuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.by.Parse(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret!"))
}

func TestPassword_LongInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"ascii 100", strings.Repeat("a", 100)},
		{"cyrillic 100", strings.Repeat("пароль", 16) + "абвг"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.raw)
			require.NoError(t, err)
			assert.True(t, CheckPassword(hash, tt.raw))
			// Inputs sharing the first 72 bytes must still differ.
			assert.False(t, CheckPassword(hash, tt.raw[:len(tt.raw)-1]+"x"))
		})
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
