package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-identity-secret"

func TestMintAndVerifyToken(t *testing.T) {
	userID := uuid.New()

	token, err := MintToken(userID, "user@test.com", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ident, err := VerifyToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, ident.UserID)
	assert.Equal(t, "user@test.com", ident.Email)
}

func TestVerifyToken(t *testing.T) {
	userID := uuid.New()

	validToken, err := MintToken(userID, "user@test.com", testSecret, time.Hour)
	require.NoError(t, err)

	expiredToken, err := MintToken(userID, "user@test.com", testSecret, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		secret    string
		wantErrIs error
	}{
		{
			name:      "expired token",
			token:     expiredToken,
			secret:    testSecret,
			wantErrIs: jwt.ErrTokenExpired,
		},
		{
			name:      "wrong secret",
			token:     validToken,
			secret:    "wrong-secret",
			wantErrIs: jwt.ErrTokenSignatureInvalid,
		},
		{
			name:      "malformed token",
			token:     "not.a.valid.jwt",
			secret:    testSecret,
			wantErrIs: jwt.ErrTokenMalformed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifyToken(tc.token, tc.secret)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErrIs)
		})
	}
}

func TestVerifyToken_RejectsNonHMAC(t *testing.T) {
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyToken(signed, testSecret)
	require.Error(t, err)
}
