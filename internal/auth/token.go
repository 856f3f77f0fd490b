package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the resolved subject of a verified token. Tokens are minted by
// the upstream identity service; this package only validates them and pulls
// out the user id.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

func MintToken(userID uuid.UUID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("MintToken: %w", err)
	}
	return signed, nil
}

func VerifyToken(tokenString, secret string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("VerifyToken: %w", err)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("VerifyToken: invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("VerifyToken: invalid subject in token: %w", err)
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}
