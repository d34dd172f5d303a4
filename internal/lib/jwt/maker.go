package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Maker signs HS256 tokens. It stands in for the identity provider in local setups and tests.
type Maker struct {
	secretKey []byte
	issuer    string
	audience  string
	tokenTTL  time.Duration
}

// NewMaker creates a Maker.
func NewMaker(secretKey, issuer, audience string, ttl time.Duration) *Maker {
	return &Maker{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  ttl,
	}
}

// GenerateToken signs a token for userID.
func (m *Maker) GenerateToken(userID, email, role string) (string, error) {
	const op = "jwt.GenerateToken"
	if _, err := uuid.Parse(userID); err != nil {
		return "", fmt.Errorf("%s: user id: %w", op, err)
	}
	if len(m.secretKey) == 0 {
		return "", fmt.Errorf("%s: %w", op, errors.New("empty secret key"))
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	if m.audience != "" {
		claims.Audience = jwt.ClaimStrings{m.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}
