package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/nutriplan/internal/models"
)

const defaultLeeway = 30 * time.Second

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("invalid token")

// Verifier turns a bearer token into a verified identity.
type Verifier interface {
	Verify(tokenString string) (models.Identity, error)
}

// TokenVerifier validates signature, expiry, issuer and audience of a token.
type TokenVerifier struct {
	parser  *jwt.Parser
	keyfunc jwt.Keyfunc
}

// NewJWKSVerifier verifies RS256-family tokens against the identity provider's JWKS endpoint.
func NewJWKSVerifier(jwksURL, issuer, audience string) (*TokenVerifier, error) {
	const op = "jwt.NewJWKSVerifier"
	if strings.TrimSpace(jwksURL) == "" {
		return nil, fmt.Errorf("%s: jwks url must be set", op)
	}
	provider, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	methods := []string{jwt.SigningMethodRS256.Name, jwt.SigningMethodRS384.Name, jwt.SigningMethodRS512.Name}
	return &TokenVerifier{
		parser:  newParser(issuer, audience, methods),
		keyfunc: provider.Keyfunc,
	}, nil
}

// NewHMACVerifier verifies HS256 tokens signed with a shared secret.
func NewHMACVerifier(secretKey, issuer, audience string) *TokenVerifier {
	key := []byte(secretKey)
	return &TokenVerifier{
		parser: newParser(issuer, audience, []string{jwt.SigningMethodHS256.Name}),
		keyfunc: func(_ *jwt.Token) (any, error) {
			return key, nil
		},
	}
}

func newParser(issuer, audience string, methods []string) *jwt.Parser {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(defaultLeeway),
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return jwt.NewParser(opts...)
}

// Verify parses tokenString and returns the identity it carries.
func (v *TokenVerifier) Verify(tokenString string) (models.Identity, error) {
	const op = "jwt.Verify"
	var claims Claims
	token, err := v.parser.ParseWithClaims(tokenString, &claims, v.keyfunc)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	if !token.Valid {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w: subject is not a uuid", op, ErrInvalidToken)
	}
	return models.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
