// Package jwt issues and verifies identity provider tokens.
// The subject claim carries the user UUID, the role claim drives the admin override.
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token fields the service relies on.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
