// Package middlewarectx holds the HTTP middleware that resolves the caller
// and stores their identity and entitlement session in the request context.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

// Key is the type of request context keys set by this package.
type Key string

const (
	identityKey Key = "identity"
	sessionKey  Key = "session"
)

// WithIdentity stores identity in ctx.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the verified caller. Anonymous requests yield a zero Identity.
func IdentityFromContext(ctx context.Context) models.Identity {
	identity, _ := ctx.Value(identityKey).(models.Identity)
	return identity
}

// WithSession stores sess in ctx.
func WithSession(ctx context.Context, sess *entitlement.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the entitlement session opened by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*entitlement.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*entitlement.Session)
	return sess, ok && sess != nil
}
