package entitlement

import "github.com/magabrotheeeer/nutriplan/internal/models"

// Session is the per-request view of a caller: who they are and their current snapshot.
// Sessions are not shared between requests.
type Session struct {
	Identity     models.Identity
	Subscription models.Subscription
	admin        bool
}

// IsAdmin reports whether the admin override is active for the session.
func (s *Session) IsAdmin() bool {
	return s.admin
}

// Authenticated reports whether a signed-in user owns the session.
func (s *Session) Authenticated() bool {
	return s.Identity.Authenticated()
}
