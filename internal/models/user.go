package models

// Identity is the caller as verified from the identity provider token.
// An empty UserID means the request is anonymous.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Authenticated reports whether a signed-in user is behind the identity.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}
