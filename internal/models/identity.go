package models

import "time"

// Identity is an authenticated caller as produced by an identity resolver.
type Identity struct {
	SubjectID string
	Username  string
	BoothID   *string
	BoothName string
	EventID   *string
	IsAdmin   bool

	// TokenID and ExpiresAt are set for self-issued tokens so logout can revoke them.
	TokenID   string
	ExpiresAt time.Time

	Claims map[string]interface{}
}

// Principal is an identity with its role for the current request.
type Principal struct {
	Identity *Identity
	Role     Role
}

// AnonymousPrincipal is the caller without credentials.
func AnonymousPrincipal() *Principal {
	return &Principal{Role: RoleAnonymous}
}

// Anonymous reports whether the request carries no resolved identity.
func (p *Principal) Anonymous() bool {
	return p == nil || p.Identity == nil
}
