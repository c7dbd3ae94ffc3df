// Package permission decides what an identity may do. Every access check in
// the HTTP layer goes through Allow.
package permission

import "github.com/pestozap/pestozap-backend/internal/model"

// Capability names a class of operations.
type Capability int

const (
	// CapPublic needs no identity.
	CapPublic Capability = iota
	// CapAuthenticated needs an active account.
	CapAuthenticated
	// CapAdmin needs an active staff or superuser account.
	CapAdmin
)

func (c Capability) String() string {
	switch c {
	case CapPublic:
		return "public"
	case CapAuthenticated:
		return "authenticated"
	case CapAdmin:
		return "admin"
	}
	return "unknown"
}

// Allow reports whether user holds capability. user is nil for anonymous
// callers.
func Allow(user *model.User, capability Capability) bool {
	switch capability {
	case CapPublic:
		return true
	case CapAuthenticated:
		return authenticated(user)
	case CapAdmin:
		return authenticated(user) && user.IsAdmin()
	}
	return false
}

func authenticated(user *model.User) bool {
	return user != nil && user.ID != "" && user.IsActive && !user.IsDeleted
}
