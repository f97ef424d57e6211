package identity

import (
	"github.com/google/uuid"
)

// Role represents the access level of an authenticated principal
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Principal identifies the authenticated caller of an operation.
// It replaces ambient session state: every service call receives the
// principal explicitly and ownership checks are pure functions of it.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// NewPrincipal creates a principal with the given user ID and role
func NewPrincipal(userID uuid.UUID, role Role) Principal {
	return Principal{UserID: userID, Role: role}
}

// IsAdmin returns true if the principal has administrative access
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns returns true if the principal owns the resource belonging to ownerID.
// Admins are not implicitly owners; use CanAccess for combined checks.
func (p Principal) Owns(ownerID uuid.UUID) bool {
	return p.UserID == ownerID
}

// CanAccess returns true if the principal may read or mutate a resource
// owned by ownerID: admins unrestricted, everyone else only their own.
func (p Principal) CanAccess(ownerID uuid.UUID) bool {
	return p.IsAdmin() || p.Owns(ownerID)
}
