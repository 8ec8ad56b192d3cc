package models

// Role is the access level stored on users/{id}.role.
type Role string

const (
	RoleTraveler Role = "traveler"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// ResolveRole is the only place an absent role is defaulted. Stored values are compared
// exactly: "Vendor" or " vendor" are not vendors.
func ResolveRole(stored string) Role {
	if stored == "" {
		return RoleTraveler
	}
	return Role(stored)
}

// Registrable reports whether a role may be chosen at self-registration.
func (r Role) Registrable() bool {
	return r == RoleTraveler || r == RoleVendor
}

// Toggled flips vendor and traveler. Any other role has no counterpart.
func (r Role) Toggled() (Role, bool) {
	switch r {
	case RoleTraveler:
		return RoleVendor, true
	case RoleVendor:
		return RoleTraveler, true
	default:
		return r, false
	}
}
