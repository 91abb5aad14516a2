package types

// Role is an already-validated role name supplied by the external
// identity collaborator. The core never authenticates; it only checks
// role membership.
type Role string

const (
	RoleProductOwner Role = "PRODUCT_OWNER"
	RoleScrumMaster  Role = "SCRUM_MASTER"
	RoleDeveloper    Role = "DEVELOPER"
)

// Roles is the role set attached to an acting identity
type Roles []Role

// Has reports whether the role set contains the given role
func (r Roles) Has(role Role) bool {
	for _, candidate := range r {
		if candidate == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the role set contains at least one of the
// given roles
func (r Roles) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}
	return false
}

// Strings returns the role set as plain strings
func (r Roles) Strings() []string {
	out := make([]string, len(r))
	for i, role := range r {
		out[i] = string(role)
	}
	return out
}

// ParseRoles converts plain strings into a role set
func ParseRoles(names []string) Roles {
	roles := make(Roles, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		roles = append(roles, Role(name))
	}
	return roles
}
