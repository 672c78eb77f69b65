package rbac

import (
	"strings"
)

// Role is the canonical role name stored on a user record.
type Role string

const (
	RoleSuperAdmin        Role = "super_admin"
	RolePlatformAdmin     Role = "platform_admin"
	RoleOrganizationAdmin Role = "organization_admin"
	RoleManager           Role = "manager"
	RoleEmployee          Role = "employee"
	RoleUser              Role = "user"
	RoleGuest             Role = "guest"
)

// roleRank is the fixed subsumption order: a role inherits the permissions
// of every role with a lower rank. "user" is the rank-and-file member role
// and sits at the employee tier.
var roleRank = map[Role]int{
	RoleSuperAdmin:        60,
	RolePlatformAdmin:     50,
	RoleOrganizationAdmin: 40,
	RoleManager:           30,
	RoleEmployee:          20,
	RoleUser:              20,
	RoleGuest:             10,
}

// roleAliases maps legacy spellings seen in older clients to the canonical
// enum. Input normalization only; aliases are never written back.
var roleAliases = map[string]Role{
	"super-admin":        RoleSuperAdmin,
	"superadmin":         RoleSuperAdmin,
	"platform-admin":     RolePlatformAdmin,
	"platformadmin":      RolePlatformAdmin,
	"organization-admin": RoleOrganizationAdmin,
	"org-admin":          RoleOrganizationAdmin,
	"org_admin":          RoleOrganizationAdmin,
	"orgadmin":           RoleOrganizationAdmin,
}

func AllRoles() []Role {
	return []Role{
		RoleSuperAdmin,
		RolePlatformAdmin,
		RoleOrganizationAdmin,
		RoleManager,
		RoleEmployee,
		RoleUser,
		RoleGuest,
	}
}

// ParseRole normalizes a role name to the canonical enum. Case and
// hyphen/underscore variants are accepted; unknown names return false.
func ParseRole(name string) (Role, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if _, ok := roleRank[Role(normalized)]; ok {
		return Role(normalized), true
	}
	if canonical, ok := roleAliases[normalized]; ok {
		return canonical, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Subsumes reports whether r inherits the permissions of other.
// Every role subsumes itself.
func (r Role) Subsumes(other Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	or, ok := roleRank[other]
	if !ok {
		return false
	}
	if r == other {
		return true
	}
	return rr > or
}

// SatisfiesAny reports whether r, or any role it subsumes, intersects the
// required set. An empty required set means the operation only needs an
// authenticated actor.
func (r Role) SatisfiesAny(required []Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, req := range required {
		if r.Subsumes(req) {
			return true
		}
	}
	return false
}

// IsAdminRole reports whether the role carries tenancy-administration
// authority (organization_admin and above).
func (r Role) IsAdminRole() bool {
	return r.Subsumes(RoleOrganizationAdmin)
}
