package rbac

import (
	"github.com/frahmantamala/tenant-management/internal"
)

// Actor is the resolved caller a request acts as. Handlers load it from the
// session and pass it explicitly into every service call; nothing below the
// transport layer reads it from request context.
type Actor struct {
	UserID         int64
	Email          string
	Role           Role
	PlatformID     *int64
	OrganizationID *int64
}

// Scope is the tenancy target of an operation: the platform and/or
// organization the affected record belongs to. Nil fields mean the
// operation is not scoped on that axis.
type Scope struct {
	PlatformID     *int64
	OrganizationID *int64
}

func PlatformScope(platformID int64) Scope {
	return Scope{PlatformID: &platformID}
}

func OrgScope(platformID, organizationID int64) Scope {
	return Scope{PlatformID: &platformID, OrganizationID: &organizationID}
}

// Authorize is the single entry point for permission checks. It runs the
// role-hierarchy check, then the tenancy-scope check. super_admin bypasses
// scoping entirely. Pure: callers record the audit entry after the mutation
// succeeds.
func Authorize(actor *Actor, required []Role, scope Scope) error {
	if actor == nil {
		return internal.ErrUnauthenticated
	}

	if !actor.Role.SatisfiesAny(required) {
		return internal.ErrInsufficientRole
	}

	if actor.Role == RoleSuperAdmin {
		return nil
	}

	if actor.Role == RolePlatformAdmin && scope.PlatformID != nil {
		if actor.PlatformID == nil || *actor.PlatformID != *scope.PlatformID {
			return internal.ErrCrossPlatform
		}
	}

	if actor.Role == RoleOrganizationAdmin && scope.OrganizationID != nil {
		if actor.OrganizationID == nil || *actor.OrganizationID != *scope.OrganizationID {
			return internal.ErrCrossOrg
		}
	}

	return nil
}

// GuardSelfModification rejects operations where the actor targets their own
// privileged fields (role change, account disable). Applies to every role,
// super_admin included.
func GuardSelfModification(actor *Actor, targetUserID int64) error {
	if actor == nil {
		return internal.ErrUnauthenticated
	}
	if actor.UserID == targetUserID {
		return internal.ErrSelfModification
	}
	return nil
}

// CanInvite returns the role-specific invitation allow-list check: whether
// the actor may grant targetRole within the given scope.
func CanInvite(actor *Actor, targetRole Role, scope Scope) error {
	if actor == nil {
		return internal.ErrUnauthenticated
	}

	switch actor.Role {
	case RoleSuperAdmin:
		return nil
	case RolePlatformAdmin:
		if targetRole != RoleOrganizationAdmin && targetRole != RoleUser {
			return internal.ErrInsufficientRole
		}
		return Authorize(actor, []Role{RolePlatformAdmin}, scope)
	case RoleOrganizationAdmin:
		if targetRole != RoleUser {
			return internal.ErrInsufficientRole
		}
		return Authorize(actor, []Role{RoleOrganizationAdmin}, scope)
	default:
		return internal.ErrInsufficientRole
	}
}
