package user

import (
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

type CreateUserDTO struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	PlatformID     *int64 `json:"platform_id,omitempty"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
}

// Validate checks input shape plus the role membership invariants:
// a platform admin must belong to a platform and an organization admin
// to an organization.
func (d *CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(64)
	v.Field("email", d.Email).Required().Email().MaxLength(320)
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(128)
	v.Field("role", d.Role).Required()
	if err := v.Validate(); err != nil {
		return err
	}

	role, ok := rbac.ParseRole(d.Role)
	if !ok {
		return errors.NewValidationFieldError("role", "unknown role", errors.ErrCodeInvalidRole)
	}
	d.Role = string(role)

	switch role {
	case rbac.RolePlatformAdmin:
		if d.PlatformID == nil {
			return errors.NewValidationFieldError("platform_id",
				"platform_id is required for platform admins", errors.ErrCodeMissingMembership)
		}
	case rbac.RoleOrganizationAdmin:
		if d.OrganizationID == nil {
			return errors.NewValidationFieldError("organization_id",
				"organization_id is required for organization admins", errors.ErrCodeMissingMembership)
		}
	}
	return nil
}

type ChangeRoleDTO struct {
	Role string `json:"role"`
}

func (d *ChangeRoleDTO) Validate() *errors.AppError {
	if _, ok := rbac.ParseRole(d.Role); !ok {
		return errors.NewValidationFieldError("role", "unknown role", errors.ErrCodeInvalidRole)
	}
	return nil
}

type UserResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	PlatformID     *int64    `json:"platform_id,omitempty"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	Status         string    `json:"status"`
	Disabled       bool      `json:"disabled"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToUserResponse(u *userDatamodel.User) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		PlatformID:     u.PlatformID,
		OrganizationID: u.OrganizationID,
		Status:         u.Status,
		Disabled:       u.Disabled,
		CreatedAt:      u.CreatedAt,
	}
}
