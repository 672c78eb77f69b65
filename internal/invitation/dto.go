package invitation

import (
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/core/common/validation"
	inviteDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/invitation"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

type CreateInvitationDTO struct {
	Email          string `json:"email"`
	Role           string `json:"role"`
	PlatformID     *int64 `json:"platform_id,omitempty"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
}

func (d *CreateInvitationDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(320)
	v.Field("role", d.Role).Required()
	if err := v.Validate(); err != nil {
		return err
	}

	role, ok := rbac.ParseRole(d.Role)
	if !ok {
		return errors.NewValidationFieldError("role", "unknown role", errors.ErrCodeInvalidRole)
	}
	d.Role = string(role)

	if role == rbac.RoleOrganizationAdmin && d.OrganizationID == nil {
		return errors.NewValidationFieldError("organization_id",
			"organization_id is required for organization admin invites", errors.ErrCodeMissingMembership)
	}
	return nil
}

type AcceptInvitationDTO struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (d *AcceptInvitationDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("token", d.Token).Required()
	v.Field("username", d.Username).Required().MinLength(3).MaxLength(64)
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(128)
	return v.Validate()
}

type InvitationResponse struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	PlatformID     *int64     `json:"platform_id,omitempty"`
	OrganizationID *int64     `json:"organization_id,omitempty"`
	InviterName    string     `json:"inviter_name,omitempty"`
	Status         string     `json:"status"`
	Revoked        bool       `json:"revoked"`
	ExpiresAt      time.Time  `json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func ToInvitationResponse(inv *inviteDatamodel.Invitation) *InvitationResponse {
	return &InvitationResponse{
		ID:             inv.ID,
		Email:          inv.Email,
		Role:           inv.Role,
		PlatformID:     inv.PlatformID,
		OrganizationID: inv.OrganizationID,
		InviterName:    inv.InviterName,
		Status:         inv.Status,
		Revoked:        inv.Revoked,
		ExpiresAt:      inv.ExpiresAt,
		AcceptedAt:     inv.AcceptedAt,
		CreatedAt:      inv.CreatedAt,
	}
}
