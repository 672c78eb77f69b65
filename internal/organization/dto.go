package organization

import (
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/core/common/validation"
	orgDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/organization"
)

const (
	TrustLevelLow  = "low"
	TrustLevelHigh = "high"
)

type CreateOrganizationDTO struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Domain     string `json:"domain,omitempty"`
	OrgType    string `json:"org_type,omitempty"`
	PlatformID int64  `json:"platform_id"`
	// TrustLevel high skips document review and creates the organization
	// pre-approved.
	TrustLevel string `json:"trust_level,omitempty"`
}

func (d *CreateOrganizationDTO) Validate() *errors.AppError {
	if d.TrustLevel == "" {
		d.TrustLevel = TrustLevelLow
	}
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MinLength(2).MaxLength(120)
	v.Field("slug", d.Slug).Required().Slug().MaxLength(64)
	v.Field("platform_id", d.PlatformID).Required()
	v.Field("trust_level", d.TrustLevel).OneOf(TrustLevelLow, TrustLevelHigh)
	return v.Validate()
}

type RejectOrganizationDTO struct {
	Reason string `json:"reason"`
}

func (d *RejectOrganizationDTO) Validate() *errors.AppError {
	if len(d.Reason) == 0 {
		return errors.NewValidationFieldError("reason", "rejection reason is required", errors.ErrCodeMissingReason)
	}
	v := validation.NewValidator()
	v.Field("reason", d.Reason).MaxLength(1000)
	return v.Validate()
}

type SubmitDocumentsDTO struct {
	// Verified means the external document check passed; the organization
	// moves from pending_documents to approved.
	Verified bool `json:"verified"`
}

type OrganizationResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Domain          string     `json:"domain,omitempty"`
	OrgTypeID       *int64     `json:"org_type_id,omitempty"`
	PlatformID      int64      `json:"platform_id"`
	Status          string     `json:"status"`
	CreatedBy       int64      `json:"created_by"`
	ApprovedBy      *int64     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ToOrganizationResponse(o *orgDatamodel.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:              o.ID,
		Name:            o.Name,
		Slug:            o.Slug,
		Domain:          o.Domain,
		OrgTypeID:       o.OrgTypeID,
		PlatformID:      o.PlatformID,
		Status:          o.Status,
		CreatedBy:       o.CreatedBy,
		ApprovedBy:      o.ApprovedBy,
		ApprovedAt:      o.ApprovedAt,
		RejectedAt:      o.RejectedAt,
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
	}
}
