package orgtype

import (
	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/core/common/validation"
	orgtypeDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/orgtype"
)

type CreateOrgTypeDTO struct {
	Code       string `json:"code"`
	Category   string `json:"category"`
	Scope      string `json:"scope"`
	PlatformID *int64 `json:"platform_id,omitempty"`
}

func (d *CreateOrgTypeDTO) Validate() *errors.AppError {
	if d.Scope == "" {
		d.Scope = orgtypeDatamodel.ScopeGlobal
	}
	v := validation.NewValidator()
	v.Field("code", d.Code).Required().Slug().MaxLength(64)
	v.Field("category", d.Category).MaxLength(120)
	v.Field("scope", d.Scope).OneOf(orgtypeDatamodel.ScopeGlobal, orgtypeDatamodel.ScopePlatform)
	if err := v.Validate(); err != nil {
		return err
	}
	if d.Scope == orgtypeDatamodel.ScopePlatform && d.PlatformID == nil {
		return errors.NewValidationFieldError("platform_id",
			"platform_id is required for platform scoped types", errors.ErrCodeValidationFailed)
	}
	return nil
}

type OrgTypeResponse struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	Category   string `json:"category,omitempty"`
	Scope      string `json:"scope"`
	PlatformID *int64 `json:"platform_id,omitempty"`
	Status     string `json:"status"`
	UsageCount int64  `json:"usage_count"`
}

func ToOrgTypeResponse(t *orgtypeDatamodel.OrganizationType) *OrgTypeResponse {
	return &OrgTypeResponse{
		ID:         t.ID,
		Code:       t.Code,
		Category:   t.Category,
		Scope:      t.Scope,
		PlatformID: t.PlatformID,
		Status:     t.Status,
		UsageCount: t.UsageCount,
	}
}
