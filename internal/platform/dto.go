package platform

import (
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/core/common/validation"
	platformDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/platform"
)

type CreatePlatformDTO struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (d *CreatePlatformDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MinLength(2).MaxLength(120)
	v.Field("slug", d.Slug).Required().Slug().MaxLength(64)
	v.Field("description", d.Description).MaxLength(500)
	return v.Validate()
}

type UpdatePlatformDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (d *UpdatePlatformDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MinLength(2).MaxLength(120)
	}
	if d.Description != nil {
		v.Field("description", *d.Description).MaxLength(500)
	}
	if d.Status != nil {
		v.Field("status", *d.Status).OneOf(platformDatamodel.StatusActive, platformDatamodel.StatusSuspended)
	}
	return v.Validate()
}

type PlatformResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToPlatformResponse(p *platformDatamodel.Platform) *PlatformResponse {
	return &PlatformResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Status:      p.Status,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
