package platform

import (
	"context"
	"log/slog"
	"strconv"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	platformDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/platform"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

// Service manages platforms, the top level of the tenancy hierarchy.
// Every operation here is reserved for super admins.
type Service struct {
	repo     RepositoryAPI
	recorder audit.RecorderAPI
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder audit.RecorderAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, actor *rbac.Actor, dto CreatePlatformDTO) (*platformDatamodel.Platform, error) {
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin}, rbac.Scope{}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByNameOrSlug(dto.Name, dto.Slug, 0)
	if err != nil {
		s.logger.Error("platform uniqueness check failed", "error", err)
		return nil, errors.NewInternalError("failed to create platform", err)
	}
	if taken {
		return nil, errors.NewValidationError("A platform with this name or slug already exists", errors.ErrCodeDuplicateName)
	}

	p := &platformDatamodel.Platform{
		Name:        dto.Name,
		Slug:        dto.Slug,
		Description: dto.Description,
		Status:      platformDatamodel.StatusActive,
		CreatedBy:   actor.UserID,
	}
	if err := s.repo.Create(p); err != nil {
		s.logger.Error("platform create failed", "name", dto.Name, "error", err)
		return nil, errors.NewInternalError("failed to create platform", err)
	}

	s.recorder.Record(ctx, audit.ActionPlatformCreate, "platform", strconv.FormatInt(p.ID, 10), actor.UserID,
		rbac.PlatformScope(p.ID), map[string]any{"name": p.Name, "slug": p.Slug})

	return p, nil
}

func (s *Service) Update(ctx context.Context, actor *rbac.Actor, id int64, dto UpdatePlatformDTO) (*platformDatamodel.Platform, error) {
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin}, rbac.Scope{}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if dto.Name != nil && *dto.Name != p.Name {
		taken, err := s.repo.ExistsByNameOrSlug(*dto.Name, "", id)
		if err != nil {
			return nil, errors.NewInternalError("failed to update platform", err)
		}
		if taken {
			return nil, errors.NewValidationError("A platform with this name already exists", errors.ErrCodeDuplicateName)
		}
		p.Name = *dto.Name
		changes["name"] = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
		changes["description"] = *dto.Description
	}
	if dto.Status != nil && *dto.Status != p.Status {
		p.Status = *dto.Status
		changes["status"] = *dto.Status
	}

	if len(changes) == 0 {
		return p, nil
	}

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("platform update failed", "platform_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update platform", err)
	}

	s.recorder.Record(ctx, audit.ActionPlatformUpdate, "platform", strconv.FormatInt(id, 10), actor.UserID,
		rbac.PlatformScope(id), changes)

	return p, nil
}

func (s *Service) Get(ctx context.Context, actor *rbac.Actor, id int64) (*platformDatamodel.Platform, error) {
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin}, rbac.PlatformScope(id)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func (s *Service) List(ctx context.Context, actor *rbac.Actor) ([]*platformDatamodel.Platform, error) {
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin}, rbac.Scope{}); err != nil {
		return nil, err
	}
	return s.repo.List()
}
