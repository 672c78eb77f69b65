package orgtype

import (
	"context"
	"log/slog"
	"strconv"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	orgtypeDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/orgtype"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

// Service maintains the organization type catalog. Types stay referenced
// by organizations, so archival replaces deletion once a type is in use.
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

func (s *Service) Create(ctx context.Context, actor *rbac.Actor, dto CreateOrgTypeDTO) (*orgtypeDatamodel.OrganizationType, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	scope := rbac.Scope{}
	if dto.Scope == orgtypeDatamodel.ScopePlatform {
		scope = rbac.Scope{PlatformID: dto.PlatformID}
		if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin}, scope); err != nil {
			return nil, err
		}
	} else {
		// global types are catalog-wide, super admins only
		if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin}, rbac.Scope{}); err != nil {
			return nil, err
		}
		dto.PlatformID = nil
	}

	taken, err := s.repo.ExistsByCode(dto.Code, dto.Scope, dto.PlatformID)
	if err != nil {
		return nil, errors.NewInternalError("failed to create organization type", err)
	}
	if taken {
		return nil, errors.NewValidationError("An organization type with this code already exists in this scope", errors.ErrCodeDuplicateName)
	}

	t := &orgtypeDatamodel.OrganizationType{
		Code:       dto.Code,
		Category:   dto.Category,
		Scope:      dto.Scope,
		PlatformID: dto.PlatformID,
		Status:     orgtypeDatamodel.StatusActive,
	}
	if err := s.repo.Create(t); err != nil {
		s.logger.Error("org type create failed", "code", dto.Code, "error", err)
		return nil, errors.NewInternalError("failed to create organization type", err)
	}

	s.recorder.Record(ctx, audit.ActionOrgTypeCreate, "org_type", strconv.FormatInt(t.ID, 10), actor.UserID,
		scope, map[string]any{"code": t.Code, "scope": t.Scope})

	return t, nil
}

// Archive retires a type. Types still referenced by organizations are
// never hard deleted, archival hides them from new organizations only.
func (s *Service) Archive(ctx context.Context, actor *rbac.Actor, id int64) (*orgtypeDatamodel.OrganizationType, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	scope := rbac.Scope{PlatformID: t.PlatformID}
	if t.Scope == orgtypeDatamodel.ScopeGlobal {
		if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin}, rbac.Scope{}); err != nil {
			return nil, err
		}
	} else if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin}, scope); err != nil {
		return nil, err
	}

	if t.Status == orgtypeDatamodel.StatusArchived {
		return t, nil
	}

	if err := s.repo.SetStatus(id, orgtypeDatamodel.StatusArchived); err != nil {
		s.logger.Error("org type archive failed", "org_type_id", id, "error", err)
		return nil, errors.NewInternalError("failed to archive organization type", err)
	}
	t.Status = orgtypeDatamodel.StatusArchived

	s.recorder.Record(ctx, audit.ActionOrgTypeArchive, "org_type", strconv.FormatInt(id, 10), actor.UserID,
		scope, map[string]any{"code": t.Code, "usage_count": t.UsageCount})

	return t, nil
}

// Delete removes an unused type. A type referenced by any organization
// cannot be deleted, only archived.
func (s *Service) Delete(ctx context.Context, actor *rbac.Actor, id int64) error {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if t.Scope == orgtypeDatamodel.ScopeGlobal {
		if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin}, rbac.Scope{}); err != nil {
			return err
		}
	} else if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin}, rbac.Scope{PlatformID: t.PlatformID}); err != nil {
		return err
	}

	if t.UsageCount > 0 {
		return errors.ErrOrgTypeInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("org type delete failed", "org_type_id", id, "error", err)
		return errors.NewInternalError("failed to delete organization type", err)
	}

	s.recorder.Record(ctx, audit.ActionOrgTypeDelete, "org_type", strconv.FormatInt(id, 10), actor.UserID,
		rbac.Scope{PlatformID: t.PlatformID}, map[string]any{"code": t.Code})

	return nil
}

func (s *Service) List(ctx context.Context, actor *rbac.Actor) ([]*orgtypeDatamodel.OrganizationType, error) {
	if err := rbac.Authorize(actor, nil, rbac.Scope{}); err != nil {
		return nil, err
	}
	// non super admins see global types plus their own platform's types
	if actor.Role != rbac.RoleSuperAdmin {
		return s.repo.ListVisible(actor.PlatformID)
	}
	return s.repo.ListVisible(nil)
}

// Resolve looks up an active type by code for organization creation and
// bumps nothing. Usage counting happens when the organization references it.
func (s *Service) Resolve(ctx context.Context, code string, platformID int64) (*orgtypeDatamodel.OrganizationType, error) {
	t, err := s.repo.GetByCode(code, platformID)
	if err != nil {
		return nil, err
	}
	if t.Status != orgtypeDatamodel.StatusActive {
		return nil, errors.ErrOrgTypeNotFound
	}
	return t, nil
}
