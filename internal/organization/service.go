package organization

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	"github.com/frahmantamala/tenant-management/internal/auth"
	orgDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/organization"
	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/orgtype"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

// Service owns the organization lifecycle: created pending (or pre-approved
// on high trust), then approved or rejected by a platform admin of the same
// platform or a super admin. Approval also activates the creator account.
type Service struct {
	repo          RepositoryAPI
	types         orgtype.ServiceAPI
	typeUsage     TypeUsageAPI
	activator     CreatorActivatorAPI
	bus           events.PublisherAPI
	recorder      audit.RecorderAPI
	logger        *slog.Logger
	resetTokenTTL time.Duration
}

func NewService(
	repo RepositoryAPI,
	types orgtype.ServiceAPI,
	typeUsage TypeUsageAPI,
	activator CreatorActivatorAPI,
	bus events.PublisherAPI,
	recorder audit.RecorderAPI,
	logger *slog.Logger,
	resetTokenTTL time.Duration,
) *Service {
	if resetTokenTTL <= 0 {
		resetTokenTTL = 24 * time.Hour
	}
	return &Service{
		repo:          repo,
		types:         types,
		typeUsage:     typeUsage,
		activator:     activator,
		bus:           bus,
		recorder:      recorder,
		logger:        logger,
		resetTokenTTL: resetTokenTTL,
	}
}

func (s *Service) Create(ctx context.Context, actor *rbac.Actor, dto CreateOrganizationDTO) (*orgDatamodel.Organization, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin, rbac.RoleOrganizationAdmin},
		rbac.PlatformScope(dto.PlatformID)); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByName(dto.Name, dto.PlatformID)
	if err != nil {
		return nil, errors.NewInternalError("failed to create organization", err)
	}
	if taken {
		return nil, errors.NewValidationError("An organization with this name already exists on this platform", errors.ErrCodeDuplicateName)
	}

	org := &orgDatamodel.Organization{
		Name:       dto.Name,
		Slug:       dto.Slug,
		Domain:     dto.Domain,
		PlatformID: dto.PlatformID,
		Status:     orgDatamodel.StatusPending,
		CreatedBy:  actor.UserID,
	}

	if dto.OrgType != "" {
		t, err := s.types.Resolve(ctx, dto.OrgType, dto.PlatformID)
		if err != nil {
			return nil, err
		}
		org.OrgTypeID = &t.ID
	}

	// high trust skips document review entirely
	if dto.TrustLevel == TrustLevelHigh {
		now := time.Now()
		org.Status = orgDatamodel.StatusApproved
		org.ApprovedBy = &actor.UserID
		org.ApprovedAt = &now
	}

	if err := s.repo.Create(org); err != nil {
		s.logger.Error("organization create failed", "name", dto.Name, "platform_id", dto.PlatformID, "error", err)
		return nil, errors.NewInternalError("failed to create organization", err)
	}

	if org.OrgTypeID != nil {
		if err := s.typeUsage.AdjustUsage(*org.OrgTypeID, 1); err != nil {
			s.logger.Warn("org type usage bump failed", "org_type_id", *org.OrgTypeID, "error", err)
		}
	}

	s.recorder.Record(ctx, audit.ActionOrgCreate, "organization", strconv.FormatInt(org.ID, 10), actor.UserID,
		rbac.OrgScope(org.PlatformID, org.ID), map[string]any{"name": org.Name, "status": org.Status, "trust_level": dto.TrustLevel})

	return org, nil
}

func (s *Service) Get(ctx context.Context, actor *rbac.Actor, id int64) (*orgDatamodel.Organization, error) {
	org, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(actor, nil, rbac.OrgScope(org.PlatformID, org.ID)); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *Service) List(ctx context.Context, actor *rbac.Actor, platformID *int64) ([]*orgDatamodel.Organization, error) {
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin}, rbac.Scope{PlatformID: platformID}); err != nil {
		return nil, err
	}
	if actor.Role != rbac.RoleSuperAdmin {
		platformID = actor.PlatformID
	}
	return s.repo.ListByPlatform(platformID)
}

// Approve transitions pending → approved with a conditional update. When no
// row transitions the organization was already processed; the caller gets
// AlreadyProcessed with the recorded approver and timestamp.
func (s *Service) Approve(ctx context.Context, actor *rbac.Actor, id int64) (*orgDatamodel.Organization, error) {
	org, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin},
		rbac.PlatformScope(org.PlatformID)); err != nil {
		return nil, err
	}

	now := time.Now()
	transitioned, err := s.repo.MarkApproved(id, orgDatamodel.StatusPending, actor.UserID, now)
	if err != nil {
		s.logger.Error("organization approve failed", "organization_id", id, "error", err)
		return nil, errors.NewInternalError("failed to approve organization", err)
	}
	if !transitioned {
		current, err := s.repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		return nil, errors.NewConflictError("Organization has already been processed", errors.ErrCodeAlreadyProcessed).
			WithDetails(map[string]any{
				"status":      current.Status,
				"approved_by": current.ApprovedBy,
				"approved_at": current.ApprovedAt,
			})
	}

	org.Status = orgDatamodel.StatusApproved
	org.ApprovedBy = &actor.UserID
	org.ApprovedAt = &now

	s.activateCreator(ctx, org)

	s.recorder.Record(ctx, audit.ActionOrgApprove, "organization", strconv.FormatInt(id, 10), actor.UserID,
		rbac.OrgScope(org.PlatformID, org.ID), map[string]any{"name": org.Name})

	return org, nil
}

// activateCreator flips the creator account to active and mails a password
// reset link. Activation problems never fail the approval itself.
func (s *Service) activateCreator(ctx context.Context, org *orgDatamodel.Organization) {
	token, err := auth.GenerateRandomToken()
	if err != nil {
		s.logger.Error("creator activation token generation failed", "organization_id", org.ID, "error", err)
		return
	}

	email, err := s.activator.ActivateWithResetToken(org.CreatedBy, token, time.Now().Add(s.resetTokenTTL))
	if err != nil {
		s.logger.Error("creator activation failed", "organization_id", org.ID, "user_id", org.CreatedBy, "error", err)
		return
	}

	if err := s.bus.Publish(ctx, events.NewOrganizationApprovedEvent(org.Name, email, token)); err != nil {
		s.logger.Error("approval notification publish failed", "organization_id", org.ID, "error", err)
	}
}

// notifyCreatorRejected mails the creator the rejection reason. Notification
// problems never fail the rejection itself.
func (s *Service) notifyCreatorRejected(ctx context.Context, org *orgDatamodel.Organization, reason string) {
	email, err := s.activator.EmailByID(org.CreatedBy)
	if err != nil {
		s.logger.Error("creator lookup for rejection notice failed", "organization_id", org.ID, "user_id", org.CreatedBy, "error", err)
		return
	}
	if err := s.bus.Publish(ctx, events.NewOrganizationRejectedEvent(org.Name, email, reason)); err != nil {
		s.logger.Error("rejection notification publish failed", "organization_id", org.ID, "error", err)
	}
}

// Reject is terminal and requires a reason.
func (s *Service) Reject(ctx context.Context, actor *rbac.Actor, id int64, dto RejectOrganizationDTO) (*orgDatamodel.Organization, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	org, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin},
		rbac.PlatformScope(org.PlatformID)); err != nil {
		return nil, err
	}

	now := time.Now()
	transitioned, err := s.repo.MarkRejected(id, dto.Reason, now)
	if err != nil {
		s.logger.Error("organization reject failed", "organization_id", id, "error", err)
		return nil, errors.NewInternalError("failed to reject organization", err)
	}
	if !transitioned {
		return nil, errors.ErrAlreadyProcessed
	}

	org.Status = orgDatamodel.StatusRejected
	org.RejectedAt = &now
	org.RejectionReason = dto.Reason

	s.notifyCreatorRejected(ctx, org, dto.Reason)

	s.recorder.Record(ctx, audit.ActionOrgReject, "organization", strconv.FormatInt(id, 10), actor.UserID,
		rbac.OrgScope(org.PlatformID, org.ID), map[string]any{"name": org.Name, "reason": dto.Reason})

	return org, nil
}

// SubmitDocuments records the outcome of external document verification.
// A verified submission moves pending_documents straight to approved; an
// unverified one parks a pending organization in pending_documents.
func (s *Service) SubmitDocuments(ctx context.Context, actor *rbac.Actor, id int64, dto SubmitDocumentsDTO) (*orgDatamodel.Organization, error) {
	org, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin, rbac.RoleOrganizationAdmin},
		rbac.OrgScope(org.PlatformID, org.ID)); err != nil {
		return nil, err
	}

	if dto.Verified {
		now := time.Now()
		transitioned, err := s.repo.MarkApproved(id, orgDatamodel.StatusPendingDocuments, actor.UserID, now)
		if err != nil {
			return nil, errors.NewInternalError("failed to process documents", err)
		}
		if !transitioned {
			return nil, errors.NewConflictError("Organization is not awaiting document verification", errors.ErrCodeInvalidOrgStatus)
		}
		org.Status = orgDatamodel.StatusApproved
		org.ApprovedBy = &actor.UserID
		org.ApprovedAt = &now
		s.activateCreator(ctx, org)
	} else {
		transitioned, err := s.repo.MarkPendingDocuments(id)
		if err != nil {
			return nil, errors.NewInternalError("failed to process documents", err)
		}
		if !transitioned {
			return nil, errors.NewConflictError("Organization is not awaiting documents", errors.ErrCodeInvalidOrgStatus)
		}
		org.Status = orgDatamodel.StatusPendingDocuments
	}

	s.recorder.Record(ctx, audit.ActionOrgDocuments, "organization", strconv.FormatInt(id, 10), actor.UserID,
		rbac.OrgScope(org.PlatformID, org.ID), map[string]any{"verified": dto.Verified, "status": org.Status})

	return org, nil
}
