package user

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	"github.com/frahmantamala/tenant-management/internal/auth"
	userDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

var adminRoles = []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin, rbac.RoleOrganizationAdmin}

// Service is the identity store. Accounts are never hard deleted; disable
// flips a flag and every admin mutation runs the authorization gate plus
// the self-modification guard. Admin-created accounts start pending and
// activate through the email verification link.
type Service struct {
	repo           RepositoryAPI
	bus            events.PublisherAPI
	recorder       audit.RecorderAPI
	logger         *slog.Logger
	bcryptCost     int
	verifyTokenTTL time.Duration
}

func NewService(repo RepositoryAPI, bus events.PublisherAPI, recorder audit.RecorderAPI, logger *slog.Logger, bcryptCost int, verifyTokenTTL time.Duration) *Service {
	if verifyTokenTTL <= 0 {
		verifyTokenTTL = 48 * time.Hour
	}
	return &Service{
		repo:           repo,
		bus:            bus,
		recorder:       recorder,
		logger:         logger,
		bcryptCost:     bcryptCost,
		verifyTokenTTL: verifyTokenTTL,
	}
}

func (s *Service) Create(ctx context.Context, actor *rbac.Actor, dto CreateUserDTO) (*userDatamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	targetRole, _ := rbac.ParseRole(dto.Role)
	scope := rbac.Scope{PlatformID: dto.PlatformID, OrganizationID: dto.OrganizationID}
	if err := rbac.Authorize(actor, adminRoles, scope); err != nil {
		return nil, err
	}
	// an admin may only grant roles their own role subsumes
	if !actor.Role.Subsumes(targetRole) {
		return nil, errors.ErrInsufficientRole
	}

	taken, err := s.repo.ExistsByEmailOrUsername(dto.Email, dto.Username)
	if err != nil {
		return nil, errors.NewInternalError("failed to create user", err)
	}
	if taken {
		return nil, errors.ErrEmailRegistered
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to create user", err)
	}

	verifyToken, err := auth.GenerateRandomToken()
	if err != nil {
		return nil, errors.NewInternalError("failed to create user", err)
	}
	verifyExpires := time.Now().Add(s.verifyTokenTTL)

	u := &userDatamodel.User{
		Username:           dto.Username,
		Email:              dto.Email,
		Name:               dto.Name,
		PasswordHash:       hash,
		Role:               string(targetRole),
		PlatformID:         dto.PlatformID,
		OrganizationID:     dto.OrganizationID,
		Status:             userDatamodel.StatusPending,
		VerifyToken:        &verifyToken,
		VerifyTokenExpires: &verifyExpires,
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("user create failed", "email", dto.Email, "error", err)
		return nil, errors.NewInternalError("failed to create user", err)
	}

	if err := s.bus.Publish(ctx, events.NewEmailVerificationEvent(u.Email, verifyToken, verifyExpires)); err != nil {
		s.logger.Error("verification notification publish failed", "user_id", u.ID, "error", err)
	}

	s.recorder.Record(ctx, audit.ActionUserCreate, "user", strconv.FormatInt(u.ID, 10), actor.UserID,
		scope, map[string]any{"email": u.Email, "role": u.Role})

	return u, nil
}

func (s *Service) Get(ctx context.Context, actor *rbac.Actor, id int64) (*userDatamodel.User, error) {
	target, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.UserID == id {
		return target, nil
	}
	scope := rbac.Scope{PlatformID: target.PlatformID, OrganizationID: target.OrganizationID}
	if err := rbac.Authorize(actor, adminRoles, scope); err != nil {
		return nil, err
	}
	return target, nil
}

// List is scoped to the actor: super_admin sees everything, platform_admin
// their platform, organization_admin their organization.
func (s *Service) List(ctx context.Context, actor *rbac.Actor, limit, offset int) ([]*userDatamodel.User, error) {
	if err := rbac.Authorize(actor, adminRoles, rbac.Scope{}); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	switch actor.Role {
	case rbac.RoleSuperAdmin:
		return s.repo.ListScoped(nil, nil, limit, offset)
	case rbac.RolePlatformAdmin:
		return s.repo.ListScoped(actor.PlatformID, nil, limit, offset)
	default:
		return s.repo.ListScoped(nil, actor.OrganizationID, limit, offset)
	}
}

func (s *Service) ChangeRole(ctx context.Context, actor *rbac.Actor, targetID int64, dto ChangeRoleDTO) (*userDatamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := rbac.GuardSelfModification(actor, targetID); err != nil {
		return nil, err
	}

	target, err := s.repo.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	scope := rbac.Scope{PlatformID: target.PlatformID, OrganizationID: target.OrganizationID}
	if err := rbac.Authorize(actor, adminRoles, scope); err != nil {
		return nil, err
	}

	newRole, _ := rbac.ParseRole(dto.Role)
	currentRole, _ := rbac.ParseRole(target.Role)
	// granting or revoking requires authority over both sides of the change
	if !actor.Role.Subsumes(newRole) || !actor.Role.Subsumes(currentRole) {
		return nil, errors.ErrInsufficientRole
	}

	if err := s.repo.UpdateRole(targetID, string(newRole)); err != nil {
		s.logger.Error("role change failed", "user_id", targetID, "error", err)
		return nil, errors.NewInternalError("failed to change role", err)
	}

	s.recorder.Record(ctx, audit.ActionUserRole, "user", strconv.FormatInt(targetID, 10), actor.UserID,
		scope, map[string]any{"from": target.Role, "to": string(newRole)})

	target.Role = string(newRole)
	return target, nil
}

func (s *Service) Disable(ctx context.Context, actor *rbac.Actor, targetID int64) (*userDatamodel.User, error) {
	return s.setDisabled(ctx, actor, targetID, true, audit.ActionUserDisable)
}

func (s *Service) Enable(ctx context.Context, actor *rbac.Actor, targetID int64) (*userDatamodel.User, error) {
	return s.setDisabled(ctx, actor, targetID, false, audit.ActionUserEnable)
}

func (s *Service) setDisabled(ctx context.Context, actor *rbac.Actor, targetID int64, disabled bool, action audit.Action) (*userDatamodel.User, error) {
	if err := rbac.GuardSelfModification(actor, targetID); err != nil {
		return nil, err
	}

	target, err := s.repo.GetByID(targetID)
	if err != nil {
		return nil, err
	}

	scope := rbac.Scope{PlatformID: target.PlatformID, OrganizationID: target.OrganizationID}
	if err := rbac.Authorize(actor, adminRoles, scope); err != nil {
		return nil, err
	}

	targetRole, _ := rbac.ParseRole(target.Role)
	if !actor.Role.Subsumes(targetRole) {
		return nil, errors.ErrInsufficientRole
	}

	if target.Disabled == disabled {
		return target, nil
	}

	if err := s.repo.SetDisabled(targetID, disabled); err != nil {
		s.logger.Error("disable toggle failed", "user_id", targetID, "disabled", disabled, "error", err)
		return nil, errors.NewInternalError("failed to update user", err)
	}

	s.recorder.Record(ctx, action, "user", strconv.FormatInt(targetID, 10), actor.UserID,
		scope, map[string]any{"email": target.Email})

	target.Disabled = disabled
	return target, nil
}
