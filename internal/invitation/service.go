package invitation

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	"github.com/frahmantamala/tenant-management/internal/auth"
	inviteDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/invitation"
	userDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

// Service runs the invitation lifecycle. Who may invite whom follows the
// role allow-lists in rbac.CanInvite; expiry is wall clock, checked lazily
// on read and persisted when first observed.
type Service struct {
	repo       RepositoryAPI
	users      UserCreatorAPI
	bus        events.PublisherAPI
	recorder   audit.RecorderAPI
	logger     *slog.Logger
	bcryptCost int
	userTTL    time.Duration
	orgTTL     time.Duration
}

func NewService(
	repo RepositoryAPI,
	users UserCreatorAPI,
	bus events.PublisherAPI,
	recorder audit.RecorderAPI,
	logger *slog.Logger,
	bcryptCost int,
	userTTL, orgTTL time.Duration,
) *Service {
	if userTTL <= 0 {
		userTTL = 24 * time.Hour
	}
	if orgTTL <= 0 {
		orgTTL = 7 * 24 * time.Hour
	}
	return &Service{
		repo:       repo,
		users:      users,
		bus:        bus,
		recorder:   recorder,
		logger:     logger,
		bcryptCost: bcryptCost,
		userTTL:    userTTL,
		orgTTL:     orgTTL,
	}
}

func (s *Service) Create(ctx context.Context, actor *rbac.Actor, dto CreateInvitationDTO) (*inviteDatamodel.Invitation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	// invites default into the inviter's own tenancy
	if dto.PlatformID == nil {
		dto.PlatformID = actorPlatform(actor)
	}
	if dto.OrganizationID == nil && actor != nil && actor.Role == rbac.RoleOrganizationAdmin {
		dto.OrganizationID = actor.OrganizationID
	}

	role, _ := rbac.ParseRole(dto.Role)
	scope := rbac.Scope{PlatformID: dto.PlatformID, OrganizationID: dto.OrganizationID}
	if err := rbac.CanInvite(actor, role, scope); err != nil {
		return nil, err
	}

	registered, err := s.users.ExistsByEmailOrUsername(dto.Email, "")
	if err != nil {
		return nil, errors.NewInternalError("failed to create invitation", err)
	}
	if registered {
		return nil, errors.ErrEmailRegistered
	}

	pending, err := s.repo.HasPending(dto.Email, dto.OrganizationID)
	if err != nil {
		return nil, errors.NewInternalError("failed to create invitation", err)
	}
	if pending {
		return nil, errors.ErrDuplicateInvite
	}

	token, err := auth.GenerateRandomToken()
	if err != nil {
		return nil, errors.NewInternalError("failed to create invitation", err)
	}

	expiresAt := time.Now().Add(s.ttlFor(role))
	inv := &inviteDatamodel.Invitation{
		Email:          dto.Email,
		Role:           string(role),
		PlatformID:     dto.PlatformID,
		OrganizationID: dto.OrganizationID,
		InviterID:      actor.UserID,
		InviterName:    actor.Email,
		Token:          token,
		Status:         inviteDatamodel.StatusPending,
		ExpiresAt:      expiresAt,
	}
	if err := s.repo.Create(inv); err != nil {
		s.logger.Error("invitation create failed", "email", dto.Email, "error", err)
		return nil, errors.NewInternalError("failed to create invitation", err)
	}

	if err := s.bus.Publish(ctx, events.NewUserInvitedEvent(inv.Email, inv.Role, inv.InviterName, token, expiresAt)); err != nil {
		s.logger.Error("invitation notification publish failed", "invitation_id", inv.ID, "error", err)
	}

	s.recorder.Record(ctx, audit.ActionInviteCreate, "invitation", strconv.FormatInt(inv.ID, 10), actor.UserID,
		scope, map[string]any{"email": inv.Email, "role": inv.Role})

	return inv, nil
}

// organization admin invites get the long window so a new admin has time to
// complete organization onboarding
func (s *Service) ttlFor(role rbac.Role) time.Duration {
	if role == rbac.RoleOrganizationAdmin {
		return s.orgTTL
	}
	return s.userTTL
}

// Accept redeems a token and creates the invited account. The pending →
// accepted transition is a conditional update, so of two concurrent
// redeems exactly one creates the user.
func (s *Service) Accept(ctx context.Context, dto AcceptInvitationDTO) (*userDatamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.repo.GetByToken(dto.Token)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Code == errors.ErrCodeInvitationNotFound {
			return nil, errors.ErrInvalidToken
		}
		return nil, err
	}

	// revoked and previously expired tokens read as expired; only a
	// completed redemption reads as already processed
	if inv.Status == inviteDatamodel.StatusExpired || inv.Revoked {
		return nil, errors.ErrTokenExpired
	}
	if inv.Status != inviteDatamodel.StatusPending {
		return nil, errors.ErrAlreadyProcessed
	}

	if time.Now().After(inv.ExpiresAt) {
		// persist the expiry the first time it is observed
		if _, err := s.repo.MarkExpired(inv.ID, false); err != nil {
			s.logger.Warn("lazy expiry persist failed", "invitation_id", inv.ID, "error", err)
		}
		return nil, errors.ErrTokenExpired
	}

	taken, err := s.users.ExistsByEmailOrUsername(inv.Email, dto.Username)
	if err != nil {
		return nil, errors.NewInternalError("failed to accept invitation", err)
	}
	if taken {
		return nil, errors.ErrEmailRegistered
	}

	claimed, err := s.repo.MarkAccepted(inv.ID, time.Now())
	if err != nil {
		return nil, errors.NewInternalError("failed to accept invitation", err)
	}
	if !claimed {
		return nil, errors.ErrAlreadyProcessed
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to accept invitation", err)
	}

	u := &userDatamodel.User{
		Username:       dto.Username,
		Email:          inv.Email,
		Name:           dto.Name,
		PasswordHash:   hash,
		Role:           inv.Role,
		PlatformID:     inv.PlatformID,
		OrganizationID: inv.OrganizationID,
		Status:         userDatamodel.StatusActive,
	}
	if err := s.users.Create(u); err != nil {
		s.logger.Error("invited user create failed", "invitation_id", inv.ID, "email", inv.Email, "error", err)
		return nil, errors.NewInternalError("failed to accept invitation", err)
	}

	s.recorder.Record(ctx, audit.ActionInviteAccept, "invitation", strconv.FormatInt(inv.ID, 10), u.ID,
		rbac.Scope{PlatformID: inv.PlatformID, OrganizationID: inv.OrganizationID},
		map[string]any{"email": inv.Email, "role": inv.Role})

	return u, nil
}

// Resend regenerates the token and extends the expiry of a still pending
// invitation.
func (s *Service) Resend(ctx context.Context, actor *rbac.Actor, id int64) (*inviteDatamodel.Invitation, error) {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	role, _ := rbac.ParseRole(inv.Role)
	scope := rbac.Scope{PlatformID: inv.PlatformID, OrganizationID: inv.OrganizationID}
	if err := rbac.CanInvite(actor, role, scope); err != nil {
		return nil, err
	}

	if inv.Status != inviteDatamodel.StatusPending || inv.Revoked {
		return nil, errors.ErrAlreadyProcessed
	}

	token, err := auth.GenerateRandomToken()
	if err != nil {
		return nil, errors.NewInternalError("failed to resend invitation", err)
	}
	expiresAt := time.Now().Add(s.ttlFor(role))

	if err := s.repo.UpdateToken(inv.ID, token, expiresAt); err != nil {
		s.logger.Error("invitation resend failed", "invitation_id", id, "error", err)
		return nil, errors.NewInternalError("failed to resend invitation", err)
	}
	inv.Token = token
	inv.ExpiresAt = expiresAt

	if err := s.bus.Publish(ctx, events.NewInvitationResentEvent(inv.Email, inv.Role, inv.InviterName, token, expiresAt)); err != nil {
		s.logger.Error("resend notification publish failed", "invitation_id", id, "error", err)
	}

	s.recorder.Record(ctx, audit.ActionInviteResend, "invitation", strconv.FormatInt(id, 10), actor.UserID,
		scope, map[string]any{"email": inv.Email})

	return inv, nil
}

// Revoke closes a pending invitation. Accepted or already expired
// invitations report AlreadyProcessed.
func (s *Service) Revoke(ctx context.Context, actor *rbac.Actor, id int64) error {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	role, _ := rbac.ParseRole(inv.Role)
	scope := rbac.Scope{PlatformID: inv.PlatformID, OrganizationID: inv.OrganizationID}
	if err := rbac.CanInvite(actor, role, scope); err != nil {
		return err
	}

	closed, err := s.repo.MarkExpired(id, true)
	if err != nil {
		return errors.NewInternalError("failed to revoke invitation", err)
	}
	if !closed {
		return errors.ErrAlreadyProcessed
	}

	s.recorder.Record(ctx, audit.ActionInviteRevoke, "invitation", strconv.FormatInt(id, 10), actor.UserID,
		scope, map[string]any{"email": inv.Email})

	return nil
}

func (s *Service) List(ctx context.Context, actor *rbac.Actor) ([]*inviteDatamodel.Invitation, error) {
	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin, rbac.RoleOrganizationAdmin}, rbac.Scope{}); err != nil {
		return nil, err
	}

	switch actor.Role {
	case rbac.RoleSuperAdmin:
		return s.repo.ListScoped(nil, nil)
	case rbac.RolePlatformAdmin:
		return s.repo.ListScoped(actor.PlatformID, nil)
	default:
		return s.repo.ListScoped(nil, actor.OrganizationID)
	}
}

func actorPlatform(actor *rbac.Actor) *int64 {
	if actor == nil {
		return nil
	}
	return actor.PlatformID
}
