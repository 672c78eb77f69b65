package invitation

import (
	"context"
	"time"

	inviteDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/invitation"
	userDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *rbac.Actor, dto CreateInvitationDTO) (*inviteDatamodel.Invitation, error)
	Accept(ctx context.Context, dto AcceptInvitationDTO) (*userDatamodel.User, error)
	Resend(ctx context.Context, actor *rbac.Actor, id int64) (*inviteDatamodel.Invitation, error)
	Revoke(ctx context.Context, actor *rbac.Actor, id int64) error
	List(ctx context.Context, actor *rbac.Actor) ([]*inviteDatamodel.Invitation, error)
}

type RepositoryAPI interface {
	Create(inv *inviteDatamodel.Invitation) error
	GetByID(id int64) (*inviteDatamodel.Invitation, error)
	GetByToken(token string) (*inviteDatamodel.Invitation, error)
	HasPending(email string, organizationID *int64) (bool, error)
	ListScoped(platformID, organizationID *int64) ([]*inviteDatamodel.Invitation, error)

	// MarkAccepted and MarkExpired are conditional on the pending status so
	// a second redeem or revoke of the same invitation affects zero rows.
	MarkAccepted(id int64, acceptedAt time.Time) (bool, error)
	MarkExpired(id int64, revoked bool) (bool, error)
	UpdateToken(id int64, token string, expiresAt time.Time) error
}

// UserCreatorAPI creates the account an accepted invitation is bound to.
type UserCreatorAPI interface {
	Create(u *userDatamodel.User) error
	ExistsByEmailOrUsername(email, username string) (bool, error)
}
