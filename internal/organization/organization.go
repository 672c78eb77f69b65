package organization

import (
	"context"
	"time"

	orgDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/organization"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *rbac.Actor, dto CreateOrganizationDTO) (*orgDatamodel.Organization, error)
	Get(ctx context.Context, actor *rbac.Actor, id int64) (*orgDatamodel.Organization, error)
	List(ctx context.Context, actor *rbac.Actor, platformID *int64) ([]*orgDatamodel.Organization, error)
	Approve(ctx context.Context, actor *rbac.Actor, id int64) (*orgDatamodel.Organization, error)
	Reject(ctx context.Context, actor *rbac.Actor, id int64, dto RejectOrganizationDTO) (*orgDatamodel.Organization, error)
	SubmitDocuments(ctx context.Context, actor *rbac.Actor, id int64, dto SubmitDocumentsDTO) (*orgDatamodel.Organization, error)
}

type RepositoryAPI interface {
	Create(org *orgDatamodel.Organization) error
	GetByID(id int64) (*orgDatamodel.Organization, error)
	ExistsByName(name string, platformID int64) (bool, error)
	ListByPlatform(platformID *int64) ([]*orgDatamodel.Organization, error)

	// MarkApproved and MarkRejected are conditional updates filtered on the
	// current status. They report whether a row transitioned, so concurrent
	// attempts observe zero rows and surface AlreadyProcessed.
	MarkApproved(id int64, fromStatus string, approvedBy int64, approvedAt time.Time) (bool, error)
	MarkRejected(id int64, reason string, rejectedAt time.Time) (bool, error)
	MarkPendingDocuments(id int64) (bool, error)
}

// CreatorActivatorAPI activates the organization creator account once the
// organization is approved, and resolves creator addresses for rejection
// notices. Implemented by the user repository.
type CreatorActivatorAPI interface {
	ActivateWithResetToken(userID int64, token string, expiresAt time.Time) (string, error)
	EmailByID(userID int64) (string, error)
}

// TypeUsageAPI tracks how many organizations reference a type.
type TypeUsageAPI interface {
	AdjustUsage(id int64, delta int64) error
}
