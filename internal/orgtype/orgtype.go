package orgtype

import (
	"context"

	orgtypeDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/orgtype"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *rbac.Actor, dto CreateOrgTypeDTO) (*orgtypeDatamodel.OrganizationType, error)
	Archive(ctx context.Context, actor *rbac.Actor, id int64) (*orgtypeDatamodel.OrganizationType, error)
	Delete(ctx context.Context, actor *rbac.Actor, id int64) error
	List(ctx context.Context, actor *rbac.Actor) ([]*orgtypeDatamodel.OrganizationType, error)
	Resolve(ctx context.Context, code string, platformID int64) (*orgtypeDatamodel.OrganizationType, error)
}

type RepositoryAPI interface {
	Create(orgType *orgtypeDatamodel.OrganizationType) error
	GetByID(id int64) (*orgtypeDatamodel.OrganizationType, error)
	GetByCode(code string, platformID int64) (*orgtypeDatamodel.OrganizationType, error)
	ExistsByCode(code, scope string, platformID *int64) (bool, error)
	ListVisible(platformID *int64) ([]*orgtypeDatamodel.OrganizationType, error)
	SetStatus(id int64, status string) error
	Delete(id int64) error
	AdjustUsage(id int64, delta int64) error
}
