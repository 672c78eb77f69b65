package platform

import (
	"context"

	platformDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/platform"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *rbac.Actor, dto CreatePlatformDTO) (*platformDatamodel.Platform, error)
	Update(ctx context.Context, actor *rbac.Actor, id int64, dto UpdatePlatformDTO) (*platformDatamodel.Platform, error)
	Get(ctx context.Context, actor *rbac.Actor, id int64) (*platformDatamodel.Platform, error)
	List(ctx context.Context, actor *rbac.Actor) ([]*platformDatamodel.Platform, error)
}

type RepositoryAPI interface {
	Create(platform *platformDatamodel.Platform) error
	Update(platform *platformDatamodel.Platform) error
	GetByID(id int64) (*platformDatamodel.Platform, error)
	GetBySlug(slug string) (*platformDatamodel.Platform, error)
	ExistsByNameOrSlug(name, slug string, excludeID int64) (bool, error)
	List() ([]*platformDatamodel.Platform, error)
}
