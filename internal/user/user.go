package user

import (
	"context"

	userDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/user"
	"github.com/frahmantamala/tenant-management/internal/rbac"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *rbac.Actor, dto CreateUserDTO) (*userDatamodel.User, error)
	Get(ctx context.Context, actor *rbac.Actor, id int64) (*userDatamodel.User, error)
	List(ctx context.Context, actor *rbac.Actor, limit, offset int) ([]*userDatamodel.User, error)
	ChangeRole(ctx context.Context, actor *rbac.Actor, targetID int64, dto ChangeRoleDTO) (*userDatamodel.User, error)
	Disable(ctx context.Context, actor *rbac.Actor, targetID int64) (*userDatamodel.User, error)
	Enable(ctx context.Context, actor *rbac.Actor, targetID int64) (*userDatamodel.User, error)
}

type RepositoryAPI interface {
	Create(u *userDatamodel.User) error
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	ExistsByEmailOrUsername(email, username string) (bool, error)
	ListScoped(platformID, organizationID *int64, limit, offset int) ([]*userDatamodel.User, error)
	UpdateRole(id int64, role string) error
	SetDisabled(id int64, disabled bool) error
}
