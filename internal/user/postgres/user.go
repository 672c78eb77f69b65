package postgres

import (
	stderrors "errors"
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	userDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmailOrUsername(email, username string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) ListScoped(platformID, organizationID *int64, limit, offset int) ([]*userDatamodel.User, error) {
	query := r.db.Model(&userDatamodel.User{})
	if platformID != nil {
		query = query.Where("platform_id = ?", *platformID)
	}
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}

	var users []*userDatamodel.User
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateRole(id int64, role string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now()}).Error
}

func (r *UserRepository) SetDisabled(id int64, disabled bool) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"disabled": disabled, "updated_at": time.Now()}).Error
}

func (r *UserRepository) EmailByID(id int64) (string, error) {
	u, err := r.GetByID(id)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}

// ActivateWithResetToken flips a pending account to active and stores a
// password reset token so the owner can set their first password.
func (r *UserRepository) ActivateWithResetToken(userID int64, token string, expiresAt time.Time) (string, error) {
	u, err := r.GetByID(userID)
	if err != nil {
		return "", err
	}

	err = r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"status":              userDatamodel.StatusActive,
			"reset_token":         token,
			"reset_token_expires": expiresAt,
			"updated_at":          time.Now(),
		}).Error
	if err != nil {
		return "", err
	}
	return u.Email, nil
}
