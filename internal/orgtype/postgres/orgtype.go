package postgres

import (
	stderrors "errors"

	errors "github.com/frahmantamala/tenant-management/internal"
	orgtypeDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/orgtype"
	"github.com/frahmantamala/tenant-management/internal/orgtype"
	"gorm.io/gorm"
)

type OrgTypeRepository struct {
	db *gorm.DB
}

func NewOrgTypeRepository(db *gorm.DB) orgtype.RepositoryAPI {
	return &OrgTypeRepository{db: db}
}

func (r *OrgTypeRepository) Create(t *orgtypeDatamodel.OrganizationType) error {
	return r.db.Create(t).Error
}

func (r *OrgTypeRepository) GetByID(id int64) (*orgtypeDatamodel.OrganizationType, error) {
	var t orgtypeDatamodel.OrganizationType
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrgTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByCode prefers a platform scoped match over a global one.
func (r *OrgTypeRepository) GetByCode(code string, platformID int64) (*orgtypeDatamodel.OrganizationType, error) {
	var t orgtypeDatamodel.OrganizationType
	err := r.db.
		Where("code = ? AND (scope = ? OR platform_id = ?)", code, orgtypeDatamodel.ScopeGlobal, platformID).
		Order("scope DESC").
		First(&t).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrgTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *OrgTypeRepository) ExistsByCode(code, scope string, platformID *int64) (bool, error) {
	query := r.db.Model(&orgtypeDatamodel.OrganizationType{}).
		Where("code = ? AND scope = ?", code, scope)
	if platformID != nil {
		query = query.Where("platform_id = ?", *platformID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrgTypeRepository) ListVisible(platformID *int64) ([]*orgtypeDatamodel.OrganizationType, error) {
	query := r.db.Model(&orgtypeDatamodel.OrganizationType{})
	if platformID != nil {
		query = query.Where("scope = ? OR platform_id = ?", orgtypeDatamodel.ScopeGlobal, *platformID)
	}

	var types []*orgtypeDatamodel.OrganizationType
	err := query.Order("code ASC").Find(&types).Error
	return types, err
}

func (r *OrgTypeRepository) SetStatus(id int64, status string) error {
	return r.db.Model(&orgtypeDatamodel.OrganizationType{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *OrgTypeRepository) AdjustUsage(id int64, delta int64) error {
	return r.db.Model(&orgtypeDatamodel.OrganizationType{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + ?", delta)).Error
}

func (r *OrgTypeRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&orgtypeDatamodel.OrganizationType{}).Error
}
