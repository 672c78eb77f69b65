package postgres

import (
	stderrors "errors"

	errors "github.com/frahmantamala/tenant-management/internal"
	platformDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/platform"
	"github.com/frahmantamala/tenant-management/internal/platform"
	"gorm.io/gorm"
)

type PlatformRepository struct {
	db *gorm.DB
}

func NewPlatformRepository(db *gorm.DB) platform.RepositoryAPI {
	return &PlatformRepository{db: db}
}

func (r *PlatformRepository) Create(p *platformDatamodel.Platform) error {
	return r.db.Create(p).Error
}

func (r *PlatformRepository) Update(p *platformDatamodel.Platform) error {
	return r.db.Save(p).Error
}

func (r *PlatformRepository) GetByID(id int64) (*platformDatamodel.Platform, error) {
	var p platformDatamodel.Platform
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPlatformNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlatformRepository) GetBySlug(slug string) (*platformDatamodel.Platform, error) {
	var p platformDatamodel.Platform
	err := r.db.Where("slug = ?", slug).First(&p).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPlatformNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlatformRepository) ExistsByNameOrSlug(name, slug string, excludeID int64) (bool, error) {
	query := r.db.Model(&platformDatamodel.Platform{})
	if slug != "" {
		query = query.Where("name = ? OR slug = ?", name, slug)
	} else {
		query = query.Where("name = ?", name)
	}
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PlatformRepository) List() ([]*platformDatamodel.Platform, error) {
	var platforms []*platformDatamodel.Platform
	err := r.db.Order("name ASC").Find(&platforms).Error
	return platforms, err
}
