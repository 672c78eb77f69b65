package postgres

import (
	stderrors "errors"
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	orgDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/organization"
	"github.com/frahmantamala/tenant-management/internal/organization"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.RepositoryAPI {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(org *orgDatamodel.Organization) error {
	return r.db.Create(org).Error
}

func (r *OrganizationRepository) GetByID(id int64) (*orgDatamodel.Organization, error) {
	var org orgDatamodel.Organization
	err := r.db.Where("id = ?", id).First(&org).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) ExistsByName(name string, platformID int64) (bool, error) {
	var count int64
	err := r.db.Model(&orgDatamodel.Organization{}).
		Where("name = ? AND platform_id = ?", name, platformID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrganizationRepository) ListByPlatform(platformID *int64) ([]*orgDatamodel.Organization, error) {
	query := r.db.Model(&orgDatamodel.Organization{})
	if platformID != nil {
		query = query.Where("platform_id = ?", *platformID)
	}

	var orgs []*orgDatamodel.Organization
	err := query.Order("created_at DESC").Find(&orgs).Error
	return orgs, err
}

// MarkApproved flips the status only when the row is still in fromStatus.
// RowsAffected tells the caller whether this attempt won the transition.
func (r *OrganizationRepository) MarkApproved(id int64, fromStatus string, approvedBy int64, approvedAt time.Time) (bool, error) {
	result := r.db.Model(&orgDatamodel.Organization{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(map[string]interface{}{
			"status":      orgDatamodel.StatusApproved,
			"approved_by": approvedBy,
			"approved_at": approvedAt,
			"updated_at":  time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *OrganizationRepository) MarkRejected(id int64, reason string, rejectedAt time.Time) (bool, error) {
	result := r.db.Model(&orgDatamodel.Organization{}).
		Where("id = ? AND status IN ?", id, []string{orgDatamodel.StatusPending, orgDatamodel.StatusPendingDocuments}).
		Updates(map[string]interface{}{
			"status":           orgDatamodel.StatusRejected,
			"rejection_reason": reason,
			"rejected_at":      rejectedAt,
			"updated_at":       time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *OrganizationRepository) MarkPendingDocuments(id int64) (bool, error) {
	result := r.db.Model(&orgDatamodel.Organization{}).
		Where("id = ? AND status = ?", id, orgDatamodel.StatusPending).
		Updates(map[string]interface{}{
			"status":     orgDatamodel.StatusPendingDocuments,
			"updated_at": time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}
