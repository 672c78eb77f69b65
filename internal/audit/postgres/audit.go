package postgres

import (
	"time"

	auditDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(entry *auditDatamodel.AuditEntry) error {
	return r.db.Create(entry).Error
}

func (r *AuditRepository) ListBetween(from, to time.Time) ([]*auditDatamodel.AuditEntry, error) {
	var entries []*auditDatamodel.AuditEntry
	err := r.db.
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *AuditRepository) ListByScope(scope rbac.Scope, limit, offset int) ([]*auditDatamodel.AuditEntry, error) {
	query := r.db.Model(&auditDatamodel.AuditEntry{})
	if scope.PlatformID != nil {
		query = query.Where("platform_id = ?", *scope.PlatformID)
	}
	if scope.OrganizationID != nil {
		query = query.Where("organization_id = ?", *scope.OrganizationID)
	}

	var entries []*auditDatamodel.AuditEntry
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *AuditRepository) DeleteByIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&auditDatamodel.AuditEntry{})
	return result.RowsAffected, result.Error
}
