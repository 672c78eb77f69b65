package organization

import "time"

const (
	StatusPending          = "pending"
	StatusPendingDocuments = "pending_documents"
	StatusApproved         = "approved"
	StatusRejected         = "rejected"
)

type Organization struct {
	ID              int64      `gorm:"primaryKey"`
	Name            string     `gorm:"column:name;not null;index:idx_org_platform_name,unique"`
	Slug            string     `gorm:"column:slug;not null"`
	Domain          string     `gorm:"column:domain"`
	OrgTypeID       *int64     `gorm:"column:org_type_id"`
	PlatformID      int64      `gorm:"column:platform_id;not null;index:idx_org_platform_name,unique"`
	Status          string     `gorm:"column:status;default:pending"`
	CreatedBy       int64      `gorm:"column:created_by;not null"`
	ApprovedBy      *int64     `gorm:"column:approved_by"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Organization) TableName() string {
	return "organizations"
}
