package audit

import "time"

type AuditEntry struct {
	ID             string    `gorm:"primaryKey;column:id"`
	Action         string    `gorm:"column:action;not null;index:idx_audit_dedup"`
	TargetType     string    `gorm:"column:target_type;not null;index:idx_audit_dedup"`
	TargetID       string    `gorm:"column:target_id;not null;index:idx_audit_dedup"`
	ActorID        int64     `gorm:"column:actor_id;not null;index:idx_audit_dedup"`
	PlatformID     *int64    `gorm:"column:platform_id"`
	OrganizationID *int64    `gorm:"column:organization_id"`
	Details        string    `gorm:"column:details;type:jsonb"`
	CreatedAt      time.Time `gorm:"column:created_at;default:now()"`
}

func (AuditEntry) TableName() string {
	return "audit_log"
}
