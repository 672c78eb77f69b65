package orgtype

import "time"

const (
	ScopeGlobal   = "global"
	ScopePlatform = "platform"

	StatusActive   = "active"
	StatusArchived = "archived"
)

type OrganizationType struct {
	ID         int64     `gorm:"primaryKey"`
	Code       string    `gorm:"column:code;not null;index:idx_org_type_scope_code,unique"`
	Category   string    `gorm:"column:category"`
	Scope      string    `gorm:"column:scope;default:global;index:idx_org_type_scope_code,unique"`
	PlatformID *int64    `gorm:"column:platform_id"`
	Status     string    `gorm:"column:status;default:active"`
	UsageCount int64     `gorm:"column:usage_count;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`
}

func (OrganizationType) TableName() string {
	return "organization_types"
}
