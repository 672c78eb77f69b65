package platform

import "time"

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

type Platform struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Status      string    `gorm:"column:status;default:active"`
	CreatedBy   int64     `gorm:"column:created_by;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Platform) TableName() string {
	return "platforms"
}
