package user

import "time"

const (
	StatusPending = "pending"
	StatusActive  = "active"
)

type User struct {
	ID                  int64      `gorm:"primaryKey"`
	Username            string     `gorm:"column:username;uniqueIndex;not null"`
	Email               string     `gorm:"column:email;uniqueIndex;not null"`
	Name                string     `gorm:"column:name;not null"`
	PasswordHash        string     `gorm:"column:password_hash;not null"`
	Role                string     `gorm:"column:role;not null"`
	PlatformID          *int64     `gorm:"column:platform_id"`
	OrganizationID      *int64     `gorm:"column:organization_id"`
	Status              string     `gorm:"column:status;default:pending"`
	Disabled            bool       `gorm:"column:disabled;default:false"`
	VerifyToken         *string    `gorm:"column:verify_token"`
	VerifyTokenExpires  *time.Time `gorm:"column:verify_token_expires"`
	ResetToken          *string    `gorm:"column:reset_token"`
	ResetTokenExpires   *time.Time `gorm:"column:reset_token_expires"`
	CreatedAt           time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
