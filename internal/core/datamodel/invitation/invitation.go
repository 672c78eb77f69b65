package invitation

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusExpired  = "expired"
)

type Invitation struct {
	ID             int64      `gorm:"primaryKey"`
	Email          string     `gorm:"column:email;not null;index"`
	Role           string     `gorm:"column:role;not null"`
	OrganizationID *int64     `gorm:"column:organization_id;index"`
	PlatformID     *int64     `gorm:"column:platform_id"`
	InviterID      int64      `gorm:"column:inviter_id;not null"`
	InviterName    string     `gorm:"column:inviter_name"`
	Token          string     `gorm:"column:token;uniqueIndex;not null"`
	Status         string     `gorm:"column:status;default:pending"`
	Revoked        bool       `gorm:"column:revoked;default:false"`
	ExpiresAt      time.Time  `gorm:"column:expires_at;not null"`
	AcceptedAt     *time.Time `gorm:"column:accepted_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Invitation) TableName() string {
	return "invitations"
}
