package postgres

import (
	stderrors "errors"
	"time"

	errors "github.com/frahmantamala/tenant-management/internal"
	inviteDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/invitation"
	"github.com/frahmantamala/tenant-management/internal/invitation"
	"gorm.io/gorm"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) invitation.RepositoryAPI {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(inv *inviteDatamodel.Invitation) error {
	return r.db.Create(inv).Error
}

func (r *InvitationRepository) GetByID(id int64) (*inviteDatamodel.Invitation, error) {
	var inv inviteDatamodel.Invitation
	err := r.db.Where("id = ?", id).First(&inv).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepository) GetByToken(token string) (*inviteDatamodel.Invitation, error) {
	var inv inviteDatamodel.Invitation
	err := r.db.Where("token = ?", token).First(&inv).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepository) HasPending(email string, organizationID *int64) (bool, error) {
	query := r.db.Model(&inviteDatamodel.Invitation{}).
		Where("email = ? AND status = ? AND revoked = ?", email, inviteDatamodel.StatusPending, false)
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	} else {
		query = query.Where("organization_id IS NULL")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *InvitationRepository) ListScoped(platformID, organizationID *int64) ([]*inviteDatamodel.Invitation, error) {
	query := r.db.Model(&inviteDatamodel.Invitation{})
	if platformID != nil {
		query = query.Where("platform_id = ?", *platformID)
	}
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}

	var invitations []*inviteDatamodel.Invitation
	err := query.Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepository) MarkAccepted(id int64, acceptedAt time.Time) (bool, error) {
	result := r.db.Model(&inviteDatamodel.Invitation{}).
		Where("id = ? AND status = ? AND revoked = ?", id, inviteDatamodel.StatusPending, false).
		Updates(map[string]interface{}{
			"status":      inviteDatamodel.StatusAccepted,
			"accepted_at": acceptedAt,
			"updated_at":  time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *InvitationRepository) MarkExpired(id int64, revoked bool) (bool, error) {
	updates := map[string]interface{}{
		"status":     inviteDatamodel.StatusExpired,
		"updated_at": time.Now(),
	}
	if revoked {
		updates["revoked"] = true
	}
	result := r.db.Model(&inviteDatamodel.Invitation{}).
		Where("id = ? AND status = ?", id, inviteDatamodel.StatusPending).
		Updates(updates)
	return result.RowsAffected > 0, result.Error
}

func (r *InvitationRepository) UpdateToken(id int64, token string, expiresAt time.Time) error {
	return r.db.Model(&inviteDatamodel.Invitation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"token":      token,
			"expires_at": expiresAt,
			"updated_at": time.Now(),
		}).Error
}
