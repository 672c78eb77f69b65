package auth

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/frahmantamala/tenant-management/internal/rbac"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(email string) (string, int64, bool, error) {
	var passwordHash string
	var userID int64
	var disabled bool
	query := `SELECT id, password_hash, disabled FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash, &disabled); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, false, fmt.Errorf("user not found")
		}
		return "", 0, false, err
	}
	return passwordHash, userID, disabled, nil
}

func (r *Repository) GetActor(userID int64) (*rbac.Actor, error) {
	var actor rbac.Actor
	var role string

	query := `SELECT id, email, role, platform_id, organization_id FROM users WHERE id = ? AND disabled = false`

	row := r.db.Raw(query, userID).Row()
	var platformID, organizationID sql.NullInt64
	if err := row.Scan(&actor.UserID, &actor.Email, &role, &platformID, &organizationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	parsed, ok := rbac.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("user %d has unknown role %q", userID, role)
	}
	actor.Role = parsed

	if platformID.Valid {
		actor.PlatformID = &platformID.Int64
	}
	if organizationID.Valid {
		actor.OrganizationID = &organizationID.Int64
	}

	return &actor, nil
}

func (r *Repository) SetResetToken(email, token string, expiresAt time.Time) (bool, error) {
	res := r.db.Exec(
		`UPDATE users SET reset_token = ?, reset_token_expires = ?, updated_at = now() WHERE email = ? AND disabled = false`,
		token, expiresAt, email,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) ConsumeResetToken(token string) (int64, time.Time, error) {
	var userID int64
	var expiresAt time.Time

	row := r.db.Raw(`SELECT id, reset_token_expires FROM users WHERE reset_token = ?`, token).Row()
	if err := row.Scan(&userID, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return 0, time.Time{}, fmt.Errorf("token not found")
		}
		return 0, time.Time{}, err
	}
	return userID, expiresAt, nil
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	return r.db.Exec(
		`UPDATE users SET password_hash = ?, reset_token = NULL, reset_token_expires = NULL, updated_at = now() WHERE id = ?`,
		passwordHash, userID,
	).Error
}

func (r *Repository) ConsumeVerifyToken(token string) (int64, time.Time, error) {
	var userID int64
	var expiresAt time.Time

	row := r.db.Raw(`SELECT id, verify_token_expires FROM users WHERE verify_token = ?`, token).Row()
	if err := row.Scan(&userID, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return 0, time.Time{}, fmt.Errorf("token not found")
		}
		return 0, time.Time{}, err
	}
	return userID, expiresAt, nil
}

func (r *Repository) ActivateUser(userID int64) error {
	return r.db.Exec(
		`UPDATE users SET status = 'active', verify_token = NULL, verify_token_expires = NULL, updated_at = now() WHERE id = ?`,
		userID,
	).Error
}
