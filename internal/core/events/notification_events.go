package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventUserInvited            = "user.invited"
	EventInvitationResent       = "invitation.resent"
	EventOrganizationApproved   = "organization.approved"
	EventOrganizationRejected   = "organization.rejected"
	EventPasswordResetRequested = "password.reset_requested"
	EventEmailVerification      = "email.verification_requested"
)

func NewUserInvitedEvent(email, role, inviterName, token string, expiresAt time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventUserInvited,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"email":        email,
			"role":         role,
			"inviter_name": inviterName,
			"token":        token,
			"expires_at":   expiresAt,
		},
	}
}

func NewInvitationResentEvent(email, role, inviterName, token string, expiresAt time.Time) BaseEvent {
	e := NewUserInvitedEvent(email, role, inviterName, token, expiresAt)
	e.Type = EventInvitationResent
	return e
}

func NewOrganizationApprovedEvent(orgName, creatorEmail, resetToken string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventOrganizationApproved,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"organization": orgName,
			"email":        creatorEmail,
			"reset_token":  resetToken,
		},
	}
}

func NewOrganizationRejectedEvent(orgName, creatorEmail, reason string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventOrganizationRejected,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"organization": orgName,
			"email":        creatorEmail,
			"reason":       reason,
		},
	}
}

func NewPasswordResetRequestedEvent(email, token string, expiresAt time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventPasswordResetRequested,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"email":      email,
			"token":      token,
			"expires_at": expiresAt,
		},
	}
}

func NewEmailVerificationEvent(email, token string, expiresAt time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventEmailVerification,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"email":      email,
			"token":      token,
			"expires_at": expiresAt,
		},
	}
}
