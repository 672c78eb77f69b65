package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/tenant-management/internal/core/events"
)

// Notifier bridges domain events to outbound mail. It subscribes to the
// event bus, so every send inherits the bus's fire-and-forget semantics:
// failures are logged by the bus and never reach the publishing service.
type Notifier struct {
	mailer *Mailer
	logger *slog.Logger
}

func NewNotifier(mailer *Mailer, logger *slog.Logger) *Notifier {
	return &Notifier{
		mailer: mailer,
		logger: logger,
	}
}

func (n *Notifier) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventUserInvited, n.handleInvited)
	bus.Subscribe(events.EventInvitationResent, n.handleInvited)
	bus.Subscribe(events.EventOrganizationApproved, n.handleOrganizationApproved)
	bus.Subscribe(events.EventOrganizationRejected, n.handleOrganizationRejected)
	bus.Subscribe(events.EventPasswordResetRequested, n.handlePasswordReset)
	bus.Subscribe(events.EventEmailVerification, n.handleEmailVerification)
}

func (n *Notifier) handleInvited(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	body, err := render(invitationTemplate, map[string]any{
		"InviterName": stringField(data, "inviter_name"),
		"Role":        stringField(data, "role"),
		"AcceptURL":   n.mailer.baseURL + "/invitations/accept?token=" + stringField(data, "token"),
		"ExpiresAt":   expiryField(data, "expires_at"),
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(stringField(data, "email"), "You have been invited", body)
}

func (n *Notifier) handleOrganizationApproved(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	body, err := render(organizationApprovedTemplate, map[string]any{
		"Organization": stringField(data, "organization"),
		"ResetURL":     n.mailer.baseURL + "/auth/reset-password?token=" + stringField(data, "reset_token"),
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(stringField(data, "email"), "Your organization has been approved", body)
}

func (n *Notifier) handleOrganizationRejected(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	body, err := render(organizationRejectedTemplate, map[string]any{
		"Organization": stringField(data, "organization"),
		"Reason":       stringField(data, "reason"),
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(stringField(data, "email"), "Organization application update", body)
}

func (n *Notifier) handlePasswordReset(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	body, err := render(passwordResetTemplate, map[string]any{
		"ResetURL":  n.mailer.baseURL + "/auth/reset-password?token=" + stringField(data, "token"),
		"ExpiresAt": expiryField(data, "expires_at"),
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(stringField(data, "email"), "Password reset", body)
}

func (n *Notifier) handleEmailVerification(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	body, err := render(verifyEmailTemplate, map[string]any{
		"VerifyURL": n.mailer.baseURL + "/auth/verify-email?token=" + stringField(data, "token"),
		"ExpiresAt": expiryField(data, "expires_at"),
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(stringField(data, "email"), "Verify your email", body)
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func expiryField(data map[string]interface{}, key string) string {
	if ts, ok := data[key].(time.Time); ok {
		return formatExpiry(ts)
	}
	return ""
}
