package audit

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"time"

	auditDatamodel "github.com/frahmantamala/tenant-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	"github.com/oklog/ulid/v2"
)

// Action names every auditable admin mutation.
type Action string

const (
	ActionUserCreate  Action = "user.create"
	ActionUserRole    Action = "user.role_change"
	ActionUserDisable Action = "user.disable"
	ActionUserEnable  Action = "user.enable"

	ActionPlatformCreate Action = "platform.create"
	ActionPlatformUpdate Action = "platform.update"

	ActionOrgCreate    Action = "organization.create"
	ActionOrgApprove   Action = "organization.approve"
	ActionOrgReject    Action = "organization.reject"
	ActionOrgDocuments Action = "organization.documents_submitted"

	ActionOrgTypeCreate  Action = "org_type.create"
	ActionOrgTypeArchive Action = "org_type.archive"
	ActionOrgTypeDelete  Action = "org_type.delete"

	ActionInviteCreate Action = "invitation.create"
	ActionInviteAccept Action = "invitation.accept"
	ActionInviteResend Action = "invitation.resend"
	ActionInviteRevoke Action = "invitation.revoke"
)

type RepositoryAPI interface {
	Insert(entry *auditDatamodel.AuditEntry) error
	ListBetween(from, to time.Time) ([]*auditDatamodel.AuditEntry, error)
	ListByScope(scope rbac.Scope, limit, offset int) ([]*auditDatamodel.AuditEntry, error)
	DeleteByIDs(ids []string) (int64, error)
}

// RecorderAPI is what mutating services depend on.
type RecorderAPI interface {
	Record(ctx context.Context, action Action, targetType, targetID string, actorID int64, scope rbac.Scope, details map[string]any)
}

// Recorder appends audit entries. Failures are logged and swallowed: an
// audit write must never block the admin action it describes.
type Recorder struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewRecorder(repo RepositoryAPI, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

func (r *Recorder) Record(ctx context.Context, action Action, targetType, targetID string, actorID int64, scope rbac.Scope, details map[string]any) {
	entry := &auditDatamodel.AuditEntry{
		ID:             ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		Action:         string(action),
		TargetType:     targetType,
		TargetID:       targetID,
		ActorID:        actorID,
		PlatformID:     scope.PlatformID,
		OrganizationID: scope.OrganizationID,
		CreatedAt:      time.Now(),
	}

	if len(details) > 0 {
		blob, err := json.Marshal(details)
		if err != nil {
			r.logger.Warn("audit details not serializable", "action", action, "error", err)
		} else {
			entry.Details = string(blob)
		}
	}

	if err := r.repo.Insert(entry); err != nil {
		r.logger.Error("audit write failed",
			"action", action,
			"target_type", targetType,
			"target_id", targetID,
			"actor_id", actorID,
			"error", err)
	}
}

// List returns audit entries visible within the given scope.
func (r *Recorder) List(scope rbac.Scope, limit, offset int) ([]*auditDatamodel.AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return r.repo.ListByScope(scope, limit, offset)
}
