package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/tenant-management/internal/auth"
	"github.com/frahmantamala/tenant-management/internal/rbac"
	"github.com/frahmantamala/tenant-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Recorder *Recorder
}

func NewHandler(baseHandler *transport.BaseHandler, recorder *Recorder) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Recorder:    recorder,
	}
}

type EntryResponse struct {
	ID             string          `json:"id"`
	Action         string          `json:"action"`
	TargetType     string          `json:"target_type"`
	TargetID       string          `json:"target_id"`
	ActorID        int64           `json:"actor_id"`
	PlatformID     *int64          `json:"platform_id,omitempty"`
	OrganizationID *int64          `json:"organization_id,omitempty"`
	Details        json.RawMessage `json:"details,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ListAuditLog returns the audit trail visible to the actor. super_admin
// reads everything, platform and organization admins read their own scope.
func (h *Handler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := rbac.Authorize(actor, []rbac.Role{rbac.RoleSuperAdmin, rbac.RolePlatformAdmin, rbac.RoleOrganizationAdmin}, rbac.Scope{}); err != nil {
		h.WriteServiceError(w, err)
		return
	}

	scope := rbac.Scope{}
	switch actor.Role {
	case rbac.RolePlatformAdmin:
		scope.PlatformID = actor.PlatformID
	case rbac.RoleOrganizationAdmin:
		scope.OrganizationID = actor.OrganizationID
	}

	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}

	entries, err := h.Recorder.List(scope, limit, offset)
	if err != nil {
		h.Logger.Error("ListAuditLog: query failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to read audit log")
		return
	}

	out := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := &EntryResponse{
			ID:             e.ID,
			Action:         e.Action,
			TargetType:     e.TargetType,
			TargetID:       e.TargetID,
			ActorID:        e.ActorID,
			PlatformID:     e.PlatformID,
			OrganizationID: e.OrganizationID,
			CreatedAt:      e.CreatedAt,
		}
		if e.Details != "" {
			resp.Details = json.RawMessage(e.Details)
		}
		out = append(out, resp)
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"entries": out})
}
