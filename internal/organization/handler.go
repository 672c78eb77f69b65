package organization

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/tenant-management/internal/auth"
	"github.com/frahmantamala/tenant-management/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateOrganization: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreateOrganization: service error", "error", err, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.Logger.Info("CreateOrganization: organization created",
		"organization_id", org.ID,
		"platform_id", org.PlatformID,
		"status", org.Status,
		"actor_id", actor.UserID)

	h.WriteJSON(w, http.StatusCreated, ToOrganizationResponse(org))
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	org, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToOrganizationResponse(org))
}

func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var platformID *int64
	if raw := r.URL.Query().Get("platform_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid platform_id")
			return
		}
		platformID = &id
	}

	orgs, err := h.Service.List(r.Context(), actor, platformID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	out := make([]*OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, ToOrganizationResponse(org))
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"organizations": out})
}

func (h *Handler) ApproveOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	org, err := h.Service.Approve(r.Context(), actor, id)
	if err != nil {
		h.Logger.Error("ApproveOrganization: service error", "error", err, "organization_id", id, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.Logger.Info("ApproveOrganization: organization approved", "organization_id", id, "actor_id", actor.UserID)
	h.WriteJSON(w, http.StatusOK, ToOrganizationResponse(org))
}

func (h *Handler) RejectOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto RejectOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RejectOrganization: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.Service.Reject(r.Context(), actor, id, dto)
	if err != nil {
		h.Logger.Error("RejectOrganization: service error", "error", err, "organization_id", id, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToOrganizationResponse(org))
}

func (h *Handler) SubmitDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto SubmitDocumentsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitDocuments: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.Service.SubmitDocuments(r.Context(), actor, id, dto)
	if err != nil {
		h.Logger.Error("SubmitDocuments: service error", "error", err, "organization_id", id)
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToOrganizationResponse(org))
}
