package orgtype

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

func (h *Handler) CreateOrgType(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateOrgTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateOrgType: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreateOrgType: service error", "error", err, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ToOrgTypeResponse(t))
}

func (h *Handler) ArchiveOrgType(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization type ID")
		return
	}

	t, err := h.Service.Archive(r.Context(), actor, id)
	if err != nil {
		h.Logger.Error("ArchiveOrgType: service error", "error", err, "org_type_id", id)
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToOrgTypeResponse(t))
}

func (h *Handler) DeleteOrgType(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization type ID")
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.Logger.Error("DeleteOrgType: service error", "error", err, "org_type_id", id)
		h.WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListOrgTypes(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	types, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	out := make([]*OrgTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, ToOrgTypeResponse(t))
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"organization_types": out})
}
