package platform

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

func (h *Handler) CreatePlatform(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreatePlatformDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreatePlatform: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreatePlatform: service error", "error", err, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.Logger.Info("CreatePlatform: platform created", "platform_id", p.ID, "actor_id", actor.UserID)
	h.WriteJSON(w, http.StatusCreated, ToPlatformResponse(p))
}

func (h *Handler) UpdatePlatform(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid platform ID")
		return
	}

	var dto UpdatePlatformDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdatePlatform: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.Logger.Error("UpdatePlatform: service error", "error", err, "platform_id", id, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToPlatformResponse(p))
}

func (h *Handler) GetPlatform(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid platform ID")
		return
	}

	p, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToPlatformResponse(p))
}

func (h *Handler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	platforms, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	out := make([]*PlatformResponse, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, ToPlatformResponse(p))
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"platforms": out})
}
