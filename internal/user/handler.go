package user

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

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.Get(r.Context(), actor, actor.UserID)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToUserResponse(u))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.Logger.Info("CreateUser: user created", "user_id", u.ID, "role", u.Role, "actor_id", actor.UserID)
	h.WriteJSON(w, http.StatusCreated, ToUserResponse(u))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}

	users, err := h.Service.List(r.Context(), actor, limit, offset)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"users": out})
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto ChangeRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ChangeRole: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.ChangeRole(r.Context(), actor, targetID, dto)
	if err != nil {
		h.Logger.Error("ChangeRole: service error", "error", err, "user_id", targetID, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToUserResponse(u))
}

func (h *Handler) DisableUser(w http.ResponseWriter, r *http.Request) {
	h.toggleDisabled(w, r, true)
}

func (h *Handler) EnableUser(w http.ResponseWriter, r *http.Request) {
	h.toggleDisabled(w, r, false)
}

func (h *Handler) toggleDisabled(w http.ResponseWriter, r *http.Request, disabled bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var u *UserResponse
	if disabled {
		target, err := h.Service.Disable(r.Context(), actor, targetID)
		if err != nil {
			h.Logger.Error("DisableUser: service error", "error", err, "user_id", targetID, "actor_id", actor.UserID)
			h.WriteServiceError(w, err)
			return
		}
		u = ToUserResponse(target)
	} else {
		target, err := h.Service.Enable(r.Context(), actor, targetID)
		if err != nil {
			h.Logger.Error("EnableUser: service error", "error", err, "user_id", targetID, "actor_id", actor.UserID)
			h.WriteServiceError(w, err)
			return
		}
		u = ToUserResponse(target)
	}

	h.WriteJSON(w, http.StatusOK, u)
}
