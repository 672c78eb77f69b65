package invitation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/tenant-management/internal/auth"
	"github.com/frahmantamala/tenant-management/internal/transport"
	"github.com/frahmantamala/tenant-management/internal/user"
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

func (h *Handler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateInvitation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreateInvitation: service error", "error", err, "actor_id", actor.UserID)
		h.WriteServiceError(w, err)
		return
	}

	h.Logger.Info("CreateInvitation: invitation sent", "invitation_id", inv.ID, "role", inv.Role, "actor_id", actor.UserID)
	h.WriteJSON(w, http.StatusCreated, ToInvitationResponse(inv))
}

// AcceptInvitation is unauthenticated: the token is the credential.
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var dto AcceptInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AcceptInvitation: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Accept(r.Context(), dto)
	if err != nil {
		h.Logger.Error("AcceptInvitation: service error", "error", err)
		h.WriteServiceError(w, err)
		return
	}

	h.Logger.Info("AcceptInvitation: user registered", "user_id", u.ID, "role", u.Role)
	h.WriteJSON(w, http.StatusCreated, user.ToUserResponse(u))
}

func (h *Handler) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid invitation ID")
		return
	}

	inv, err := h.Service.Resend(r.Context(), actor, id)
	if err != nil {
		h.Logger.Error("ResendInvitation: service error", "error", err, "invitation_id", id)
		h.WriteServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToInvitationResponse(inv))
}

func (h *Handler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid invitation ID")
		return
	}

	if err := h.Service.Revoke(r.Context(), actor, id); err != nil {
		h.Logger.Error("RevokeInvitation: service error", "error", err, "invitation_id", id)
		h.WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	invitations, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.WriteServiceError(w, err)
		return
	}

	out := make([]*InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		out = append(out, ToInvitationResponse(inv))
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"invitations": out})
}
