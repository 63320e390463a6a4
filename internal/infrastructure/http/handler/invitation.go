package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/listor/internal/infrastructure/http/response"
)

type createInvitationRequest struct {
	Email      string `json:"email"`
	Permission string `json:"permission"`
}

// CreateInvitation handles POST /lists/{listID}/invitations.
func (h *Handler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	listID := chi.URLParam(r, "listID")
	inv, err := h.sharing.CreateInvitation(r.Context(), currentUser(r).ID, listID, req.Email, req.Permission)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "invitation created",
		"list_id", listID, "invitation_id", inv.ID)
	response.Created(w, mapInvitationToDTO(inv))
}

type listInvitationsResponse struct {
	Invitations []InvitationDTO `json:"invitations"`
}

// ListInvitations handles GET /lists/{listID}/invitations.
func (h *Handler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.sharing.ListInvitations(r.Context(), currentUser(r).ID, chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, listInvitationsResponse{Invitations: mapInvitationsToDTO(invitations)})
}

// GetInvitation handles GET /invitations/{token}. The route is public so an
// invitee can preview the invitation before signing in.
func (h *Handler) GetInvitation(w http.ResponseWriter, r *http.Request) {
	inv, err := h.sharing.GetInvitation(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapInvitationToDTO(inv))
}

// AcceptInvitation handles POST /invitations/{token}/accept. Responds with
// the list the caller just gained access to.
func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	list, err := h.sharing.Accept(r.Context(), currentUser(r).ID, chi.URLParam(r, "token"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapListToDTO(list))
}

// DeclineInvitation handles POST /invitations/{token}/decline.
func (h *Handler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	if err := h.sharing.Decline(r.Context(), currentUser(r).ID, chi.URLParam(r, "token")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

// ResendInvitation handles POST /invitations/{token}/resend.
func (h *Handler) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	inv, err := h.sharing.Resend(r.Context(), currentUser(r).ID, chi.URLParam(r, "token"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapInvitationToDTO(inv))
}

// DeleteInvitation handles DELETE /invitations/{token}.
func (h *Handler) DeleteInvitation(w http.ResponseWriter, r *http.Request) {
	if err := h.sharing.DeleteInvitation(r.Context(), currentUser(r).ID, chi.URLParam(r, "token")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

// RemoveAccess handles DELETE /lists/{listID}/shares/{userID}.
func (h *Handler) RemoveAccess(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	targetID := chi.URLParam(r, "userID")

	if err := h.sharing.RemoveAccess(r.Context(), currentUser(r).ID, listID, targetID); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "list access removed",
		"list_id", listID, "target_user_id", targetID)
	response.NoContent(w)
}
