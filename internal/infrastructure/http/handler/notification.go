package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/listor/internal/infrastructure/http/response"
)

type listNotificationsResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
}

// ListNotifications handles GET /notifications. Pass ?unread=true to
// restrict the result to unread entries.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.sharing.ListNotifications(r.Context(), currentUser(r).ID, unreadOnly)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, listNotificationsResponse{Notifications: mapNotificationsToDTO(notifications)})
}

// MarkNotificationRead handles POST /notifications/{notificationID}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	err := h.sharing.MarkNotificationRead(r.Context(), currentUser(r).ID,
		chi.URLParam(r, "notificationID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}
