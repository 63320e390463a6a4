// Package handler implements the HTTP API surface: JSON request decoding,
// domain service calls, and DTO mapping.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/listor/internal/application/auth"
	"github.com/rezkam/listor/internal/application/sharing"
	"github.com/rezkam/listor/internal/application/task"
	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/infrastructure/http/middleware"
	"github.com/rezkam/listor/internal/storage"
)

// Handler bundles the application services behind the HTTP API.
type Handler struct {
	tasks         *task.Service
	sharing       *sharing.Service
	authenticator *auth.Authenticator
	avatars       storage.BlobStore
}

// New creates a handler over the given services. The avatar store may be
// nil, which disables avatar uploads.
func New(tasks *task.Service, sharingSvc *sharing.Service, authenticator *auth.Authenticator, avatars storage.BlobStore) *Handler {
	return &Handler{
		tasks:         tasks,
		sharing:       sharingSvc,
		authenticator: authenticator,
		avatars:       avatars,
	}
}

// Routes returns the full API route tree. Registration, login, and
// invitation preview are reachable without a token; every other route is
// wrapped with the given authentication middleware.
func (h *Handler) Routes(authenticate func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Get("/invitations/{token}", h.GetInvitation)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		h.protectedRoutes(r)
	})

	return r
}

func (h *Handler) protectedRoutes(r chi.Router) {
	r.Get("/me", h.GetMe)
	r.Put("/me/avatar", h.UploadAvatar)
	r.Delete("/me/avatar", h.DeleteAvatar)

	r.Route("/lists", func(r chi.Router) {
		r.Post("/", h.CreateList)
		r.Get("/", h.ListLists)

		r.Route("/{listID}", func(r chi.Router) {
			r.Get("/", h.GetList)
			r.Patch("/", h.UpdateList)
			r.Delete("/", h.DeleteList)
			r.Get("/stats", h.GetListStats)

			r.Post("/invitations", h.CreateInvitation)
			r.Get("/invitations", h.ListInvitations)
			r.Delete("/shares/{userID}", h.RemoveAccess)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", h.CreateTask)
				r.Get("/", h.ListTasks)

				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", h.GetTask)
					r.Patch("/", h.UpdateTask)
					r.Delete("/", h.DeleteTask)

					r.Post("/subtasks", h.CreateSubtask)
					r.Get("/subtasks", h.ListSubtasks)
					r.Patch("/subtasks/{subtaskID}", h.UpdateSubtask)
					r.Delete("/subtasks/{subtaskID}", h.DeleteSubtask)
				})
			})
		})
	})

	// Legacy flat surface kept for pre-lists clients.
	r.Route("/todos", func(r chi.Router) {
		r.Get("/", h.ListTodos)
		r.Post("/", h.CreateTodo)
		r.Patch("/{todoID}", h.UpdateTodo)
		r.Delete("/{todoID}", h.DeleteTodo)
	})

	r.Post("/invitations/{token}/accept", h.AcceptInvitation)
	r.Post("/invitations/{token}/decline", h.DeclineInvitation)
	r.Post("/invitations/{token}/resend", h.ResendInvitation)
	r.Delete("/invitations/{token}", h.DeleteInvitation)

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Post("/{notificationID}/read", h.MarkNotificationRead)
	})
}

// currentUser returns the authenticated user placed on the context by the
// auth middleware.
func currentUser(r *http.Request) *domain.User {
	return middleware.UserFromContext(r.Context())
}
