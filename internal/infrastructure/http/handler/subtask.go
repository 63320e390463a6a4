package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/infrastructure/http/response"
)

type createSubtaskRequest struct {
	Title string `json:"title"`
}

// CreateSubtask handles POST /lists/{listID}/tasks/{taskID}/subtasks.
func (h *Handler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	var req createSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	created, err := h.tasks.CreateSubtask(r.Context(), currentUser(r).ID,
		chi.URLParam(r, "listID"), &domain.Subtask{
			TaskID: chi.URLParam(r, "taskID"),
			Title:  req.Title,
		})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, mapSubtaskToDTO(created))
}

type listSubtasksResponse struct {
	Subtasks []SubtaskDTO `json:"subtasks"`
}

// ListSubtasks handles GET /lists/{listID}/tasks/{taskID}/subtasks.
func (h *Handler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	subtasks, err := h.tasks.ListSubtasks(r.Context(), currentUser(r).ID,
		chi.URLParam(r, "listID"), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, listSubtasksResponse{Subtasks: mapSubtasksToDTO(subtasks)})
}

type updateSubtaskRequest struct {
	UpdateMask []string `json:"updateMask"`
	Title      *string  `json:"title,omitempty"`
	Status     *string  `json:"status,omitempty"`
	Order      *int     `json:"order,omitempty"`
}

// UpdateSubtask handles PATCH /lists/{listID}/tasks/{taskID}/subtasks/{subtaskID}.
func (h *Handler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	var req updateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := domain.UpdateSubtaskParams{
		SubtaskID:  chi.URLParam(r, "subtaskID"),
		TaskID:     chi.URLParam(r, "taskID"),
		ListID:     chi.URLParam(r, "listID"),
		UpdateMask: req.UpdateMask,
		Title:      req.Title,
		Order:      req.Order,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		params.Status = &status
	}

	updated, err := h.tasks.UpdateSubtask(r.Context(), currentUser(r).ID,
		chi.URLParam(r, "listID"), params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapSubtaskToDTO(updated))
}

// DeleteSubtask handles DELETE /lists/{listID}/tasks/{taskID}/subtasks/{subtaskID}.
func (h *Handler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	err := h.tasks.DeleteSubtask(r.Context(), currentUser(r).ID,
		chi.URLParam(r, "listID"), chi.URLParam(r, "taskID"),
		chi.URLParam(r, "subtaskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}
