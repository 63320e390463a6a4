package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/listor/internal/application/task"
	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/infrastructure/http/response"
)

type createTaskRequest struct {
	Title             string                `json:"title"`
	Description       *string               `json:"description,omitempty"`
	Priority          string                `json:"priority,omitempty"`
	DueDate           *time.Time            `json:"dueDate,omitempty"`
	AssignedTo        *string               `json:"assignedTo,omitempty"`
	IsRecurring       bool                  `json:"isRecurring,omitempty"`
	RecurrencePattern *RecurrencePatternDTO `json:"recurrencePattern,omitempty"`
}

func patternFromDTO(dto *RecurrencePatternDTO) *domain.RecurrencePattern {
	if dto == nil {
		return nil
	}
	return &domain.RecurrencePattern{
		Type:       domain.RecurrenceType(dto.Type),
		Interval:   dto.Interval,
		DaysOfWeek: dto.DaysOfWeek,
		EndDate:    dto.EndDate,
	}
}

// CreateTask handles POST /lists/{listID}/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	created, err := h.tasks.CreateTask(r.Context(), currentUser(r).ID, &domain.Task{
		ListID:            chi.URLParam(r, "listID"),
		Title:             req.Title,
		Description:       req.Description,
		Priority:          domain.TaskPriority(req.Priority),
		DueDate:           req.DueDate,
		AssignedTo:        req.AssignedTo,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: patternFromDTO(req.RecurrencePattern),
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, mapTaskToDTO(created))
}

// GetTask handles GET /lists/{listID}/tasks/{taskID}. The response embeds
// the task's subtasks and completion progress.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r).ID
	listID := chi.URLParam(r, "listID")
	taskID := chi.URLParam(r, "taskID")

	t, err := h.tasks.GetTask(r.Context(), userID, listID, taskID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	subtasks, err := h.tasks.ListSubtasks(r.Context(), userID, listID, taskID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapTaskDetailToDTO(t, subtasks))
}

type listTasksResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// ListTasks handles GET /lists/{listID}/tasks. Filters, sorting, and time
// buckets come from query parameters.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := task.ListTasksParams{
		ListID: chi.URLParam(r, "listID"),
		Filter: domain.TaskFilter{
			Status:     q.Get("status"),
			Priority:   q.Get("priority"),
			AssignedTo: q.Get("assignedTo"),
		},
		Sort: domain.TaskSort{
			Field:     q.Get("sortBy"),
			Direction: q.Get("sortDir"),
		},
		Bucket: q.Get("bucket"),
	}

	dueRange, err := dueRangeFromQuery(q.Get("dueStart"), q.Get("dueEnd"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	params.Filter.DueDate = dueRange

	tasks, err := h.tasks.ListTasks(r.Context(), currentUser(r).ID, params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, listTasksResponse{Tasks: mapTasksToDTO(tasks)})
}

type updateTaskRequest struct {
	UpdateMask        []string              `json:"updateMask"`
	Title             *string               `json:"title,omitempty"`
	Description       *string               `json:"description,omitempty"`
	Status            *string               `json:"status,omitempty"`
	Priority          *string               `json:"priority,omitempty"`
	DueDate           *time.Time            `json:"dueDate,omitempty"`
	AssignedTo        *string               `json:"assignedTo,omitempty"`
	RecurrencePattern *RecurrencePatternDTO `json:"recurrencePattern,omitempty"`
}

// UpdateTask handles PATCH /lists/{listID}/tasks/{taskID}.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := domain.UpdateTaskParams{
		TaskID:            chi.URLParam(r, "taskID"),
		ListID:            chi.URLParam(r, "listID"),
		Etag:              etagFromRequest(r),
		UpdateMask:        req.UpdateMask,
		Title:             req.Title,
		Description:       req.Description,
		DueDate:           req.DueDate,
		AssignedTo:        req.AssignedTo,
		RecurrencePattern: patternFromDTO(req.RecurrencePattern),
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		params.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		params.Priority = &priority
	}

	updated, err := h.tasks.UpdateTask(r.Context(), currentUser(r).ID, params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapTaskToDTO(updated))
}

// DeleteTask handles DELETE /lists/{listID}/tasks/{taskID}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	err := h.tasks.DeleteTask(r.Context(), currentUser(r).ID,
		chi.URLParam(r, "listID"), chi.URLParam(r, "taskID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

// dueRangeFromQuery parses the optional due date range bounds. Bounds use
// RFC 3339.
func dueRangeFromQuery(start, end string) (*domain.DueDateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}

	var dueRange domain.DueDateRange
	if start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, err
		}
		dueRange.Start = &t
	}
	if end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, err
		}
		dueRange.End = &t
	}
	return &dueRange, nil
}
