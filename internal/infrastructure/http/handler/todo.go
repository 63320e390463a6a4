package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/listor/internal/application/task"
	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/infrastructure/http/response"
)

// Legacy flat task surface, kept for clients that predate lists. Todos map
// onto tasks: reads span every list the caller can see, writes without an
// explicit list land in an auto-created personal list.

const defaultListTitle = "My Tasks"

type todoRequest struct {
	ListID      string     `json:"listId,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type listTodosResponse struct {
	Todos []TaskDTO `json:"todos"`
}

// ListTodos handles GET /todos: all tasks across the caller's lists.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r).ID

	lists, err := h.tasks.ListLists(r.Context(), userID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	todos := make([]TaskDTO, 0)
	for _, list := range lists {
		tasks, err := h.tasks.ListTasks(r.Context(), userID, task.ListTasksParams{ListID: list.ID})
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		todos = append(todos, mapTasksToDTO(tasks)...)
	}

	response.OK(w, listTodosResponse{Todos: todos})
}

// CreateTodo handles POST /todos.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	userID := currentUser(r).ID

	listID := req.ListID
	if listID == "" {
		id, err := h.defaultListID(r, userID)
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		listID = id
	}

	created, err := h.tasks.CreateTask(r.Context(), userID, &domain.Task{
		ListID:      listID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, mapTaskToDTO(created))
}

type updateTodoRequest struct {
	UpdateMask  []string   `json:"updateMask"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// UpdateTodo handles PATCH /todos/{todoID}. The owning list is resolved
// from the task itself.
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	userID := currentUser(r).ID
	todoID := chi.URLParam(r, "todoID")

	listID, err := h.findTodoList(r, userID, todoID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	params := domain.UpdateTaskParams{
		TaskID:      todoID,
		ListID:      listID,
		Etag:        etagFromRequest(r),
		UpdateMask:  req.UpdateMask,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		params.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		params.Priority = &priority
	}

	updated, err := h.tasks.UpdateTask(r.Context(), userID, params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapTaskToDTO(updated))
}

// DeleteTodo handles DELETE /todos/{todoID}.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r).ID
	todoID := chi.URLParam(r, "todoID")

	listID, err := h.findTodoList(r, userID, todoID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, listID, todoID); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

// defaultListID finds or creates the caller's personal list.
func (h *Handler) defaultListID(r *http.Request, userID string) (string, error) {
	lists, err := h.tasks.ListLists(r.Context(), userID)
	if err != nil {
		return "", err
	}
	for _, list := range lists {
		if list.OwnerID == userID && list.Title == defaultListTitle {
			return list.ID, nil
		}
	}

	created, err := h.tasks.CreateList(r.Context(), userID, defaultListTitle, nil)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// findTodoList locates the list a task belongs to among the caller's
// visible lists.
func (h *Handler) findTodoList(r *http.Request, userID, todoID string) (string, error) {
	lists, err := h.tasks.ListLists(r.Context(), userID)
	if err != nil {
		return "", err
	}
	for _, list := range lists {
		_, err := h.tasks.GetTask(r.Context(), userID, list.ID, todoID)
		if err == nil {
			return list.ID, nil
		}
		if !errors.Is(err, domain.ErrTaskNotFound) {
			return "", err
		}
	}
	return "", domain.ErrTaskNotFound
}
