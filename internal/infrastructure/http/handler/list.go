package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/infrastructure/http/response"
)

type createListRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// CreateList handles POST /lists.
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	list, err := h.tasks.CreateList(r.Context(), currentUser(r).ID, req.Title, req.Description)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "list created", "list_id", list.ID)

	response.Created(w, mapListToDTO(list))
}

// GetList handles GET /lists/{listID}.
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	list, err := h.tasks.GetList(r.Context(), currentUser(r).ID, chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapListToDTO(list))
}

type listListsResponse struct {
	Lists []ListDTO `json:"lists"`
}

// ListLists handles GET /lists.
func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.tasks.ListLists(r.Context(), currentUser(r).ID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]ListDTO, 0, len(lists))
	for _, list := range lists {
		dtos = append(dtos, mapListToDTO(list))
	}
	response.OK(w, listListsResponse{Lists: dtos})
}

type updateListRequest struct {
	UpdateMask  []string `json:"updateMask"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// UpdateList handles PATCH /lists/{listID}. The If-Match header carries the
// etag for optimistic concurrency.
func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := domain.UpdateListParams{
		ListID:      chi.URLParam(r, "listID"),
		Etag:        etagFromRequest(r),
		UpdateMask:  req.UpdateMask,
		Title:       req.Title,
		Description: req.Description,
	}

	list, err := h.tasks.UpdateList(r.Context(), currentUser(r).ID, params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapListToDTO(list))
}

// DeleteList handles DELETE /lists/{listID}.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")
	if err := h.tasks.DeleteList(r.Context(), currentUser(r).ID, listID); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "list deleted", "list_id", listID)

	response.NoContent(w)
}

// GetListStats handles GET /lists/{listID}/stats.
func (h *Handler) GetListStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.GetListStats(r.Context(), currentUser(r).ID, chi.URLParam(r, "listID"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapListStatsToDTO(stats))
}

// etagFromRequest extracts the optional If-Match header.
func etagFromRequest(r *http.Request) *string {
	etag := r.Header.Get("If-Match")
	if etag == "" {
		return nil
	}
	return &etag
}
