package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/rezkam/listor/internal/infrastructure/http/response"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type sessionResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	user, token, err := h.authenticator.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "user registered", "user_id", user.ID)

	response.Created(w, sessionResponse{
		User:  mapUserToDTO(user),
		Token: token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	user, token, err := h.authenticator.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, sessionResponse{
		User:  mapUserToDTO(user),
		Token: token,
	})
}

// GetMe handles GET /me.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	response.OK(w, mapUserToDTO(currentUser(r)))
}

// avatarExtensions maps accepted upload content types to stored file
// extensions.
var avatarExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// UploadAvatar handles PUT /me/avatar. The raw image bytes are the request
// body; the Content-Type header selects the format.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		response.Error(w, http.StatusNotImplemented, "UNIMPLEMENTED", "avatar storage is not configured")
		return
	}
	user := currentUser(r)

	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		response.BadRequest(w, "missing or invalid Content-Type header")
		return
	}
	ext, ok := avatarExtensions[contentType]
	if !ok {
		response.BadRequest(w, fmt.Sprintf("unsupported avatar content type %q", contentType))
		return
	}

	// Replace any previous avatar, whatever its extension was.
	if err := h.avatars.DeletePrefix(r.Context(), user.ID); err != nil {
		slog.WarnContext(r.Context(), "failed to clear previous avatar",
			"user_id", user.ID, "error", err)
	}

	url, err := h.avatars.Put(r.Context(), fmt.Sprintf("%s.%s", user.ID, ext), contentType, r.Body)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to store avatar",
			"user_id", user.ID, "error", err)
		response.InternalError(w)
		return
	}

	if err := h.authenticator.SetAvatarURL(r.Context(), user.ID, &url); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	user.AvatarURL = &url
	response.OK(w, mapUserToDTO(user))
}

// DeleteAvatar handles DELETE /me/avatar.
func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		response.Error(w, http.StatusNotImplemented, "UNIMPLEMENTED", "avatar storage is not configured")
		return
	}
	user := currentUser(r)

	if err := h.avatars.DeletePrefix(r.Context(), user.ID); err != nil {
		slog.ErrorContext(r.Context(), "failed to delete avatar",
			"user_id", user.ID, "error", err)
		response.InternalError(w)
		return
	}

	if err := h.authenticator.SetAvatarURL(r.Context(), user.ID, nil); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}
