package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/accounts"
	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/media"
	"github.com/Shivam1272/backend-revision/internal/models"
)

// UserHandler implements registration and the profile endpoints.
type UserHandler struct {
	Accounts       AccountService
	MaxUploadBytes int64
}

// Register handles POST /api/v1/users/register (multipart: username, email, password,
// fullName, avatar and an optional coverImage).
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := parseMultipart(w, r, h.MaxUploadBytes)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	defer form.Close()

	in := accounts.RegisterInput{}
	in.Username, _ = form.Value("username")
	in.Email, _ = form.Value("email")
	in.Password, _ = form.Value("password")
	in.FullName, _ = form.Value("fullName")

	if in.Avatar, err = form.File("avatar"); err != nil {
		respondError(ctx, w, err)
		return
	}
	if in.CoverImage, err = form.File("coverImage"); err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Accounts.Register(ctx, in)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, userResponse{User: user})
}

// CurrentUser handles GET /api/v1/users/current-user.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Accounts.CurrentUser(ctx, caller(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, userResponse{User: user})
}

// UpdateAccount handles PATCH /api/v1/users/update-account.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accounts.UpdateAccountInput
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Accounts.UpdateAccount(ctx, caller(r), req)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, userResponse{User: user})
}

// UpdateAvatar handles PATCH /api/v1/users/avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.swapImage(w, r, "avatar", h.Accounts.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.swapImage(w, r, "coverImage", h.Accounts.UpdateCoverImage)
}

type imageUpdater func(ctx context.Context, id uuid.UUID, file *media.File) (models.PublicUser, error)

func (h UserHandler) swapImage(w http.ResponseWriter, r *http.Request, field string, update imageUpdater) {
	ctx := r.Context()

	form, err := parseMultipart(w, r, h.MaxUploadBytes)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	defer form.Close()

	file, err := form.File(field)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	if file == nil {
		respondError(ctx, w, fmt.Errorf("%w: %s file is required", apperr.ErrInvalidInput, field))
		return
	}

	user, err := update(ctx, caller(r), file)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, userResponse{User: user})
}

// ChannelProfile handles GET /api/v1/users/c/{username}.
func (h UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		respondError(ctx, w, fmt.Errorf("%w: username is required", apperr.ErrInvalidInput))
		return
	}

	profile, err := h.Accounts.ChannelProfile(ctx, username, caller(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, channelResponse{Channel: profile})
}

// WatchHistory handles GET /api/v1/users/history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := h.Accounts.WatchHistory(ctx, caller(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, historyResponse{History: history})
}

type userResponse struct {
	User models.PublicUser `json:"user"`
}

type channelResponse struct {
	Channel models.ChannelProfile `json:"channel"`
}

type historyResponse struct {
	History []models.WatchedVideo `json:"history"`
}
