package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/models"
	"github.com/Shivam1272/backend-revision/internal/videos"
)

// VideoHandler implements the video endpoints.
type VideoHandler struct {
	Videos         VideoService
	MaxUploadBytes int64
}

// List handles GET /api/v1/videos?query=&sortBy=&sortType=&page=&limit=&userId=.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, err := listInput(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	in.Viewer = caller(r)

	page, err := h.Videos.List(ctx, in)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, page)
}

// Publish handles POST /api/v1/videos (multipart: title, description, videoFile, thumbnail).
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, err := parseMultipart(w, r, h.MaxUploadBytes)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	defer form.Close()

	in := videos.PublishInput{}
	in.Title, _ = form.Value("title")
	in.Description, _ = form.Value("description")
	if in.Video, err = form.File("videoFile"); err != nil {
		respondError(ctx, w, err)
		return
	}
	if in.Thumbnail, err = form.File("thumbnail"); err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.Publish(ctx, caller(r), in)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusCreated, videoResponse{Video: video})
}

// Get handles GET /api/v1/videos/{videoId}.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.Get(ctx, id, caller(r))
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, videoResponse{Video: video})
}

// Update handles PATCH /api/v1/videos/{videoId}. Multipart requests may carry a new
// thumbnail; JSON requests change the title and description only.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var in videos.UpdateInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		form, err := parseMultipart(w, r, h.MaxUploadBytes)
		if err != nil {
			respondError(ctx, w, err)
			return
		}
		defer form.Close()

		if title, ok := form.Value("title"); ok {
			in.Title = &title
		}
		if description, ok := form.Value("description"); ok {
			in.Description = &description
		}
		if in.Thumbnail, err = form.File("thumbnail"); err != nil {
			respondError(ctx, w, err)
			return
		}
	} else {
		var req updateVideoRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(ctx, w, err)
			return
		}
		in.Title, in.Description = req.Title, req.Description
	}

	video, err := h.Videos.Update(ctx, caller(r), id, in)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, videoResponse{Video: video})
}

// Delete handles DELETE /api/v1/videos/{videoId}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Videos.Delete(ctx, caller(r), id); err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, statusResponse{Status: "deleted"})
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r, "videoId")
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	video, err := h.Videos.TogglePublish(ctx, caller(r), id)
	if err != nil {
		respondError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, videoResponse{Video: video})
}

func listInput(r *http.Request) (videos.ListInput, error) {
	q := r.URL.Query()
	in := videos.ListInput{
		Query:    q.Get("query"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
	}

	var err error
	if in.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return videos.ListInput{}, err
	}
	if in.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return videos.ListInput{}, err
	}
	if raw := strings.TrimSpace(q.Get("userId")); raw != "" {
		if in.UserID, err = uuid.Parse(raw); err != nil {
			return videos.ListInput{}, fmt.Errorf("%w: userId must be a valid id", apperr.ErrInvalidInput)
		}
	}
	return in, nil
}

func intParam(raw, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", apperr.ErrInvalidInput, name)
	}
	return n, nil
}

type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type videoResponse struct {
	Video models.Video `json:"video"`
}
