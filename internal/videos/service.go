// Package videos implements publishing, browsing and managing hosted videos.
package videos

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/auth"
	"github.com/Shivam1272/backend-revision/internal/logging"
	"github.com/Shivam1272/backend-revision/internal/media"
	"github.com/Shivam1272/backend-revision/internal/models"
	"github.com/Shivam1272/backend-revision/internal/validation"
)

const (
	videoFolder     = "videos"
	thumbnailFolder = "thumbnails"

	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

// Store persists videos. Missing videos and unknown owners are apperr.ErrNotFound.
type Store interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.Video, error)
	List(ctx context.Context, q models.VideoQuery) ([]models.Video, int64, error)
	Update(ctx context.Context, video models.Video) (models.Video, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (models.Video, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecordView(ctx context.Context, videoID, viewer uuid.UUID) error
}

// MediaLibrary hosts uploaded files.
type MediaLibrary interface {
	Upload(ctx context.Context, folder string, want models.MediaKind, file media.File) (models.MediaAsset, error)
	Release(ctx context.Context, asset models.MediaAsset)
}

// PublishInput carries a new video and its thumbnail.
type PublishInput struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=5000"`
	Video       *media.File `json:"-"`
	Thumbnail   *media.File `json:"-"`
}

// videoDetails holds the editable text of a video after an update is applied.
type videoDetails struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

// UpdateInput carries the fields to change. Nil fields are left as they are.
type UpdateInput struct {
	Title       *string
	Description *string
	Thumbnail   *media.File
}

// ListInput carries the raw listing parameters of a request.
type ListInput struct {
	Query    string    `form:"query"`
	SortBy   string    `form:"sortBy" validate:"omitempty,oneof=createdAt title duration views"`
	SortType string    `form:"sortType" validate:"omitempty,oneof=asc desc"`
	Page     int       `form:"page" validate:"gte=0,lte=1000000"`
	Limit    int       `form:"limit" validate:"gte=0,lte=100"`
	UserID   uuid.UUID `form:"userId"`
	Viewer   uuid.UUID `form:"-"`
}

// Service implements the video workflows.
type Service struct {
	store Store
	media MediaLibrary
}

// NewService constructs a Service.
func NewService(store Store, library MediaLibrary) *Service {
	return &Service{store: store, media: library}
}

// Publish uploads the video and thumbnail and records the video as published.
// Nothing is persisted unless both uploads succeed.
func (s *Service) Publish(ctx context.Context, actor uuid.UUID, in PublishInput) (video models.Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.Publish")
	defer func() { span.End(err) }()

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(in); err != nil {
		return models.Video{}, err
	}
	if in.Video == nil || in.Video.Reader == nil {
		return models.Video{}, fmt.Errorf("%w: video file is required", apperr.ErrInvalidInput)
	}
	if in.Thumbnail == nil || in.Thumbnail.Reader == nil {
		return models.Video{}, fmt.Errorf("%w: thumbnail is required", apperr.ErrInvalidInput)
	}

	file, err := s.media.Upload(ctx, videoFolder, models.MediaKindVideo, *in.Video)
	if err != nil {
		return models.Video{}, apperr.Upstream("upload video", err)
	}

	thumbnail, err := s.media.Upload(ctx, thumbnailFolder, models.MediaKindImage, *in.Thumbnail)
	if err != nil {
		s.media.Release(ctx, file)
		return models.Video{}, apperr.Upstream("upload thumbnail", err)
	}

	video, err = s.store.Create(ctx, models.Video{
		Owner:       actor,
		Title:       in.Title,
		Description: in.Description,
		VideoFile:   file,
		Thumbnail:   thumbnail,
		Duration:    file.Duration,
		IsPublished: true,
	})
	if err != nil {
		s.media.Release(ctx, file)
		s.media.Release(ctx, thumbnail)
		return models.Video{}, fmt.Errorf("create video: %w", err)
	}

	logging.FromContext(ctx).Info("video published", "videoId", video.ID, "userId", actor, "duration", video.Duration)
	return video, nil
}

// Get returns a video. Unpublished videos are visible to their owner only. Each view is
// counted, and a signed-in viewer gets the video moved to the front of their watch history.
func (s *Service) Get(ctx context.Context, id, viewer uuid.UUID) (models.Video, error) {
	video, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, fmt.Errorf("load video: %w", err)
	}
	if !video.IsPublished && video.Owner != viewer {
		return models.Video{}, fmt.Errorf("video %w", apperr.ErrNotFound)
	}

	if err := s.store.RecordView(ctx, id, viewer); err != nil {
		logging.FromContext(ctx).Warn("record video view", "videoId", id, "error", err)
		return video, nil
	}
	video.Views++
	return video, nil
}

// List returns one page of videos visible to in.Viewer.
func (s *Service) List(ctx context.Context, in ListInput) (models.VideoPage, error) {
	if err := validation.Struct(in); err != nil {
		return models.VideoPage{}, err
	}

	q := models.VideoQuery{
		Search:     strings.TrimSpace(in.Query),
		SortBy:     models.VideoSort(in.SortBy),
		Descending: in.SortType != "asc",
		Page:       in.Page,
		Limit:      in.Limit,
		OwnerID:    in.UserID,
		ViewerID:   in.Viewer,
	}
	if q.SortBy == "" {
		q.SortBy = models.SortByCreatedAt
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}

	videos, total, err := s.store.List(ctx, q)
	if err != nil {
		return models.VideoPage{}, fmt.Errorf("list videos: %w", err)
	}

	return models.VideoPage{
		Meta: models.PageMeta{
			TotalDocuments: total,
			Page:           q.Page,
			Limit:          q.Limit,
			TotalPages:     int(math.Ceil(float64(total) / float64(q.Limit))),
		},
		Videos: videos,
	}, nil
}

// Update changes the title, description or thumbnail of a video owned by actor.
// A replaced thumbnail is released once the record points at the new one.
func (s *Service) Update(ctx context.Context, actor, id uuid.UUID, in UpdateInput) (video models.Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.Update")
	defer func() { span.End(err) }()

	hasThumbnail := in.Thumbnail != nil && in.Thumbnail.Reader != nil
	if in.Title == nil && in.Description == nil && !hasThumbnail {
		return models.Video{}, fmt.Errorf("%w: nothing to update", apperr.ErrInvalidInput)
	}

	video, err = s.owned(ctx, actor, id)
	if err != nil {
		return models.Video{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return models.Video{}, fmt.Errorf("%w: title must not be blank", apperr.ErrInvalidInput)
		}
		video.Title = title
	}
	if in.Description != nil {
		video.Description = strings.TrimSpace(*in.Description)
	}
	if err := validation.Struct(videoDetails{Title: video.Title, Description: video.Description}); err != nil {
		return models.Video{}, err
	}

	previous := video.Thumbnail
	if hasThumbnail {
		thumbnail, err := s.media.Upload(ctx, thumbnailFolder, models.MediaKindImage, *in.Thumbnail)
		if err != nil {
			return models.Video{}, apperr.Upstream("upload thumbnail", err)
		}
		video.Thumbnail = thumbnail
	}

	updated, err := s.store.Update(ctx, video)
	if err != nil {
		if hasThumbnail {
			s.media.Release(ctx, video.Thumbnail)
		}
		return models.Video{}, fmt.Errorf("update video: %w", err)
	}

	if hasThumbnail {
		s.media.Release(ctx, previous)
	}
	return updated, nil
}

// Delete removes a video owned by actor and releases its hosted files.
func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	video, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	s.media.Release(ctx, video.VideoFile)
	s.media.Release(ctx, video.Thumbnail)

	logging.FromContext(ctx).Info("video deleted", "videoId", id, "userId", actor)
	return nil
}

// TogglePublish flips the published flag of a video owned by actor.
func (s *Service) TogglePublish(ctx context.Context, actor, id uuid.UUID) (models.Video, error) {
	video, err := s.owned(ctx, actor, id)
	if err != nil {
		return models.Video{}, err
	}

	updated, err := s.store.SetPublished(ctx, id, !video.IsPublished)
	if err != nil {
		return models.Video{}, fmt.Errorf("toggle publish: %w", err)
	}
	return updated, nil
}

func (s *Service) owned(ctx context.Context, actor, id uuid.UUID) (models.Video, error) {
	video, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, fmt.Errorf("load video: %w", err)
	}
	if err := auth.AuthorizeMutation(actor, video); err != nil {
		return models.Video{}, err
	}
	return video, nil
}
