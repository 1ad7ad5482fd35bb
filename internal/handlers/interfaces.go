package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/accounts"
	"github.com/Shivam1272/backend-revision/internal/media"
	"github.com/Shivam1272/backend-revision/internal/models"
	"github.com/Shivam1272/backend-revision/internal/videos"
)

// SessionService drives login, logout, refresh rotation and password changes.
type SessionService interface {
	Login(ctx context.Context, login, password string) (models.PublicUser, models.SessionTokens, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// AccountService captures registration and profile operations.
type AccountService interface {
	Register(ctx context.Context, in accounts.RegisterInput) (models.PublicUser, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (models.PublicUser, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, in accounts.UpdateAccountInput) (models.PublicUser, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, file *media.File) (models.PublicUser, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, file *media.File) (models.PublicUser, error)
	ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, id uuid.UUID) ([]models.WatchedVideo, error)
}

// TweetService captures the tweet workflows.
type TweetService interface {
	Create(ctx context.Context, actor uuid.UUID, content string) (models.Tweet, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Tweet, error)
	Update(ctx context.Context, actor, tweetID uuid.UUID, content string) (models.Tweet, error)
	Delete(ctx context.Context, actor, tweetID uuid.UUID) error
}

// VideoService captures the video workflows.
type VideoService interface {
	Publish(ctx context.Context, actor uuid.UUID, in videos.PublishInput) (models.Video, error)
	Get(ctx context.Context, id, viewer uuid.UUID) (models.Video, error)
	List(ctx context.Context, in videos.ListInput) (models.VideoPage, error)
	Update(ctx context.Context, actor, id uuid.UUID, in videos.UpdateInput) (models.Video, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
	TogglePublish(ctx context.Context, actor, id uuid.UUID) (models.Video, error)
}

// SubscriptionService captures the subscription workflows.
type SubscriptionService interface {
	Toggle(ctx context.Context, subscriber, channel uuid.UUID) (bool, error)
	Subscribers(ctx context.Context, channel uuid.UUID) ([]models.UserSummary, error)
	SubscribedChannels(ctx context.Context, subscriber uuid.UUID) ([]models.UserSummary, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
