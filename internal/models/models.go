package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account on the platform as stored by the credential store.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	RefreshToken string
	Avatar       MediaAsset
	CoverImage   MediaAsset
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns the sanitized view of the user. Credentials never leave this package through it.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar.URL,
		CoverImage: u.CoverImage.URL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// PublicUser is the user representation returned to API callers.
type PublicUser struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserSummary is the projection of a user embedded in lists and joins.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

// ChannelProfile is a user's public channel page with derived subscription counts.
type ChannelProfile struct {
	PublicUser
	SubscribersCount          int64 `json:"subscribersCount"`
	ChannelsSubscribedToCount int64 `json:"channelsSubscribedToCount"`
	IsSubscribed              bool  `json:"isSubscribed"`
}

// MediaKind distinguishes hosted images from hosted videos.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// MediaAsset references a file held by the media collaborator.
type MediaAsset struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Kind     MediaKind `json:"kind"`
	Duration float64   `json:"-"`
}

// IsZero reports whether the asset references nothing.
func (a MediaAsset) IsZero() bool {
	return a.ID == "" && a.URL == ""
}

// Tweet is a short text post owned by a user.
type Tweet struct {
	ID        uuid.UUID `json:"id"`
	Owner     uuid.UUID `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID implements the ownership contract used by mutation checks.
func (t Tweet) OwnerID() uuid.UUID { return t.Owner }

// Video is a published (or unpublished) video owned by a user.
type Video struct {
	ID          uuid.UUID  `json:"id"`
	Owner       uuid.UUID  `json:"owner"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoFile   MediaAsset `json:"videoFile"`
	Thumbnail   MediaAsset `json:"thumbnail"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	IsPublished bool       `json:"isPublished"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// OwnerID implements the ownership contract used by mutation checks.
func (v Video) OwnerID() uuid.UUID { return v.Owner }

// WatchedVideo is a watch-history entry joined with the video's owner.
type WatchedVideo struct {
	Video
	OwnerProfile UserSummary `json:"ownerProfile"`
	WatchedAt    time.Time   `json:"watchedAt"`
}

// PageMeta describes a page of a paginated listing.
type PageMeta struct {
	TotalDocuments int64 `json:"totalDocuments"`
	Page           int   `json:"page"`
	Limit          int   `json:"limit"`
	TotalPages     int   `json:"totalPages"`
}

// VideoPage is one page of a video listing.
type VideoPage struct {
	Meta   PageMeta `json:"meta"`
	Videos []Video  `json:"videos"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// VideoSort names a column a video listing can be ordered by.
type VideoSort string

const (
	SortByCreatedAt VideoSort = "createdAt"
	SortByTitle     VideoSort = "title"
	SortByDuration  VideoSort = "duration"
	SortByViews     VideoSort = "views"
)

// VideoQuery selects one page of videos. Only published videos and the viewer's own are
// ever returned; OwnerID narrows the listing to one channel when set.
type VideoQuery struct {
	Search     string
	SortBy     VideoSort
	Descending bool
	Page       int
	Limit      int
	OwnerID    uuid.UUID
	ViewerID   uuid.UUID
}
