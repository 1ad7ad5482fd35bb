// Package accounts implements registration and the profile operations of a signed-in user.
package accounts

import (
	"context"
	"fmt"
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
	avatarFolder = "avatars"
	coverFolder  = "covers"
)

// UserStore persists users. The store hashes passwords; missing users are apperr.ErrNotFound
// and duplicate usernames or emails are apperr.ErrConflict.
type UserStore interface {
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user models.User, password string) (models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (models.User, error)
	SetAvatar(ctx context.Context, id uuid.UUID, asset models.MediaAsset) (models.User, error)
	SetCoverImage(ctx context.Context, id uuid.UUID, asset models.MediaAsset) (models.User, error)
	ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, id uuid.UUID) ([]models.WatchedVideo, error)
}

// MediaLibrary hosts uploaded files.
type MediaLibrary interface {
	Upload(ctx context.Context, folder string, want models.MediaKind, file media.File) (models.MediaAsset, error)
	Release(ctx context.Context, asset models.MediaAsset)
}

// RegisterInput carries a registration request. CoverImage is optional.
type RegisterInput struct {
	Username   string      `json:"username" validate:"required,max=30,excludesall=@"`
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required"`
	FullName   string      `json:"fullName" validate:"required,max=100"`
	Avatar     *media.File `json:"-"`
	CoverImage *media.File `json:"-"`
}

// UpdateAccountInput carries the editable account details.
type UpdateAccountInput struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

// Service implements the account workflows.
type Service struct {
	users UserStore
	media MediaLibrary
}

// NewService constructs a Service.
func NewService(users UserStore, library MediaLibrary) *Service {
	return &Service{users: users, media: library}
}

// Register creates an account. Identity conflicts are detected before anything is uploaded;
// a failed avatar upload aborts registration while a failed cover upload is tolerated.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user models.PublicUser, err error) {
	ctx, span := logging.StartSpan(ctx, "accounts.Register")
	defer func() { span.End(err) }()

	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := validation.Struct(in); err != nil {
		return models.PublicUser{}, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return models.PublicUser{}, err
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("check existing user: %w", err)
	}
	if taken {
		return models.PublicUser{}, fmt.Errorf("%w: user with email or username already exists", apperr.ErrConflict)
	}

	if in.Avatar == nil || in.Avatar.Reader == nil {
		return models.PublicUser{}, fmt.Errorf("%w: avatar file is required", apperr.ErrInvalidInput)
	}

	avatar, err := s.media.Upload(ctx, avatarFolder, models.MediaKindImage, *in.Avatar)
	if err != nil {
		return models.PublicUser{}, apperr.Upstream("upload avatar", err)
	}

	var cover models.MediaAsset
	if in.CoverImage != nil && in.CoverImage.Reader != nil {
		cover, err = s.media.Upload(ctx, coverFolder, models.MediaKindImage, *in.CoverImage)
		if err != nil {
			logging.FromContext(ctx).Warn("cover image upload failed, continuing without it", "error", err)
			cover = models.MediaAsset{}
		}
	}

	created, err := s.users.Create(ctx, models.User{
		Username:   in.Username,
		Email:      in.Email,
		FullName:   in.FullName,
		Avatar:     avatar,
		CoverImage: cover,
	}, in.Password)
	if err != nil {
		s.media.Release(ctx, avatar)
		s.media.Release(ctx, cover)
		return models.PublicUser{}, fmt.Errorf("create user: %w", err)
	}

	logging.FromContext(ctx).Info("user registered", "userId", created.ID, "email", logging.RedactEmail(created.Email))
	return created.Public(), nil
}

// CurrentUser returns the sanitized view of the user.
func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("load user: %w", err)
	}
	return user.Public(), nil
}

// UpdateAccount changes the user's full name and email.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, in UpdateAccountInput) (models.PublicUser, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return models.PublicUser{}, err
	}

	user, err := s.users.UpdateAccount(ctx, id, in.FullName, in.Email)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("update account: %w", err)
	}
	return user.Public(), nil
}

// UpdateAvatar replaces the avatar and releases the previous one.
func (s *Service) UpdateAvatar(ctx context.Context, id uuid.UUID, file *media.File) (models.PublicUser, error) {
	return s.swapImage(ctx, id, file, avatarFolder, s.users.SetAvatar, func(u models.User) models.MediaAsset { return u.Avatar })
}

// UpdateCoverImage replaces the cover image and releases the previous one.
func (s *Service) UpdateCoverImage(ctx context.Context, id uuid.UUID, file *media.File) (models.PublicUser, error) {
	return s.swapImage(ctx, id, file, coverFolder, s.users.SetCoverImage, func(u models.User) models.MediaAsset { return u.CoverImage })
}

func (s *Service) swapImage(
	ctx context.Context,
	id uuid.UUID,
	file *media.File,
	folder string,
	set func(context.Context, uuid.UUID, models.MediaAsset) (models.User, error),
	current func(models.User) models.MediaAsset,
) (user models.PublicUser, err error) {
	ctx, span := logging.StartSpan(ctx, "accounts.swap."+folder)
	defer func() { span.End(err) }()

	if file == nil || file.Reader == nil {
		return models.PublicUser{}, fmt.Errorf("%w: image file is required", apperr.ErrInvalidInput)
	}

	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("load user: %w", err)
	}

	asset, err := s.media.Upload(ctx, folder, models.MediaKindImage, *file)
	if err != nil {
		return models.PublicUser{}, apperr.Upstream("upload image", err)
	}

	updated, err := set(ctx, id, asset)
	if err != nil {
		s.media.Release(ctx, asset)
		return models.PublicUser{}, fmt.Errorf("store image: %w", err)
	}

	s.media.Release(ctx, current(existing))
	return updated.Public(), nil
}

// ChannelProfile returns username's public channel page as seen by viewer (uuid.Nil when anonymous).
func (s *Service) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return models.ChannelProfile{}, fmt.Errorf("%w: username is required", apperr.ErrInvalidInput)
	}

	profile, err := s.users.ChannelProfile(ctx, username, viewer)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("load channel %q: %w", username, err)
	}
	return profile, nil
}

// WatchHistory returns the videos the user watched, most recent first.
func (s *Service) WatchHistory(ctx context.Context, id uuid.UUID) ([]models.WatchedVideo, error) {
	history, err := s.users.WatchHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load watch history: %w", err)
	}
	return history, nil
}
