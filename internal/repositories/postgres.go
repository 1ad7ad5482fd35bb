package repositories

import (
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Shivam1272/backend-revision/internal/models"
)

var userFields = []string{
	"id", "username", "email", "full_name", "password_hash", "refresh_token",
	"avatar_url", "avatar_id", "cover_image_url", "cover_image_id", "created_at", "updated_at",
}

var videoFields = []string{
	"id", "owner_id", "title", "description", "video_url", "video_id", "thumbnail_url",
	"thumbnail_id", "duration_seconds", "views", "is_published", "created_at", "updated_at",
}

// columns renders fields as a select list, qualified by alias when one is given.
func columns(alias string, fields []string) string {
	if alias == "" {
		return strings.Join(fields, ", ")
	}
	qualified := make([]string, len(fields))
	for i, f := range fields {
		qualified[i] = alias + "." + f
	}
	return strings.Join(qualified, ", ")
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.PasswordHash, &user.RefreshToken,
		&user.Avatar.URL, &user.Avatar.ID, &user.CoverImage.URL, &user.CoverImage.ID,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	user.Avatar.Kind = models.MediaKindImage
	if !user.CoverImage.IsZero() {
		user.CoverImage.Kind = models.MediaKindImage
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}

// videoScanTargets returns the destinations for videoFields in order.
func videoScanTargets(v *models.Video) []any {
	return []any{
		&v.ID, &v.Owner, &v.Title, &v.Description, &v.VideoFile.URL, &v.VideoFile.ID,
		&v.Thumbnail.URL, &v.Thumbnail.ID, &v.Duration, &v.Views, &v.IsPublished,
		&v.CreatedAt, &v.UpdatedAt,
	}
}

func finishVideo(v *models.Video) {
	v.VideoFile.Kind = models.MediaKindVideo
	v.VideoFile.Duration = v.Duration
	v.Thumbnail.Kind = models.MediaKindImage
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var v models.Video
	if err := row.Scan(videoScanTargets(&v)...); err != nil {
		return models.Video{}, err
	}
	finishVideo(&v)
	return v, nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
