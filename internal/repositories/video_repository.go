package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Shivam1272/backend-revision/internal/db"
	"github.com/Shivam1272/backend-revision/internal/models"
)

var videoSortColumns = map[models.VideoSort]string{
	models.SortByCreatedAt: "v.created_at",
	models.SortByTitle:     "v.title",
	models.SortByDuration:  "v.duration_seconds",
	models.SortByViews:     "v.views",
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record. An unknown owner is ErrNotFound.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) (models.Video, error) {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO videos (id, owner_id, title, description, video_url, video_id, thumbnail_url, thumbnail_id, duration_seconds, is_published)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+columns("", videoFields),
		video.ID, video.Owner, video.Title, video.Description, video.VideoFile.URL, video.VideoFile.ID,
		video.Thumbnail.URL, video.Thumbnail.ID, video.Duration, video.IsPublished,
	)

	created, err := scanVideo(row)
	if err != nil {
		return models.Video{}, translateWriteError("insert video", err)
	}
	return created, nil
}

// FindByID fetches a video by identifier regardless of its published state.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	video, err := scanVideo(conn.QueryRow(ctx, `SELECT `+columns("", videoFields)+` FROM videos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}
	return video, nil
}

// List returns one page of videos matching q and the total number of matches.
func (r *PostgresVideoRepository) List(ctx context.Context, q models.VideoQuery) ([]models.Video, int64, error) {
	args := []any{q.ViewerID}
	where := []string{"(v.is_published OR v.owner_id = $1)"}

	if q.OwnerID != uuid.Nil {
		args = append(args, q.OwnerID)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		where = append(where, fmt.Sprintf("v.title ILIKE $%d", len(args)))
	}
	filter := strings.Join(where, " AND ")

	sortColumn, ok := videoSortColumns[q.SortBy]
	if !ok {
		sortColumn = videoSortColumns[models.SortByCreatedAt]
	}
	direction := "ASC"
	if q.Descending {
		direction = "DESC"
	}

	limit, page := q.Limit, q.Page
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos v WHERE `+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	pageArgs := append(append([]any{}, args...), limit, (page-1)*limit)
	rows, err := conn.Query(ctx, fmt.Sprintf(`
        SELECT %s
        FROM videos v
        WHERE %s
        ORDER BY %s %s, v.id %s
        LIMIT $%d OFFSET $%d
    `, columns("v", videoFields), filter, sortColumn, direction, direction, len(args)+1, len(args)+2), pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, total, nil
}

// Update persists the video's title, description and thumbnail.
func (r *PostgresVideoRepository) Update(ctx context.Context, video models.Video) (models.Video, error) {
	return r.updateOne(ctx, "update video", `title = $2, description = $3, thumbnail_url = $4, thumbnail_id = $5`,
		video.ID, video.Title, video.Description, video.Thumbnail.URL, video.Thumbnail.ID)
}

// SetPublished sets the video's published flag.
func (r *PostgresVideoRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) (models.Video, error) {
	return r.updateOne(ctx, "update video published", `is_published = $2`, id, published)
}

func (r *PostgresVideoRepository) updateOne(ctx context.Context, op, set string, id uuid.UUID, args ...any) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	video, err := scanVideo(conn.QueryRow(ctx, `
        UPDATE videos
        SET `+set+`, updated_at = NOW()
        WHERE id = $1
        RETURNING `+columns("", videoFields), append([]any{id}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}
	return video, nil
}

// Delete removes a video record.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordView increments the view counter and, for a signed-in viewer, moves the video to the
// front of their watch history.
func (r *PostgresVideoRepository) RecordView(ctx context.Context, videoID, viewer uuid.UUID) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin view transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if viewer != uuid.Nil {
		_, err := tx.Exec(ctx, `
            INSERT INTO watch_history (user_id, video_id, watched_at)
            VALUES ($1, $2, NOW())
            ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
        `, viewer, videoID)
		if err != nil {
			return translateWriteError("record watch history", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit view: %w", err)
	}
	return nil
}
