package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Shivam1272/backend-revision/internal/auth"
	"github.com/Shivam1272/backend-revision/internal/db"
	"github.com/Shivam1272/backend-revision/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users and their sessions.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user, hashing password before it is stored.
// Username and email are stored lower-case; a duplicate of either is ErrConflict.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User, password string) (models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, avatar_id, cover_image_url, cover_image_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+columns("", userFields),
		user.ID, user.Username, user.Email, user.FullName, hashed,
		user.Avatar.URL, user.Avatar.ID, user.CoverImage.URL, user.CoverImage.ID,
	)

	created, err := scanUser(row)
	if err != nil {
		return models.User{}, translateWriteError("insert user", err)
	}
	return created, nil
}

// ExistsByUsernameOrEmail reports whether either identifier is already taken.
func (r *PostgresUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)
    `, strings.ToLower(strings.TrimSpace(username)), strings.ToLower(strings.TrimSpace(email))).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// FindByID fetches a user by identifier.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByUsername fetches a user by username.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, "username = $1", strings.ToLower(strings.TrimSpace(username)))
}

// FindByLogin fetches a user whose username or email equals login.
func (r *PostgresUserRepository) FindByLogin(ctx context.Context, login string) (models.User, error) {
	return r.findOne(ctx, "username = $1 OR email = $1", strings.ToLower(strings.TrimSpace(login)))
}

func (r *PostgresUserRepository) findOne(ctx context.Context, where string, arg any) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+columns("", userFields)+` FROM users WHERE `+where+` LIMIT 1`, arg)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// SetRefreshToken overwrites the stored refresh token. An empty token ends the session.
func (r *PostgresUserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = $2, updated_at = NOW()
        WHERE id = $1
    `, id, token)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapRefreshToken replaces the stored refresh token only while it still equals current.
// A lost race or a stale token is ErrConflict.
func (r *PostgresUserRepository) SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	if current == "" {
		return fmt.Errorf("%w: no active refresh token", ErrConflict)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET refresh_token = $3, updated_at = NOW()
        WHERE id = $1 AND refresh_token = $2
    `, id, current, next)
	if err != nil {
		return fmt.Errorf("swap refresh token: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return fmt.Errorf("%w: refresh token superseded", ErrConflict)
}

// UpdatePassword stores the hash of password.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET password_hash = $2, updated_at = NOW()
        WHERE id = $1
    `, id, hashed)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAccount changes the user's full name and email.
func (r *PostgresUserRepository) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, email string) (models.User, error) {
	return r.updateOne(ctx, "update account", `full_name = $2, email = $3`,
		id, strings.TrimSpace(fullName), strings.ToLower(strings.TrimSpace(email)))
}

// SetAvatar points the user's avatar at asset.
func (r *PostgresUserRepository) SetAvatar(ctx context.Context, id uuid.UUID, asset models.MediaAsset) (models.User, error) {
	return r.updateOne(ctx, "update avatar", `avatar_url = $2, avatar_id = $3`, id, asset.URL, asset.ID)
}

// SetCoverImage points the user's cover image at asset.
func (r *PostgresUserRepository) SetCoverImage(ctx context.Context, id uuid.UUID, asset models.MediaAsset) (models.User, error) {
	return r.updateOne(ctx, "update cover image", `cover_image_url = $2, cover_image_id = $3`, id, asset.URL, asset.ID)
}

func (r *PostgresUserRepository) updateOne(ctx context.Context, op, set string, id uuid.UUID, args ...any) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE users
        SET `+set+`, updated_at = NOW()
        WHERE id = $1
        RETURNING `+columns("", userFields),
		append([]any{id}, args...)...,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, translateWriteError(op, err)
	}
	return user, nil
}

// ChannelProfile loads the public profile for username together with its subscription counts.
// viewer may be uuid.Nil, in which case IsSubscribed is false.
func (r *PostgresUserRepository) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (models.ChannelProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+columns("u", userFields)+`,
            (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
            (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
            EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
        FROM users u
        WHERE u.username = $1
    `, strings.ToLower(strings.TrimSpace(username)), viewer)

	var (
		user    models.User
		profile models.ChannelProfile
	)
	err = row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.PasswordHash, &user.RefreshToken,
		&user.Avatar.URL, &user.Avatar.ID, &user.CoverImage.URL, &user.CoverImage.ID,
		&user.CreatedAt, &user.UpdatedAt,
		&profile.SubscribersCount, &profile.ChannelsSubscribedToCount, &profile.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChannelProfile{}, ErrNotFound
		}
		return models.ChannelProfile{}, fmt.Errorf("select channel profile: %w", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	profile.PublicUser = user.Public()
	return profile, nil
}

// WatchHistory returns the videos id has watched, most recent first, with each owner's summary.
// Videos unpublished by other owners are omitted.
func (r *PostgresUserRepository) WatchHistory(ctx context.Context, id uuid.UUID) ([]models.WatchedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+columns("v", videoFields)+`, o.id, o.username, o.full_name, o.avatar_url, w.watched_at
        FROM watch_history w
        JOIN videos v ON v.id = w.video_id
        JOIN users o ON o.id = v.owner_id
        WHERE w.user_id = $1 AND (v.is_published OR v.owner_id = $1)
        ORDER BY w.watched_at DESC
    `, id)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	history := []models.WatchedVideo{}
	for rows.Next() {
		var entry models.WatchedVideo
		targets := append(videoScanTargets(&entry.Video),
			&entry.OwnerProfile.ID, &entry.OwnerProfile.Username, &entry.OwnerProfile.FullName,
			&entry.OwnerProfile.Avatar, &entry.WatchedAt)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan watch history: %w", err)
		}
		finishVideo(&entry.Video)
		entry.WatchedAt = entry.WatchedAt.UTC()
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}
	return history, nil
}

var _ auth.CredentialStore = (*PostgresUserRepository)(nil)
