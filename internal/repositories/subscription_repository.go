package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/db"
	"github.com/Shivam1272/backend-revision/internal/models"
)

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for subscription edges.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Toggle removes the subscriber->channel edge if it exists and creates it otherwise, in one
// transaction. It reports whether the edge exists afterwards. An unknown user is ErrNotFound.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, subscriber, channel uuid.UUID) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin toggle transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
        DELETE FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriber, channel)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}

	subscribed := tag.RowsAffected() == 0
	if subscribed {
		_, err := tx.Exec(ctx, `
            INSERT INTO subscriptions (subscriber_id, channel_id)
            VALUES ($1, $2)
            ON CONFLICT (subscriber_id, channel_id) DO NOTHING
        `, subscriber, channel)
		if err != nil {
			return false, translateWriteError("insert subscription", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit toggle: %w", err)
	}
	return subscribed, nil
}

// Subscribers lists the users subscribed to channel, most recent first.
func (r *PostgresSubscriptionRepository) Subscribers(ctx context.Context, channel uuid.UUID) ([]models.UserSummary, error) {
	return r.listSummaries(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC, u.username
    `, channel)
}

// SubscribedChannels lists the channels subscriber follows, most recent first.
func (r *PostgresSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriber uuid.UUID) ([]models.UserSummary, error) {
	return r.listSummaries(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar_url
        FROM subscriptions s
        JOIN users u ON u.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC, u.username
    `, subscriber)
}

func (r *PostgresSubscriptionRepository) listSummaries(ctx context.Context, query string, id uuid.UUID) ([]models.UserSummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.Avatar); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return users, nil
}
