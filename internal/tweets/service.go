// Package tweets implements short text posts owned by users.
package tweets

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/auth"
	"github.com/Shivam1272/backend-revision/internal/logging"
	"github.com/Shivam1272/backend-revision/internal/models"
)

// MaxContentLength bounds a tweet's content in characters.
const MaxContentLength = 280

// Store persists tweets. Missing tweets and unknown owners are apperr.ErrNotFound.
type Store interface {
	Create(ctx context.Context, tweet models.Tweet) (models.Tweet, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.Tweet, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (models.Tweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements the tweet workflows.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create posts content as actor.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, content string) (models.Tweet, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return models.Tweet{}, err
	}

	tweet, err := s.store.Create(ctx, models.Tweet{Owner: actor, Content: content})
	if err != nil {
		return models.Tweet{}, fmt.Errorf("create tweet: %w", err)
	}

	logging.FromContext(ctx).Info("tweet created", "tweetId", tweet.ID, "userId", actor)
	return tweet, nil
}

// ListByUser returns the user's tweets, newest first. A user without tweets yields an empty list.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Tweet, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", apperr.ErrInvalidInput)
	}
	tweets, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return tweets, nil
}

// Update replaces the content of a tweet owned by actor.
func (s *Service) Update(ctx context.Context, actor, tweetID uuid.UUID, content string) (models.Tweet, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return models.Tweet{}, err
	}

	if _, err := s.owned(ctx, actor, tweetID); err != nil {
		return models.Tweet{}, err
	}

	tweet, err := s.store.UpdateContent(ctx, tweetID, content)
	if err != nil {
		return models.Tweet{}, fmt.Errorf("update tweet: %w", err)
	}
	return tweet, nil
}

// Delete removes a tweet owned by actor.
func (s *Service) Delete(ctx context.Context, actor, tweetID uuid.UUID) error {
	if _, err := s.owned(ctx, actor, tweetID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, tweetID); err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}

	logging.FromContext(ctx).Info("tweet deleted", "tweetId", tweetID, "userId", actor)
	return nil
}

func (s *Service) owned(ctx context.Context, actor, tweetID uuid.UUID) (models.Tweet, error) {
	tweet, err := s.store.FindByID(ctx, tweetID)
	if err != nil {
		return models.Tweet{}, fmt.Errorf("load tweet: %w", err)
	}
	if err := auth.AuthorizeMutation(actor, tweet); err != nil {
		return models.Tweet{}, err
	}
	return tweet, nil
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: content is required", apperr.ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", fmt.Errorf("%w: content must be at most %d characters", apperr.ErrInvalidInput, MaxContentLength)
	}
	return content, nil
}
