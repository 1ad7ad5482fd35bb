// Package subscriptions manages the subscriber->channel edges between users.
package subscriptions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/logging"
	"github.com/Shivam1272/backend-revision/internal/models"
)

// Store persists subscription edges.
type Store interface {
	Toggle(ctx context.Context, subscriber, channel uuid.UUID) (bool, error)
	Subscribers(ctx context.Context, channel uuid.UUID) ([]models.UserSummary, error)
	SubscribedChannels(ctx context.Context, subscriber uuid.UUID) ([]models.UserSummary, error)
}

// UserLookup resolves channel owners. Unknown users are apperr.ErrNotFound.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// Service implements the subscription workflows.
type Service struct {
	store Store
	users UserLookup
}

// NewService constructs a Service.
func NewService(store Store, users UserLookup) *Service {
	return &Service{store: store, users: users}
}

// Toggle subscribes subscriber to channel, or unsubscribes when the edge already exists.
// It reports whether subscriber is subscribed afterwards.
func (s *Service) Toggle(ctx context.Context, subscriber, channel uuid.UUID) (bool, error) {
	if channel == uuid.Nil {
		return false, fmt.Errorf("%w: channel id is required", apperr.ErrInvalidInput)
	}
	if _, err := s.users.FindByID(ctx, channel); err != nil {
		return false, fmt.Errorf("load channel: %w", err)
	}

	subscribed, err := s.store.Toggle(ctx, subscriber, channel)
	if err != nil {
		return false, fmt.Errorf("toggle subscription: %w", err)
	}

	logging.FromContext(ctx).Info("subscription toggled", "userId", subscriber, "channelId", channel, "subscribed", subscribed)
	return subscribed, nil
}

// Subscribers lists the users subscribed to channel.
func (s *Service) Subscribers(ctx context.Context, channel uuid.UUID) ([]models.UserSummary, error) {
	if channel == uuid.Nil {
		return nil, fmt.Errorf("%w: channel id is required", apperr.ErrInvalidInput)
	}
	users, err := s.store.Subscribers(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return users, nil
}

// SubscribedChannels lists the channels subscriber is subscribed to.
func (s *Service) SubscribedChannels(ctx context.Context, subscriber uuid.UUID) ([]models.UserSummary, error) {
	if subscriber == uuid.Nil {
		return nil, fmt.Errorf("%w: subscriber id is required", apperr.ErrInvalidInput)
	}
	channels, err := s.store.SubscribedChannels(ctx, subscriber)
	if err != nil {
		return nil, fmt.Errorf("list subscribed channels: %w", err)
	}
	return channels, nil
}
