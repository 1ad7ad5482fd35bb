package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivam1272/backend-revision/internal/models"
)

type subscriptionServiceStub struct {
	edges map[[2]uuid.UUID]bool
}

func (s *subscriptionServiceStub) Toggle(_ context.Context, subscriber, channel uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{subscriber, channel}
	s.edges[key] = !s.edges[key]
	return s.edges[key], nil
}

func (s *subscriptionServiceStub) Subscribers(_ context.Context, channel uuid.UUID) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	for key, on := range s.edges {
		if on && key[1] == channel {
			out = append(out, models.UserSummary{ID: key[0]})
		}
	}
	return out, nil
}

func (s *subscriptionServiceStub) SubscribedChannels(_ context.Context, subscriber uuid.UUID) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	for key, on := range s.edges {
		if on && key[0] == subscriber {
			out = append(out, models.UserSummary{ID: key[1]})
		}
	}
	return out, nil
}

func TestSubscriptionToggleAndLists(t *testing.T) {
	stub := &subscriptionServiceStub{edges: map[[2]uuid.UUID]bool{}}
	f := newFixture(t, Dependencies{Subscriptions: stub})
	token := f.accessToken(t, f.user)
	channel := uuid.New()
	togglePath := "/api/v1/subscriptions/c/" + channel.String()

	rec := f.do(withBearer(jsonRequest(t, http.MethodPost, togglePath, nil), token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[toggleResponse](t, rec).Subscribed)

	rec = f.do(jsonRequest(t, http.MethodGet, togglePath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	subscribers := decodeBody[subscribersResponse](t, rec).Subscribers
	require.Len(t, subscribers, 1)
	assert.Equal(t, f.user.ID, subscribers[0].ID)

	rec = f.do(jsonRequest(t, http.MethodGet, "/api/v1/subscriptions/u/"+f.user.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[channelsResponse](t, rec).Channels, 1)

	rec = f.do(withBearer(jsonRequest(t, http.MethodPost, togglePath, nil), token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[toggleResponse](t, rec).Subscribed)

	rec = f.do(jsonRequest(t, http.MethodPost, togglePath, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
