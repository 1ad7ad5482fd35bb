package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/models"
)

type tweetServiceStub struct {
	actor   uuid.UUID
	content string
	err     error
}

func (s *tweetServiceStub) Create(_ context.Context, actor uuid.UUID, content string) (models.Tweet, error) {
	s.actor, s.content = actor, content
	return models.Tweet{ID: uuid.New(), Owner: actor, Content: content}, s.err
}

func (s *tweetServiceStub) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Tweet, error) {
	return []models.Tweet{{Owner: userID, Content: "first"}}, s.err
}

func (s *tweetServiceStub) Update(_ context.Context, actor, tweetID uuid.UUID, content string) (models.Tweet, error) {
	s.actor, s.content = actor, content
	return models.Tweet{ID: tweetID, Owner: actor, Content: content}, s.err
}

func (s *tweetServiceStub) Delete(_ context.Context, actor, _ uuid.UUID) error {
	s.actor = actor
	return s.err
}

func TestTweetEndpoints(t *testing.T) {
	stub := &tweetServiceStub{}
	f := newFixture(t, Dependencies{Tweets: stub})
	token := f.accessToken(t, f.user)

	rec := f.do(withBearer(jsonRequest(t, http.MethodPost, "/api/v1/tweets", map[string]string{"content": "hello"}), token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, f.user.ID, stub.actor)
	assert.Equal(t, "hello", decodeBody[tweetResponse](t, rec).Tweet.Content)

	rec = f.do(withBearer(jsonRequest(t, http.MethodPost, "/api/v1/tweets", map[string]string{"content": ""}), token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(jsonRequest(t, http.MethodGet, "/api/v1/tweets/user/"+f.user.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[tweetsResponse](t, rec).Tweets, 1)

	tweetPath := "/api/v1/tweets/" + uuid.NewString()
	rec = f.do(withBearer(jsonRequest(t, http.MethodPatch, tweetPath, map[string]string{"content": "edited"}), token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "edited", stub.content)

	rec = f.do(withBearer(jsonRequest(t, http.MethodDelete, tweetPath, nil), token))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(jsonRequest(t, http.MethodDelete, tweetPath, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTweetMutationByNonOwner(t *testing.T) {
	stub := &tweetServiceStub{err: fmt.Errorf("%w: you do not own this resource", apperr.ErrForbidden)}
	f := newFixture(t, Dependencies{Tweets: stub})

	rec := f.do(withBearer(jsonRequest(t, http.MethodDelete, "/api/v1/tweets/"+uuid.NewString(), nil), f.accessToken(t, f.user)))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeBody[apiError](t, rec).Error.Code)
}
