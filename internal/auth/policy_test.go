package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/models"
)

func TestAuthorizeMutation(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tweet := models.Tweet{ID: uuid.New(), Owner: owner, Content: "hello"}
	video := models.Video{ID: uuid.New(), Owner: owner, Title: "clip"}

	require.NoError(t, AuthorizeMutation(owner, tweet))
	require.NoError(t, AuthorizeMutation(owner, video))

	require.ErrorIs(t, AuthorizeMutation(other, tweet), apperr.ErrForbidden)
	require.ErrorIs(t, AuthorizeMutation(other, video), apperr.ErrForbidden)
	require.ErrorIs(t, AuthorizeMutation(uuid.Nil, models.Tweet{}), apperr.ErrForbidden)
	require.ErrorIs(t, AuthorizeMutation(owner, nil), apperr.ErrForbidden)
}

func TestAuthorizeMutationAnyPairOfDistinctUsers(t *testing.T) {
	for i := 0; i < 50; i++ {
		a, b := uuid.New(), uuid.New()
		resource := models.Video{Owner: b}
		require.ErrorIs(t, AuthorizeMutation(a, resource), apperr.ErrForbidden)
	}
}
