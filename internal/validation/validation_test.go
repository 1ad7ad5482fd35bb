package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivam1272/backend-revision/internal/apperr"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Sort     string `form:"sortType" validate:"omitempty,oneof=asc desc"`
}

func TestStructPasses(t *testing.T) {
	require.NoError(t, Struct(sample{Email: "a@example.com", Password: "password123", Sort: "asc"}))
}

func TestStructReportsEveryField(t *testing.T) {
	err := Struct(sample{Email: "nope", Password: "short", Sort: "sideways"})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
	assert.Contains(t, err.Error(), "sortType must be one of [asc desc]")
}

func TestStructRequired(t *testing.T) {
	err := Struct(sample{})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Contains(t, err.Error(), "email is required")
	assert.Contains(t, err.Error(), "password is required")
}
