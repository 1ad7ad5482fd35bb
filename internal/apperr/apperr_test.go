package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", fmt.Errorf("%w: title is required", ErrInvalidInput), http.StatusBadRequest, "invalid_input"},
		{"unauthorized", fmt.Errorf("refresh: %w", ErrUnauthorized), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", fmt.Errorf("record %w", ErrNotFound), http.StatusNotFound, "not_found"},
		{"conflict", fmt.Errorf("record %w", ErrConflict), http.StatusConflict, "conflict"},
		{"upstream", fmt.Errorf("%w: avatar upload", ErrUpstream), http.StatusBadGateway, "upstream_failure"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestMessageHidesInternalDetails(t *testing.T) {
	assert.Equal(t, "internal error", Message(errors.New("pq: connection refused")))
	assert.Equal(t, "forbidden: not the owner", Message(fmt.Errorf("%w: not the owner", ErrForbidden)))
	assert.Equal(t, "media service unavailable", Message(fmt.Errorf("%w: avatar: s3 timeout", ErrUpstream)))
}

func TestUpstream(t *testing.T) {
	err := Upstream("upload avatar", errors.New("connection reset"))
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "connection reset")

	rejected := Upstream("upload avatar", fmt.Errorf("%w: not an image", ErrInvalidInput))
	assert.ErrorIs(t, rejected, ErrInvalidInput)
	assert.NotErrorIs(t, rejected, ErrUpstream)
}
