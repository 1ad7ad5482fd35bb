package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Shivam1272/backend-revision/internal/apperr"
	"github.com/Shivam1272/backend-revision/internal/auth"
	"github.com/Shivam1272/backend-revision/internal/logging"
	"github.com/Shivam1272/backend-revision/internal/validation"
)

const maxJSONBody = 1 << 20

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

// respondError reports err using its class in the error taxonomy.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := apperr.Classify(err)

	logger := logging.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request returned client error", "status", status, "error", err)
	}

	respondJSON(ctx, w, status, errorResponse{Error: errorBody{Code: code, Message: apperr.Message(err)}})
}

// decodeJSON reads a bounded JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", apperr.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid request body: %v", apperr.ErrInvalidInput, err)
	}
	return validation.Struct(dst)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a valid id", apperr.ErrInvalidInput, name)
	}
	return id, nil
}

// caller returns the authenticated user, or uuid.Nil for anonymous requests.
func caller(r *http.Request) uuid.UUID {
	claims, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return uuid.Nil
	}
	return claims.UserID
}
