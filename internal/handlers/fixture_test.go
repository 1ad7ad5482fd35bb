package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Shivam1272/backend-revision/internal/auth"
	"github.com/Shivam1272/backend-revision/internal/models"
)

type fixture struct {
	router http.Handler
	store  *auth.InMemoryCredentialStore
	tokens *auth.TokenService
	user   models.User
}

// newFixture builds the full router around a session manager backed by an in-memory
// credential store holding one user, alice/password123. Fields of deps left nil stay nil.
func newFixture(t *testing.T, deps Dependencies) fixture {
	t.Helper()

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "vidtweet-test",
	})
	require.NoError(t, err)

	store := auth.NewInMemoryCredentialStore()
	user, err := store.Create(context.Background(), models.User{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Liddell",
	}, "password123")
	require.NoError(t, err)

	manager := auth.NewManager(tokens, store)
	deps.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	deps.Sessions = manager
	deps.Authenticator = manager

	return fixture{router: NewRouter(deps), store: store, tokens: tokens, user: user}
}

func (f fixture) accessToken(t *testing.T, user models.User) string {
	t.Helper()
	token, _, err := f.tokens.IssueAccessToken(user)
	require.NoError(t, err)
	return token
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, values map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), rec.Body.String())
	return out
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
