package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chrix-Dev/To-do-app/internal/user"
)

func newAuthedRequest(t *testing.T, token string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	repo := newFakeUserRepo()
	tokenService := newTestJWTService(t, "HS256")
	middleware := NewMiddleware(tokenService, repo)

	alice, err := repo.Create(context.Background(), "Alice", "a@x.com", "digest")
	require.NoError(t, err)

	var seenUser *user.User
	handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = CurrentUser(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := tokenService.CreateToken("a@x.com", time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(t, token))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seenUser)
	assert.Equal(t, alice.ID, seenUser.ID)
	assert.Equal(t, "a@x.com", seenUser.Email)
}

func TestRequireAuth_Rejections(t *testing.T) {
	repo := newFakeUserRepo()
	tokenService := newTestJWTService(t, "HS256")
	middleware := NewMiddleware(tokenService, repo)

	_, err := repo.Create(context.Background(), "Alice", "a@x.com", "digest")
	require.NoError(t, err)

	handlerCalled := false
	handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	validToken, err := tokenService.CreateToken("a@x.com", time.Hour)
	require.NoError(t, err)
	expiredToken, err := tokenService.CreateToken("a@x.com", -time.Minute)
	require.NoError(t, err)
	deletedUserToken, err := tokenService.CreateToken("gone@x.com", time.Hour)
	require.NoError(t, err)

	otherService := newTestJWTService(t, "HS512")
	wrongKindToken, err := otherService.CreateToken("a@x.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + validToken},
		{"no token", "Bearer"},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expiredToken},
		{"wrong algorithm", "Bearer " + wrongKindToken},
		{"user no longer exists", "Bearer " + deletedUserToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false

			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, handlerCalled, "wrapped handler must not run")
		})
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	_, ok := CurrentUser(context.Background())
	assert.False(t, ok)
}
