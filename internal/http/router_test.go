package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chrix-Dev/To-do-app/internal/auth"
	"github.com/Chrix-Dev/To-do-app/internal/config"
	"github.com/Chrix-Dev/To-do-app/internal/logging"
	"github.com/Chrix-Dev/To-do-app/internal/todo"
	"github.com/Chrix-Dev/To-do-app/internal/user"
)

// In-memory stores standing in for the database.

type memUserRepo struct {
	nextID int64
	users  map[string]*user.User
}

func (m *memUserRepo) Create(_ context.Context, name, email, passwordHash string) (*user.User, error) {
	if _, exists := m.users[email]; exists {
		return nil, user.ErrDuplicateEmail
	}
	m.nextID++
	u := &user.User{ID: m.nextID, Name: name, Email: email, PasswordHash: passwordHash}
	m.users[email] = u
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, exists := m.users[email]
	if !exists {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type memTodoStore struct {
	nextID int64
	todos  []todo.Todo
}

func (m *memTodoStore) Create(_ context.Context, ownerID int64, title string) (*todo.Todo, error) {
	m.nextID++
	t := todo.Todo{ID: m.nextID, Title: title, OwnerID: ownerID}
	m.todos = append(m.todos, t)
	return &t, nil
}

func (m *memTodoStore) ListByOwner(_ context.Context, ownerID int64) ([]todo.Todo, error) {
	result := make([]todo.Todo, 0)
	for _, t := range m.todos {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *memTodoStore) GetByID(_ context.Context, ownerID, id int64) (*todo.Todo, error) {
	for i := range m.todos {
		if m.todos[i].ID == id && m.todos[i].OwnerID == ownerID {
			t := m.todos[i]
			return &t, nil
		}
	}
	return nil, todo.ErrNotFound
}

func (m *memTodoStore) UpdateTitle(_ context.Context, ownerID, id int64, title string) (*todo.Todo, error) {
	for i := range m.todos {
		if m.todos[i].ID == id && m.todos[i].OwnerID == ownerID {
			m.todos[i].Title = title
			t := m.todos[i]
			return &t, nil
		}
	}
	return nil, todo.ErrNotFound
}

func (m *memTodoStore) Delete(_ context.Context, ownerID, id int64) error {
	for i := range m.todos {
		if m.todos[i].ID == id && m.todos[i].OwnerID == ownerID {
			m.todos = append(m.todos[:i], m.todos[i+1:]...)
			return nil
		}
	}
	return todo.ErrNotFound
}

func (m *memTodoStore) DeleteManyByID(_ context.Context, ownerID int64, ids []int64) (int64, error) {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var kept []todo.Todo
	var deleted int64
	for _, t := range m.todos {
		if t.OwnerID == ownerID && wanted[t.ID] {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	m.todos = kept
	return deleted, nil
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: "8080",
			Env:  "prod", // no swagger in tests
		},
		Auth: config.AuthConfig{
			Secret:    []byte("router-test-secret"),
			Algorithm: "HS256",
			TokenTTL:  30 * time.Minute,
		},
	}

	userRepo := &memUserRepo{users: make(map[string]*user.User)}
	todoStore := &memTodoStore{}

	tokenService, err := auth.NewJWTService(cfg.Auth.Secret, cfg.Auth.Algorithm)
	require.NoError(t, err)

	authService := auth.NewService(userRepo, tokenService, cfg.Auth.TokenTTL)
	todoService := todo.NewService(todoStore)

	logger := logging.NewLogger(false)

	return NewRouter(
		cfg,
		auth.NewHandler(authService),
		todo.NewHandler(todoService),
		auth.NewMiddleware(tokenService, userRepo),
		logger,
	)
}

func doJSON(t *testing.T, app http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_TodosRequireAuth(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, http.MethodGet, "/todos", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, app, http.MethodPost, "/todos", "", `{"title":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestRouter_FullFlow walks the whole lifecycle: register, login with a
// wrong then a right password, create, read, delete, read again.
func TestRouter_FullFlow(t *testing.T) {
	app := newTestApp(t)

	// Register Alice
	rec := doJSON(t, app, http.MethodPost, "/auth/register", "", `{"name":"Alice","email":"a@x.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.Positive(t, registered.ID)
	assert.Equal(t, "Alice", registered.Name)
	assert.NotContains(t, rec.Body.String(), "password")

	// Duplicate registration is rejected
	rec = doJSON(t, app, http.MethodPost, "/auth/register", "", `{"name":"Alice","email":"a@x.com","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Wrong password
	rec = doJSON(t, app, http.MethodPost, "/auth/login", "", `{"email":"a@x.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Right password
	rec = doJSON(t, app, http.MethodPost, "/auth/login", "", `{"email":"a@x.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	assert.Equal(t, "bearer", tokens.TokenType)
	require.NotEmpty(t, tokens.AccessToken)

	// Create a todo
	rec = doJSON(t, app, http.MethodPost, "/todos", tokens.AccessToken, `{"title":"buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		OwnerID int64  `json:"owner_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "buy milk", created.Title)
	assert.Equal(t, registered.ID, created.OwnerID)

	todoPath := fmt.Sprintf("/todos/%d", created.ID)

	// Read it back
	rec = doJSON(t, app, http.MethodGet, todoPath, tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Delete it
	rec = doJSON(t, app, http.MethodDelete, todoPath, tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Gone now
	rec = doJSON(t, app, http.MethodGet, todoPath, tokens.AccessToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestRouter_CrossUserIsolation checks that a valid token for one user
// never reaches another user's records.
func TestRouter_CrossUserIsolation(t *testing.T) {
	app := newTestApp(t)

	login := func(name, email string) string {
		rec := doJSON(t, app, http.MethodPost, "/auth/register", "", fmt.Sprintf(`{"name":%q,"email":%q,"password":"password123"}`, name, email))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = doJSON(t, app, http.MethodPost, "/auth/login", "", fmt.Sprintf(`{"email":%q,"password":"password123"}`, email))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var tokens struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
		return tokens.AccessToken
	}

	aliceToken := login("Alice", "a@x.com")
	bobToken := login("Bob", "b@x.com")

	rec := doJSON(t, app, http.MethodPost, "/todos", aliceToken, `{"title":"alice's secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	todoPath := fmt.Sprintf("/todos/%d", created.ID)

	// Bob cannot see, update or delete Alice's todo
	rec = doJSON(t, app, http.MethodGet, todoPath, bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, app, http.MethodPut, todoPath, bobToken, `{"title":"hijacked"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, app, http.MethodDelete, todoPath, bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, app, http.MethodGet, "/todos", bobToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	// Alice still sees her todo
	rec = doJSON(t, app, http.MethodGet, todoPath, aliceToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
