package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonk9218/gomarket/internal/models"
	"github.com/antonk9218/gomarket/internal/server/auth"
	"github.com/antonk9218/gomarket/internal/server/handlers"
	"github.com/antonk9218/gomarket/internal/server/storage"
)

// mockUserStorage - хранилище пользователей в памяти для тестов middleware
type mockUserStorage struct {
	users map[string]*models.User // email -> user
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.Email]; ok {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockUserStorage) UpdateUser(_ context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) DeleteUser(_ context.Context, id string) error {
	for email, user := range m.users {
		if user.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupGuard(t *testing.T) (*auth.Guard, *auth.Codec, *mockUserStorage) {
	t.Helper()

	logger := setupTestLogger()
	codec := auth.NewCodec("test-secret-key", 15*time.Minute)
	users := newMockUserStorage()

	return auth.NewGuard(logger, users, codec), codec, users
}

func TestAuthMiddleware_Success(t *testing.T) {
	guard, codec, users := setupGuard(t)

	user := &models.User{
		ID:    "user-1",
		Email: "alice@example.com",
		Role:  models.RoleOrdinaryUser,
	}
	require.NoError(t, users.CreateUser(context.Background(), user))

	token, err := codec.Issue(user.Email, time.Now())
	require.NoError(t, err)

	authMiddleware := AuthMiddleware(setupTestLogger(), guard)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := handlers.UserFromContext(r.Context())
		require.NotNil(t, got, "user should be in context")
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	wrappedHandler := authMiddleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	guard, _, _ := setupGuard(t)
	authMiddleware := AuthMiddleware(setupTestLogger(), guard)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	})
	wrappedHandler := authMiddleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	// No Authorization header

	w := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing token")
}

func TestAuthMiddleware_InvalidAuthHeaderFormat(t *testing.T) {
	guard, _, _ := setupGuard(t)
	authMiddleware := AuthMiddleware(setupTestLogger(), guard)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	})
	wrappedHandler := authMiddleware(handler)

	tests := []struct {
		name   string
		header string
	}{
		{
			name:   "no Bearer prefix",
			header: "token123",
		},
		{
			name:   "wrong scheme",
			header: "Basic token123",
		},
		{
			name:   "only Bearer",
			header: "Bearer",
		},
		{
			name:   "Bearer with empty token",
			header: "Bearer ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.header)

			w := httptest.NewRecorder()
			wrappedHandler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "missing token")
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	guard, _, _ := setupGuard(t)
	authMiddleware := AuthMiddleware(setupTestLogger(), guard)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	})
	wrappedHandler := authMiddleware(handler)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "random string",
			token: "randomstring123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)

			w := httptest.NewRecorder()
			wrappedHandler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "invalid token")
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	guard, codec, users := setupGuard(t)

	user := &models.User{ID: "user-1", Email: "alice@example.com", Role: models.RoleOrdinaryUser}
	require.NoError(t, users.CreateUser(context.Background(), user))

	// Токен выпущен так давно, что его TTL уже прошел
	token, err := codec.Issue(user.Email, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	authMiddleware := AuthMiddleware(setupTestLogger(), guard)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	})
	wrappedHandler := authMiddleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthMiddleware_TokenWithWrongSecret(t *testing.T) {
	guard, _, users := setupGuard(t)

	user := &models.User{ID: "user-1", Email: "alice@example.com", Role: models.RoleOrdinaryUser}
	require.NoError(t, users.CreateUser(context.Background(), user))

	// Токен подписан другим ключом
	otherCodec := auth.NewCodec("other-secret-key", 15*time.Minute)
	token, err := otherCodec.Issue(user.Email, time.Now())
	require.NoError(t, err)

	authMiddleware := AuthMiddleware(setupTestLogger(), guard)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	})
	wrappedHandler := authMiddleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	guard, codec, _ := setupGuard(t)

	// Токен валиден, но пользователя в хранилище нет
	token, err := codec.Issue("ghost@example.com", time.Now())
	require.NoError(t, err)

	authMiddleware := AuthMiddleware(setupTestLogger(), guard)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	})
	wrappedHandler := authMiddleware(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestRequireRoleMiddleware(t *testing.T) {
	logger := setupTestLogger()

	adminOnly := RequireRoleMiddleware(logger, models.RoleAdministrator)

	handler := adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("administrator passes", func(t *testing.T) {
		admin := &models.User{ID: "admin-1", Role: models.RoleAdministrator}
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		req = req.WithContext(context.WithValue(req.Context(), handlers.UserContextKey, admin))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ordinary user is forbidden", func(t *testing.T) {
		user := &models.User{ID: "user-1", Role: models.RoleOrdinaryUser}
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		req = req.WithContext(context.WithValue(req.Context(), handlers.UserContextKey, user))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no user in context is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
