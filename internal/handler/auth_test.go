package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acgl-management-api/internal/model"
	"acgl-management-api/internal/session"
	apperrors "acgl-management-api/pkg/errors"
)

// mockAuthService implements AuthService with overridable function fields.
type mockAuthService struct {
	LoginFunc  func(ctx context.Context, username, password string) (*model.User, string, error)
	CheckFunc  func(token string) (session.Marker, error)
	LogoutFunc func(token string)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	return m.LoginFunc(ctx, username, password)
}

func (m *mockAuthService) Check(token string) (session.Marker, error) {
	return m.CheckFunc(token)
}

func (m *mockAuthService) Logout(token string) {
	if m.LogoutFunc != nil {
		m.LogoutFunc(token)
	}
}

func TestLoginHandler(t *testing.T) {
	svc := &mockAuthService{
		LoginFunc: func(ctx context.Context, username, password string) (*model.User, string, error) {
			assert.Equal(t, "admin", username)
			assert.Equal(t, "admin123", password)
			user := &model.User{ID: 1, Username: "admin", Password: "admin123", Role: model.RoleAdmin}
			return user, "token-123", nil
		},
	}
	h := NewAuthHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"username":"admin","password":"admin123"}`))
	w := httptest.NewRecorder()

	h.LoginHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "token-123", body["token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "admin", user["role"])
	// Passwords never appear in responses.
	_, present := user["password"]
	assert.False(t, present)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		LoginFunc: func(ctx context.Context, username, password string) (*model.User, string, error) {
			return nil, "", apperrors.UnauthorizedError("invalid credentials")
		},
	}
	h := NewAuthHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"username":"admin","password":"wrong"}`))
	w := httptest.NewRecorder()

	h.LoginHandler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "invalid credentials", body["error"])
}

func TestLoginHandler_InvalidJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{bad`))
	w := httptest.NewRecorder()

	h.LoginHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutHandler(t *testing.T) {
	var cleared string
	svc := &mockAuthService{
		LogoutFunc: func(token string) { cleared = token },
	}
	h := NewAuthHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	w := httptest.NewRecorder()

	h.LogoutHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "token-123", cleared)
}

func TestLogoutHandler_WithoutToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	w := httptest.NewRecorder()

	h.LogoutHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}

func TestSessionHandler(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	svc := &mockAuthService{
		CheckFunc: func(token string) (session.Marker, error) {
			assert.Equal(t, "token-123", token)
			return session.Marker{Username: "deepak", Role: model.RoleDeepak, CreatedAt: createdAt}, nil
		},
	}
	h := NewAuthHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	w := httptest.NewRecorder()

	h.SessionHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "deepak", body["username"])
	assert.Equal(t, "deepak", body["role"])
}

func TestSessionHandler_NoSession(t *testing.T) {
	svc := &mockAuthService{
		CheckFunc: func(token string) (session.Marker, error) {
			return session.Marker{}, apperrors.UnauthorizedError("no valid session")
		},
	}
	h := NewAuthHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	w := httptest.NewRecorder()

	h.SessionHandler(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
