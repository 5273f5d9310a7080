package service

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acgl-management-api/internal/model"
	"acgl-management-api/internal/repository"
	"acgl-management-api/internal/session"
	pkgerrors "acgl-management-api/pkg/errors"
)

// fakeUserStore serves the three seeded accounts without a database.
type fakeUserStore struct {
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{
		"admin":   {ID: 1, Username: "admin", Password: "admin123", Role: model.RoleAdmin, CreatedAt: time.Now()},
		"deepak":  {ID: 2, Username: "deepak", Password: "deepak123", Role: model.RoleDeepak, CreatedAt: time.Now()},
		"shivaji": {ID: 3, Username: "shivaji", Password: "shivaji123", Role: model.RoleShivaji, CreatedAt: time.Now()},
	}}
}

func (f *fakeUserStore) GetByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok || user.Password != password {
		return nil, repository.ErrInvalidCredentials
	}
	return &user, nil
}

func newTestAuth() *Auth {
	return NewAuth(newFakeUserStore(), session.NewStore(session.DefaultTTL), log.New(io.Discard, "", 0))
}

func TestAuth_Login(t *testing.T) {
	auth := newTestAuth()

	user, token, err := auth.Login(context.Background(), "admin", "admin123")

	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, model.RoleAdmin, user.Role)
	require.NotEmpty(t, token)

	marker, err := auth.Check(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", marker.Username)
	assert.Equal(t, model.RoleAdmin, marker.Role)
}

func TestAuth_Login_TrimsUsername(t *testing.T) {
	auth := newTestAuth()

	user, _, err := auth.Login(context.Background(), "  deepak  ", "deepak123")

	require.NoError(t, err)
	assert.Equal(t, "deepak", user.Username)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	auth := newTestAuth()

	_, _, err := auth.Login(context.Background(), "admin", "nope")

	require.Error(t, err)
	appErr, ok := pkgerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.ErrorCodeUnauthorized, appErr.Code)
}

func TestAuth_Login_MissingFields(t *testing.T) {
	auth := newTestAuth()

	for _, tc := range []struct{ username, password string }{
		{"", "admin123"},
		{"admin", ""},
		{"   ", "admin123"},
	} {
		_, _, err := auth.Login(context.Background(), tc.username, tc.password)
		require.Error(t, err)
		appErr, ok := pkgerrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, pkgerrors.ErrorCodeBadRequest, appErr.Code)
	}
}

func TestAuth_Check_UnknownToken(t *testing.T) {
	auth := newTestAuth()

	_, err := auth.Check("not-a-token")

	appErr, ok := pkgerrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.ErrorCodeUnauthorized, appErr.Code)
}

func TestAuth_Logout(t *testing.T) {
	auth := newTestAuth()

	_, token, err := auth.Login(context.Background(), "shivaji", "shivaji123")
	require.NoError(t, err)

	auth.Logout(token)

	_, err = auth.Check(token)
	require.Error(t, err)

	// Logging out again is a no-op.
	auth.Logout(token)
}
