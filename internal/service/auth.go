package service

import (
	"context"
	"log"
	"strings"

	"acgl-management-api/internal/model"
	"acgl-management-api/internal/repository"
	"acgl-management-api/internal/session"
	"acgl-management-api/pkg/errors"
)

// Auth handles login, logout and session checks against the fixed set of
// dashboard accounts.
type Auth struct {
	users    repository.UserStore
	sessions *session.Store
	logger   *log.Logger
}

// NewAuth creates a new Auth service.
func NewAuth(users repository.UserStore, sessions *session.Store, logger *log.Logger) *Auth {
	if logger == nil {
		logger = log.Default()
	}
	return &Auth{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Login checks credentials and issues a session token on success.
func (a *Auth) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", errors.BadRequestError("username and password are required")
	}

	user, err := a.users.GetByCredentials(ctx, username, password)
	if err != nil {
		if err == repository.ErrInvalidCredentials {
			a.logger.Printf("Failed login attempt for %q", username)
			return nil, "", errors.UnauthorizedError("invalid credentials")
		}
		return nil, "", errors.DatabaseError("failed to look up user", err)
	}

	token, _ := a.sessions.Create(user.Username, user.Role)
	a.logger.Printf("User %s logged in (role=%s)", user.Username, user.Role)
	return user, token, nil
}

// Check validates a session token and returns its marker. Expired or unknown
// tokens report no session.
func (a *Auth) Check(token string) (session.Marker, error) {
	marker, err := a.sessions.Check(token)
	if err != nil {
		return session.Marker{}, errors.UnauthorizedError("no valid session")
	}
	return marker, nil
}

// Logout clears the session marker for a token.
func (a *Auth) Logout(token string) {
	a.sessions.Clear(token)
}
