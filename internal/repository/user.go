package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"acgl-management-api/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore looks up dashboard accounts for login.
type UserStore interface {
	GetByCredentials(ctx context.Context, username, password string) (*model.User, error)
}

type userStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *sql.DB) UserStore {
	return &userStore{db: db}
}

// GetByCredentials matches a username/password pair against the users table.
// Passwords are compared exactly as stored.
func (s *userStore) GetByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT id, username, role, created_at FROM users WHERE username = ? AND password = ?`

	var user model.User
	var role string
	row := s.db.QueryRowContext(ctx, query, username, password)
	if err := row.Scan(&user.ID, &user.Username, &role, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	user.Role = model.Role(role)

	return &user, nil
}
