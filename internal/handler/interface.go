package handler

import (
	"context"

	"acgl-management-api/internal/model"
	"acgl-management-api/internal/service"
	"acgl-management-api/internal/session"
)

// InventoryService is the entity-manager contract the handlers depend on.
// Declared here so handler tests can substitute mocks without touching the
// service package.
type InventoryService interface {
	Create(ctx context.Context, entity, actor string, fields map[string]string) (*model.Record, error)
	Get(ctx context.Context, entity string, id int64) (*model.Record, error)
	Update(ctx context.Context, entity string, id int64, fields map[string]string) (*model.Record, error)
	Delete(ctx context.Context, entity string, id int64, role model.Role) error
	List(ctx context.Context, entity string) ([]model.Record, error)
	Search(ctx context.Context, entity, term string) ([]model.Record, error)
	Stats(ctx context.Context) (map[string]int, error)
}

// AuthService is the session-gate contract the handlers depend on.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Check(token string) (session.Marker, error)
	Logout(token string)
}

// Ensure the concrete services satisfy the handler contracts at compile time
var (
	_ InventoryService = (*service.Inventory)(nil)
	_ AuthService      = (*service.Auth)(nil)
)
