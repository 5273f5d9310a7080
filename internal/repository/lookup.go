package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"acgl-management-api/internal/model"
)

// LookupStore serves the dropdown source tables (plants, departments).
type LookupStore interface {
	Plants(ctx context.Context) ([]model.Lookup, error)
	Departments(ctx context.Context) ([]model.Lookup, error)
}

type lookupStore struct {
	db *sql.DB
}

// NewLookupStore creates a new LookupStore.
func NewLookupStore(db *sql.DB) LookupStore {
	return &lookupStore{db: db}
}

func (s *lookupStore) Plants(ctx context.Context) ([]model.Lookup, error) {
	return s.list(ctx, "plants")
}

func (s *lookupStore) Departments(ctx context.Context) ([]model.Lookup, error) {
	return s.list(ctx, "departments")
}

func (s *lookupStore) list(ctx context.Context, table string) ([]model.Lookup, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, name FROM %s ORDER BY id", table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var items []model.Lookup
	for rows.Next() {
		var item model.Lookup
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}
