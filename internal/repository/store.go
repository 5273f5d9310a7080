package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"acgl-management-api/internal/model"
)

// Custom errors for better error handling
var (
	ErrRecordNotFound = errors.New("record not found")
)

// EntityStore is the persistence contract for one record collection. Every
// entity in the registry is served by the same implementation, parameterized
// by its schema.
type EntityStore interface {
	List(ctx context.Context) ([]model.Record, error)
	GetByID(ctx context.Context, id int64) (*model.Record, error)
	Insert(ctx context.Context, rec model.Record) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]string) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]model.Record, error)
	Count(ctx context.Context) (int, error)
}

// tableStore is the concrete implementation of EntityStore over one SQLite
// table. All statements are built once from the schema at construction; the
// per-operation code is entirely generic.
type tableStore struct {
	db     *sql.DB
	schema model.Schema

	listQuery   string
	getQuery    string
	insertQuery string
	updateQuery string
	deleteQuery string
	searchQuery string
	countQuery  string
}

// NewEntityStore creates an EntityStore bound to the schema's table.
func NewEntityStore(db *sql.DB, schema model.Schema) EntityStore {
	cols := schema.Columns()
	allCols := "id, sr_number, " + strings.Join(cols, ", ") + ", created_by, created_at, updated_at"

	placeholders := make([]string, len(cols))
	setClauses := make([]string, len(cols))
	likeClauses := make([]string, 0, len(cols)+1)
	likeClauses = append(likeClauses, `CAST(sr_number AS TEXT) LIKE ? ESCAPE '\'`)
	for i, c := range cols {
		placeholders[i] = "?"
		setClauses[i] = c + " = ?"
		likeClauses = append(likeClauses, c+` LIKE ? ESCAPE '\'`)
	}

	return &tableStore{
		db:     db,
		schema: schema,

		listQuery: fmt.Sprintf("SELECT %s FROM %s ORDER BY id DESC", allCols, schema.Name),
		getQuery:  fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", allCols, schema.Name),
		// sr_number is assigned inside the INSERT so two concurrent creates
		// can never observe the same count.
		insertQuery: fmt.Sprintf(
			"INSERT INTO %s (sr_number, %s, created_by, created_at, updated_at) VALUES ((SELECT COALESCE(MAX(sr_number), 0) + 1 FROM %s), %s, ?, ?, ?)",
			schema.Name, strings.Join(cols, ", "), schema.Name, strings.Join(placeholders, ", ")),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s, updated_at = ? WHERE id = ?",
			schema.Name, strings.Join(setClauses, ", ")),
		deleteQuery: fmt.Sprintf("DELETE FROM %s WHERE id = ?", schema.Name),
		searchQuery: fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY id DESC",
			allCols, schema.Name, strings.Join(likeClauses, " OR ")),
		countQuery: fmt.Sprintf("SELECT COUNT(*) FROM %s", schema.Name),
	}
}

// List retrieves every record in the collection, newest first.
func (s *tableStore) List(ctx context.Context) ([]model.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.schema.Name, err)
	}
	defer rows.Close()

	return s.collectRows(rows)
}

// GetByID retrieves a single record.
func (s *tableStore) GetByID(ctx context.Context, id int64) (*model.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := s.db.QueryRowContext(ctx, s.getQuery, id)
	rec, err := s.scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get %s record: %w", s.schema.Name, err)
	}
	return rec, nil
}

// Insert adds a new record and returns its assigned id. The sr_number is
// computed atomically by the statement itself.
func (s *tableStore) Insert(ctx context.Context, rec model.Record) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	args := make([]interface{}, 0, len(s.schema.Fields)+3)
	for _, f := range s.schema.Fields {
		args = append(args, rec.Field(f.Name))
	}
	args = append(args, rec.CreatedBy, now, now)

	result, err := s.db.ExecContext(ctx, s.insertQuery, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s record: %w", s.schema.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	return id, nil
}

// Update replaces the entity-specific fields of a record in place. id,
// sr_number, created_by and created_at are never touched.
func (s *tableStore) Update(ctx context.Context, id int64, fields map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	args := make([]interface{}, 0, len(s.schema.Fields)+2)
	for _, f := range s.schema.Fields {
		args = append(args, fields[f.Name])
	}
	args = append(args, time.Now().UTC(), id)

	result, err := s.db.ExecContext(ctx, s.updateQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s record: %w", s.schema.Name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete removes a record from the collection.
func (s *tableStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.ExecContext(ctx, s.deleteQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", s.schema.Name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Search returns the records whose any field contains the term. SQLite LIKE
// is case-insensitive for ASCII, matching the dashboard's filter behavior.
func (s *tableStore) Search(ctx context.Context, term string) ([]model.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pattern := "%" + escapeLike(term) + "%"
	args := make([]interface{}, len(s.schema.Fields)+1)
	for i := range args {
		args[i] = pattern
	}

	rows, err := s.db.QueryContext(ctx, s.searchQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", s.schema.Name, err)
	}
	defer rows.Close()

	return s.collectRows(rows)
}

// Count returns the collection size for the dashboard badges.
func (s *tableStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count int
	if err := s.db.QueryRowContext(ctx, s.countQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.schema.Name, err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan path.
type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *tableStore) scanRecord(row scanner) (*model.Record, error) {
	var rec model.Record
	var createdBy sql.NullString
	values := make([]sql.NullString, len(s.schema.Fields))

	dests := make([]interface{}, 0, len(s.schema.Fields)+5)
	dests = append(dests, &rec.ID, &rec.SrNumber)
	for i := range values {
		dests = append(dests, &values[i])
	}
	dests = append(dests, &createdBy, &rec.CreatedAt, &rec.UpdatedAt)

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	rec.CreatedBy = createdBy.String
	rec.Fields = make(map[string]string, len(s.schema.Fields))
	for i, f := range s.schema.Fields {
		rec.Fields[f.Name] = values[i].String
	}
	return &rec, nil
}

func (s *tableStore) collectRows(rows *sql.Rows) ([]model.Record, error) {
	var records []model.Record
	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", s.schema.Name, err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

// escapeLike escapes LIKE wildcards in user-supplied search terms so a term
// matches literally.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	return strings.ReplaceAll(term, "_", `\_`)
}
