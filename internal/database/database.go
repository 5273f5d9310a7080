package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"acgl-management-api/internal/config"
	"acgl-management-api/internal/model"
)

// InitDB opens the SQLite database and ensures the schema and seed data
// exist. SQLite serializes statements itself; the connection limit keeps a
// single writer from tripping over file locks.
func InitDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Bootstrap(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Bootstrap creates every table and inserts the fixed seed rows when the
// tables are empty. Safe to run repeatedly.
func Bootstrap(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('admin', 'deepak', 'shivaji')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS plants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS departments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		)`,
	}
	for _, schema := range model.Registry {
		statements = append(statements, entityTableDDL(schema))
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedLookup(db, "plants", []string{"Plant A", "Plant B", "Plant C"}); err != nil {
		return err
	}
	return seedLookup(db, "departments", []string{"IT Department", "HR Department", "Finance Department"})
}

// entityTableDDL derives the CREATE TABLE statement for an entity from its
// schema, the same configuration the store builds its statements from.
func entityTableDDL(schema model.Schema) string {
	cols := []string{
		"id INTEGER PRIMARY KEY AUTOINCREMENT",
		"sr_number INTEGER NOT NULL",
	}
	for _, f := range schema.Fields {
		col := f.Name + " TEXT"
		if f.Flag {
			col = f.Name + " INTEGER DEFAULT 0"
		}
		if f.Required {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	cols = append(cols,
		"created_by TEXT",
		"created_at DATETIME NOT NULL",
		"updated_at DATETIME NOT NULL",
	)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", schema.Name, strings.Join(cols, ", "))
}

// seedUsers inserts the three fixed dashboard accounts. Passwords are stored
// as given.
func seedUsers(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("failed to check users: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := [][3]string{
		{"admin", "admin123", string(model.RoleAdmin)},
		{"deepak", "deepak123", string(model.RoleDeepak)},
		{"shivaji", "shivaji123", string(model.RoleShivaji)},
	}
	for _, u := range defaults {
		if _, err := db.Exec("INSERT INTO users (username, password, role) VALUES (?, ?, ?)", u[0], u[1], u[2]); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u[0], err)
		}
	}
	return nil
}

func seedLookup(db *sql.DB, table string, names []string) error {
	var count int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return fmt.Errorf("failed to check %s: %w", table, err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range names {
		if _, err := db.Exec(fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", table), name); err != nil {
			return fmt.Errorf("failed to seed %s: %w", table, err)
		}
	}
	return nil
}
