package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var DB *sql.DB

// InitDatabase opens the SQLite database at dbPath into DB and creates tables
func InitDatabase(dbPath string, logger *zap.Logger) error {
	database, err := Open(dbPath)
	if err != nil {
		return err
	}
	DB = database

	logger.Info("Database initialized", zap.String("path", dbPath))
	return nil
}

// Open opens a SQLite database and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer; an in-memory database also lives on one connection
	database.SetMaxOpenConns(1)

	// Test connection
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return database, nil
}

// createTables creates all necessary tables
func createTables(database *sql.DB) error {
	statements := []struct {
		name  string
		query string
	}{
		{"workshop_registrations", `
	CREATE TABLE IF NOT EXISTS workshop_registrations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		role TEXT NOT NULL,
		secondary_role TEXT,
		experience TEXT,
		availability TEXT,
		message TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`},
		{"idx_registrations_created_at", `CREATE INDEX IF NOT EXISTS idx_registrations_created_at ON workshop_registrations(created_at);`},

		// Scaffolding tables; nothing reads or writes them yet
		{"users", `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	);`},
		{"presentations", `
	CREATE TABLE IF NOT EXISTS presentations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`},
		{"slides", `
	CREATE TABLE IF NOT EXISTS slides (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		presentation_id INTEGER NOT NULL REFERENCES presentations(id),
		slide_order INTEGER NOT NULL,
		title TEXT NOT NULL,
		content TEXT
	);`},
		{"visual_elements", `
	CREATE TABLE IF NOT EXISTS visual_elements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slide_id INTEGER NOT NULL REFERENCES slides(id),
		element_type TEXT NOT NULL,
		properties TEXT
	);`},
	}

	for _, stmt := range statements {
		if _, err := database.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
