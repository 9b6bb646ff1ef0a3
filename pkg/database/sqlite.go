package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"skillsync-backend/pkg/logger"

	_ "modernc.org/sqlite"
)

// NewSQLiteConnection opens (creating if needed) the database file at path
// and brings its schema up to date.
func NewSQLiteConnection(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file:" + path + "?" + url.Values{
		"_pragma": []string{"foreign_keys(1)", "busy_timeout(5000)", "journal_mode(WAL)"},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open sqlite: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: ping sqlite: %w", err)
	}
	if err := runMigrations(ctx, db, "sqlite3", "migrations/sqlite"); err != nil {
		db.Close()
		return nil, err
	}

	logger.Log.Info("Database connection established", "driver", "sqlite")
	return db, nil
}
