// Package storage provides a SQLite-based implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	sqliteCreateTableSQL = `
		CREATE TABLE IF NOT EXISTS system_config (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			"key" TEXT NOT NULL,
			name TEXT NOT NULL,
			"desc" TEXT NOT NULL DEFAULT '',
			data TEXT NOT NULL,
			create_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			update_time TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS ix_system_config_key
		ON system_config ("key");
	`

	sqliteSelectSQL = `
		SELECT id, "key", name, "desc", data, create_time, update_time
		FROM system_config
		WHERE "key" = ?
	`

	sqliteSelectIDSQL = `SELECT id FROM system_config WHERE "key" = ?`

	sqliteSelectAllSQL = `
		SELECT id, "key", name, "desc", data, create_time, update_time
		FROM system_config
		ORDER BY "key"
	`

	sqliteInsertSQL = `
		INSERT INTO system_config ("key", name, data, create_time, update_time)
		VALUES (?, ?, ?, ?, ?)
	`

	sqliteUpdateDataSQL = `UPDATE system_config SET data = ?, update_time = ? WHERE "key" = ?`

	sqliteDescribeSQL = `UPDATE system_config SET name = ?, "desc" = ?, update_time = ? WHERE "key" = ?`
)

var sqliteQueries = queries{
	createTable: sqliteCreateTableSQL,
	selectRow:   sqliteSelectSQL,
	selectID:    sqliteSelectIDSQL,
	selectAll:   sqliteSelectAllSQL,
	insert:      sqliteInsertSQL,
	updateData:  sqliteUpdateDataSQL,
	describe:    sqliteDescribeSQL,
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	sqlStorage
}

// NewSQLiteStorage opens the SQLite database at dbPath and creates the
// system_config table if needed.
func NewSQLiteStorage(ctx context.Context, dbPath string) (*SQLiteStorage, error) {
	db, err := sqlOpenFunc("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	s := &SQLiteStorage{sqlStorage{db: db, q: sqliteQueries, name: "sqlite", ownsDB: true}}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStorageFromDB wraps an existing handle. The caller keeps ownership of db.
func NewSQLiteStorageFromDB(ctx context.Context, db *sql.DB) (*SQLiteStorage, error) {
	s := &SQLiteStorage{sqlStorage{db: db, q: sqliteQueries, name: "sqlite"}}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
