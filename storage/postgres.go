// Package storage provides a PostgreSQL-based implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS system_config (
			id BIGSERIAL PRIMARY KEY,
			"key" VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			"desc" VARCHAR(400) NOT NULL DEFAULT '',
			data TEXT NOT NULL,
			create_time TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			update_time TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS ix_system_config_key
		ON system_config ("key");
	`

	selectSQL = `
		SELECT id, "key", name, "desc", data, create_time, update_time
		FROM system_config
		WHERE "key" = $1
	`

	selectIDSQL = `SELECT id FROM system_config WHERE "key" = $1`

	selectAllSQL = `
		SELECT id, "key", name, "desc", data, create_time, update_time
		FROM system_config
		ORDER BY "key"
	`

	insertSQL = `
		INSERT INTO system_config ("key", name, data, create_time, update_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	updateDataSQL = `UPDATE system_config SET data = $1, update_time = $2 WHERE "key" = $3`

	describeSQL = `UPDATE system_config SET name = $1, "desc" = $2, update_time = $3 WHERE "key" = $4`
)

var postgresQueries = queries{
	createTable: createTableSQL,
	selectRow:   selectSQL,
	selectID:    selectIDSQL,
	selectAll:   selectAllSQL,
	insert:      insertSQL,
	updateData:  updateDataSQL,
	describe:    describeSQL,
}

// PostgresStorage implements the Storage interface using PostgreSQL.
type PostgresStorage struct {
	sqlStorage
}

// NewPostgresStorage connects to PostgreSQL using connString and creates the
// system_config table if needed. Close closes the connection pool.
func NewPostgresStorage(ctx context.Context, connString string) (*PostgresStorage, error) {
	db, err := sqlOpenFunc("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	s := &PostgresStorage{sqlStorage{db: db, q: postgresQueries, name: "postgres", ownsDB: true}}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStorageFromDB wraps an existing pool. The caller keeps ownership of db.
func NewPostgresStorageFromDB(ctx context.Context, db *sql.DB) (*PostgresStorage, error) {
	s := &PostgresStorage{sqlStorage{db: db, q: postgresQueries, name: "postgres"}}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
