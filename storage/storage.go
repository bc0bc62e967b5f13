// Package storage provides Storage backends for the configuration store:
// PostgreSQL, SQLite and an in-memory map.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CreativeUnicorns/configstore"
)

// sqlOpenFunc is a package-level variable that can be overridden for testing.
var sqlOpenFunc = sql.Open

// queries holds the dialect-specific statements used by sqlStorage.
// Placeholder order: selectRow/selectID/(key); insert/(key, name, data, create, update);
// updateData/(data, update, key); describe/(name, desc, update, key).
type queries struct {
	createTable string
	selectRow   string
	selectID    string
	selectAll   string
	insert      string
	updateData  string
	describe    string
}

// sqlStorage implements configstore.Storage over database/sql.
// Each call is its own unit of work and returns rows that no longer reference it.
type sqlStorage struct {
	db     *sql.DB
	q      queries
	name   string
	ownsDB bool
}

func (s *sqlStorage) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.q.createTable); err != nil {
		return fmt.Errorf("%s: failed to create system_config table: %w", s.name, err)
	}
	return nil
}

// Read returns the row stored under key, or configstore.ErrNotFound.
func (s *sqlStorage) Read(ctx context.Context, key string) (*configstore.ConfigModel, error) {
	row, err := scanRow(s.db.QueryRowContext(ctx, s.q.selectRow, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, configstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read configuration '%s': %w", s.name, key, err)
	}
	return row, nil
}

// Save inserts a new row named after key, or updates only the data of the
// existing row, inside a single transaction.
func (s *sqlStorage) Save(ctx context.Context, key, data string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction for '%s': %w", s.name, key, err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after Commit
	}()

	now := time.Now().UTC()
	var id int64
	err = tx.QueryRowContext(ctx, s.q.selectID, key).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, s.q.insert, key, key, data, now, now); err != nil {
			return fmt.Errorf("%s: failed to insert configuration '%s': %w", s.name, key, err)
		}
	case err != nil:
		return fmt.Errorf("%s: failed to look up configuration '%s': %w", s.name, key, err)
	default:
		if _, err := tx.ExecContext(ctx, s.q.updateData, data, now, key); err != nil {
			return fmt.Errorf("%s: failed to update configuration '%s': %w", s.name, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit configuration '%s': %w", s.name, key, err)
	}
	return nil
}

// List returns every row ordered by key.
func (s *sqlStorage) List(ctx context.Context) ([]*configstore.ConfigModel, error) {
	rows, err := s.db.QueryContext(ctx, s.q.selectAll)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query configurations: %w", s.name, err)
	}
	defer rows.Close()

	var out []*configstore.ConfigModel
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan configuration row: %w", s.name, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: error iterating configuration rows: %w", s.name, err)
	}
	return out, nil
}

// Describe updates name and desc of an existing row.
// It returns configstore.ErrNotFound if no row has the key.
func (s *sqlStorage) Describe(ctx context.Context, key, name, desc string) error {
	result, err := s.db.ExecContext(ctx, s.q.describe, name, desc, time.Now().UTC(), key)
	if err != nil {
		return fmt.Errorf("%s: failed to describe configuration '%s': %w", s.name, key, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows for '%s': %w", s.name, key, err)
	}
	if n == 0 {
		return configstore.ErrNotFound
	}
	return nil
}

// Handle returns the *sql.DB, so every storage over one pool shares a Store.
func (s *sqlStorage) Handle() any {
	return s.db
}

// Close closes the database if this storage opened it.
func (s *sqlStorage) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(r rowScanner) (*configstore.ConfigModel, error) {
	var row configstore.ConfigModel
	err := r.Scan(
		&row.ID,
		&row.Key,
		&row.Name,
		&row.Desc,
		&row.Data,
		&row.CreateTime,
		&row.UpdateTime,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}
