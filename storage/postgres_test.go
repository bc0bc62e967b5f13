package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/configstore"
)

var configColumns = []string{"id", "key", "name", "desc", "data", "create_time", "update_time"}

func newMockPostgres(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresStorage{sqlStorage{db: db, q: postgresQueries, name: "postgres", ownsDB: true}}, mock
}

// TestNewPostgresStorage tests the NewPostgresStorage constructor.
func TestNewPostgresStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing()
		mock.ExpectExec(regexp.QuoteMeta(createTableSQL)).WillReturnResult(sqlmock.NewResult(0, 0))

		originalSqlOpen := sqlOpenFunc
		sqlOpenFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			assert.Equal(t, "postgres", driverName)
			return db, nil
		}
		defer func() { sqlOpenFunc = originalSqlOpen }()

		storage, err := NewPostgresStorage(ctx, "dummy_conn_string")
		assert.NoError(t, err)
		assert.NotNil(t, storage)
		assert.Same(t, db, storage.Handle())
		assert.NoError(t, mock.ExpectationsWereMet(), "sqlmock expectations not met")
	})

	t.Run("sql open error", func(t *testing.T) {
		expectedErr := errors.New("failed to open database")
		originalSqlOpen := sqlOpenFunc
		sqlOpenFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			return nil, expectedErr
		}
		defer func() { sqlOpenFunc = originalSqlOpen }()

		_, err := NewPostgresStorage(ctx, "dummy_conn_string")
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("ping error", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing().WillReturnError(errors.New("ping failed"))
		mock.ExpectClose()

		originalSqlOpen := sqlOpenFunc
		sqlOpenFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			return db, nil
		}
		defer func() { sqlOpenFunc = originalSqlOpen }()

		_, err = NewPostgresStorage(ctx, "dummy_conn_string")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "postgres: failed to ping database")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("migration error", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing()
		mock.ExpectExec(regexp.QuoteMeta(createTableSQL)).WillReturnError(errors.New("permission denied"))
		mock.ExpectClose()

		originalSqlOpen := sqlOpenFunc
		sqlOpenFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			return db, nil
		}
		defer func() { sqlOpenFunc = originalSqlOpen }()

		_, err = NewPostgresStorage(ctx, "dummy_conn_string")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create system_config table")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewPostgresStorageFromDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(createTableSQL)).WillReturnResult(sqlmock.NewResult(0, 0))

	storage, err := NewPostgresStorageFromDB(context.Background(), db)
	require.NoError(t, err)
	// the caller owns db
	require.NoError(t, storage.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_Read(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("found", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs("site").
			WillReturnRows(sqlmock.NewRows(configColumns).AddRow(3, "site", "Site", "desc", `{"name":"a"}`, now, now))

		row, err := storage.Read(ctx, "site")
		require.NoError(t, err)
		assert.Equal(t, &configstore.ConfigModel{
			ID: 3, Key: "site", Name: "Site", Desc: "desc", Data: `{"name":"a"}`, CreateTime: now, UpdateTime: now,
		}, row)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(configColumns))

		_, err := storage.Read(ctx, "missing")
		assert.ErrorIs(t, err, configstore.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		dbErr := errors.New("connection reset")
		mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).WithArgs("site").WillReturnError(dbErr)

		_, err := storage.Read(ctx, "site")
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "postgres: failed to read configuration 'site'")
	})
}

func TestPostgresStorage_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("insert new row", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectIDSQL)).WithArgs("site").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
			WithArgs("site", "site", "v1", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, storage.Save(ctx, "site", "v1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update existing row", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectIDSQL)).WithArgs("site").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec(regexp.QuoteMeta(updateDataSQL)).
			WithArgs("v2", sqlmock.AnyArg(), "site").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, storage.Save(ctx, "site", "v2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert error rolls back", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectIDSQL)).WithArgs("site").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec(regexp.QuoteMeta(insertSQL)).WillReturnError(errors.New("duplicate key"))
		mock.ExpectRollback()

		err := storage.Save(ctx, "site", "v1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "postgres: failed to insert configuration 'site'")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lookup error rolls back", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectIDSQL)).WithArgs("site").WillReturnError(errors.New("timeout"))
		mock.ExpectRollback()

		err := storage.Save(ctx, "site", "v1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to look up configuration")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := storage.Save(ctx, "site", "v1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
	})

	t.Run("commit error", func(t *testing.T) {
		storage, mock := newMockPostgres(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(selectIDSQL)).WithArgs("site").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec(regexp.QuoteMeta(updateDataSQL)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := storage.Save(ctx, "site", "v1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit configuration")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStorage_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	storage, mock := newMockPostgres(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).
		WillReturnRows(sqlmock.NewRows(configColumns).
			AddRow(2, "a", "a", "", "1", now, now).
			AddRow(1, "b", "B", "second", "2", now, now))

	rows, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Key)
	assert.Equal(t, "second", rows[1].Desc)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).WillReturnError(errors.New("boom"))
	_, err = storage.List(ctx)
	assert.Error(t, err)
}

func TestPostgresStorage_Describe(t *testing.T) {
	ctx := context.Background()
	storage, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(describeSQL)).
		WithArgs("Site", "public info", sqlmock.AnyArg(), "site").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, storage.Describe(ctx, "site", "Site", "public info"))

	mock.ExpectExec(regexp.QuoteMeta(describeSQL)).
		WithArgs("n", "d", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, storage.Describe(ctx, "missing", "n", "d"), configstore.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
