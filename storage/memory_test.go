package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/configstore"
)

func TestMemoryStorage_ReadSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	_, err := s.Read(ctx, "site")
	assert.ErrorIs(t, err, configstore.ErrNotFound)

	require.NoError(t, s.Save(ctx, "site", "v1"))
	row, err := s.Read(ctx, "site")
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.ID)
	assert.Equal(t, "site", row.Name)
	assert.Equal(t, "v1", row.Data)
	created := row.CreateTime

	require.NoError(t, s.Describe(ctx, "site", "Site", "public site info"))
	require.NoError(t, s.Save(ctx, "site", "v2"))

	row, err = s.Read(ctx, "site")
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.ID)
	assert.Equal(t, "Site", row.Name, "updates only touch data")
	assert.Equal(t, "public site info", row.Desc)
	assert.Equal(t, "v2", row.Data)
	assert.Equal(t, created, row.CreateTime)
	assert.False(t, row.UpdateTime.Before(created))
}

func TestMemoryStorage_CopiesRows(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	require.NoError(t, s.Save(ctx, "k", "v"))

	row, err := s.Read(ctx, "k")
	require.NoError(t, err)
	row.Data = "changed"

	again, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", again.Data)
}

func TestMemoryStorage_ListDescribe(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	rows, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, s.Save(ctx, "b", "2"))
	require.NoError(t, s.Save(ctx, "a", "1"))

	rows, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Key)
	assert.Equal(t, int64(2), rows[0].ID)

	assert.ErrorIs(t, s.Describe(ctx, "zzz", "n", "d"), configstore.ErrNotFound)
	assert.Same(t, s, s.Handle())
	assert.NoError(t, s.Close())
}
