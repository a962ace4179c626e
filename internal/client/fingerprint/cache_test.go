package fingerprint

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobportal/internal/client/storage"
	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCache(metadata.NewSQLiteRepository(db), logging.Discard())
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	assert.Equal(t, "", c.GetOrSet(ctx, ""), "empty cache")
	assert.Equal(t, "F1", c.GetOrSet(ctx, "F1"))
	assert.Equal(t, "F1", c.GetOrSet(ctx, ""), "empty server value keeps stored one")
	assert.Equal(t, "F2", c.GetOrSet(ctx, "F2"))
	assert.Equal(t, "F2", c.Get(ctx))
}

func TestHeadless(t *testing.T) {
	ctx := context.Background()
	c := NewHeadless()

	assert.Equal(t, Placeholder, c.GetOrSet(ctx, ""))
	assert.Equal(t, "F1", c.GetOrSet(ctx, "F1"))
	assert.Equal(t, Placeholder, c.GetOrSet(ctx, ""), "headless cache stores nothing")
	assert.Equal(t, "", c.Get(ctx))
}

func TestGetOrSet_StorageErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO metadata").WillReturnError(errors.New("readonly database"))
	mock.ExpectQuery("SELECT value FROM metadata").WillReturnError(errors.New("readonly database"))

	c := NewCache(metadata.NewSQLiteRepository(db), logging.Discard())
	ctx := context.Background()

	assert.Equal(t, "F1", c.GetOrSet(ctx, "F1"))
	assert.Equal(t, "", c.GetOrSet(ctx, ""))
	require.NoError(t, mock.ExpectationsWereMet())
}
