package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/dashboard-backend/internal/database"
)

func newTestLocalStore(t *testing.T) *localStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.db")
	require.NoError(t, database.Migrate(path))
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLocalStore(db)
}

func TestLocalStoreGetMissing(t *testing.T) {
	s := newTestLocalStore(t)

	value, ok, err := s.Get(context.Background(), "dashboard-widgets")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestLocalStoreSetOverwrites(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "dashboard-theme", []byte(`"light"`)))
	require.NoError(t, s.Set(ctx, "dashboard-theme", []byte(`"dark"`)))

	value, ok, err := s.Get(ctx, "dashboard-theme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"dark"`, string(value))
}

func TestLocalStoreSetMany(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string][]byte{
		"dashboard-widgets": []byte(`[{"id":"news"}]`),
		"dashboard-layout":  []byte(`[{"i":"news","x":0,"y":0,"w":1,"h":1}]`),
	}))

	widgets, ok, err := s.Get(ctx, "dashboard-widgets")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"news"}]`, string(widgets))

	layout, ok, err := s.Get(ctx, "dashboard-layout")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"i":"news","x":0,"y":0,"w":1,"h":1}]`, string(layout))
}
