package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "cetgrade.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestStorePutGetDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Put(ctx, "k", "v1"))
	require.NoError(t, st.Put(ctx, "k", "v2"))
	got, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, st.Delete(ctx, "k"))
	_, err = st.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Delete(ctx, "k"))
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cetgrade.db")
	ctx := context.Background()

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, SessionKey, `{"sourceText":"中文"}`))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer func() {
		_ = st.Close()
	}()
	got, err := st.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.Equal(t, `{"sourceText":"中文"}`, got)
}

func TestMemoryKV(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, m.Put(ctx, "a", "1"))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	require.NoError(t, m.Delete(ctx, "a"))
	_, err = m.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenFailsOnDirectory(t *testing.T) {
	st, err := Open(t.TempDir())
	require.Error(t, err)
	assert.Nil(t, st)
}
