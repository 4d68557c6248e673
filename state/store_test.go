package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "nothing saved yet")

	require.NoError(t, store.Save(ctx, []byte(`[{"name":"C","variationIndex":0}]`)))
	require.NoError(t, store.Save(ctx, []byte(`[{"name":"G","variationIndex":1}]`)))

	data, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"G","variationIndex":1}]`, string(data))
}

func TestMemStore(t *testing.T) {
	exerciseStore(t, &MemStore{})
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := FileStore{Dir: dir}
	exerciseStore(t, store)

	assert.Equal(t, filepath.Join(dir, "guitar-chords-state.json"), store.Path())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "chords.db")
	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	data, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"G","variationIndex":1}]`, string(data))
}

func TestS3Store(t *testing.T) {
	bucket := os.Getenv("CHORDVIEWER_TEST_BUCKET")
	if bucket == "" {
		t.Skip("CHORDVIEWER_TEST_BUCKET not set, skipping S3 store test")
	}
	ctx := context.Background()
	store, err := NewS3Store(ctx, bucket, "test/"+t.Name())
	require.NoError(t, err)
	if err := store.Check(ctx); err != nil {
		t.Skipf("Skipping test due to lack of access to %v: %v", bucket, err)
	}
	require.NoError(t, store.Save(ctx, []byte(`[]`)))
	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}
