package chorddb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyDB = `{"chords": {"G": [{"key": "G", "suffix": "major", "positions": [
	{"frets": [3, 2, 0, 0, 0, 3], "fingers": [2, 1, 0, 0, 0, 3], "baseFret": 1, "barres": [], "midi": [43, 47, 50, 55, 59, 67]}
]}]}}`

func TestFetchCached(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tinyDB))
	}))
	defer ts.Close()

	client := NewCachedClient("", time.Hour)
	for i := 0; i < 3; i++ {
		db, err := Fetch(context.Background(), client, ts.URL)
		require.NoError(t, err)
		assert.Equal(t, []string{"G"}, db.Keys())
	}
	assert.Equal(t, int32(1), hits.Load(), "origin no-store is overridden by the client TTL")
}

func TestDiskCacheSharedAcrossClients(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(tinyDB))
	}))
	defer ts.Close()

	dir := t.TempDir()
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		db, err := Open(ctx, ts.URL, NewCachedClient(dir, time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []string{"G"}, db.Keys())
	}
	assert.Equal(t, int32(1), hits.Load(), "second client is served from the disk cache")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestFetchStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := Fetch(context.Background(), http.DefaultClient, ts.URL)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, db.Keys(), 12)

	path := filepath.Join(t.TempDir(), "guitar.json")
	require.NoError(t, os.WriteFile(path, []byte(tinyDB), 0o644))
	db, err = Open(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"G"}, db.Keys())

	_, err = Open(ctx, filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)

	assert.True(t, IsRemote("https://example.com/guitar.json"))
	assert.False(t, IsRemote("guitar.json"))
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guitar.json")
	require.NoError(t, os.WriteFile(path, []byte(tinyDB), 0o644))

	reloaded := make(chan *DB, 4)
	w := &Watcher{
		Path:     path,
		Debounce: 20 * time.Millisecond,
		OnReload: func(db *DB) { reloaded <- db },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// give the watcher time to register before the first write
	time.Sleep(100 * time.Millisecond)

	full, err := dataFS.ReadFile("data/guitar.json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, full, 0o644))

	select {
	case db := <-reloaded:
		assert.Len(t, db.Keys(), 12)
	case <-time.After(5 * time.Second):
		t.Fatal("database was not reloaded")
	}
}
