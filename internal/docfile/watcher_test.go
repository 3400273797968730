package docfile_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listkeeper/backend/internal/docfile"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatchDocument_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0o644))

	changes := make(chan struct{}, 16)
	w, err := docfile.WatchDocument(path, discardLogger(), func() {
		changes <- struct{}{}
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(path, []byte("items: []\nshops: []\n"), 0o644))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no notification after the document was rewritten")
	}
}

func TestWatchDocument_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0o644))

	changes := make(chan struct{}, 16)
	w, err := docfile.WatchDocument(path, discardLogger(), func() {
		changes <- struct{}{}
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	select {
	case <-changes:
		t.Fatal("notified for a sibling file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CloseStopsDelivery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0o644))

	changes := make(chan struct{}, 16)
	w, err := docfile.WatchDocument(path, discardLogger(), func() {
		changes <- struct{}{}
	})
	require.NoError(t, err)
	assert.NoError(t, w.Close())

	require.NoError(t, os.WriteFile(path, []byte("items: []\nshops: []\n"), 0o644))
	select {
	case <-changes:
		t.Fatal("notified after Close")
	case <-time.After(200 * time.Millisecond):
	}
}
