package service_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listkeeper/backend/internal/codec"
	"github.com/listkeeper/backend/internal/docfile"
	"github.com/listkeeper/backend/internal/service"
	"github.com/listkeeper/backend/internal/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDocuments(t *testing.T) (*service.Documents, *state.Store) {
	t.Helper()
	store := state.New(testLogger())
	autosave := service.NewAutosave(store, codec.Encode, testLogger(), 10*time.Millisecond)
	registry, err := docfile.OpenRegistry(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)

	docs := service.NewDocuments(store, autosave, registry, testLogger())
	t.Cleanup(func() {
		docs.Close()
		autosave.Close()
		registry.Close()
	})
	return docs, store
}

func TestDocuments_OpenLoadsAndRemembers(t *testing.T) {
	docs, store := newDocuments(t)
	path := filepath.Join(t.TempDir(), "list.yaml")

	content := `
items:
  - id: i1
    name: Milk
    homeCategory: Fridge
    shopAvailability: []
shops: []
selection: [i1]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, docs.Open(context.Background(), path))

	assert.Len(t, store.Items(), 1)
	assert.Equal(t, state.StatusSaved, store.Status())

	name, gotPath, ok := docs.Current()
	require.True(t, ok)
	assert.Equal(t, "list.yaml", name)
	assert.Equal(t, path, gotPath)

	recent, err := docs.Recent(5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, path, recent[0].Path)
}

func TestDocuments_OpenInvalidDocumentKeepsState(t *testing.T) {
	docs, store := newDocuments(t)
	store.AddItem("Milk", "Fridge", "")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: {}\nshops: []\n"), 0o644))

	err := docs.Open(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrInvalid)

	assert.Len(t, store.Items(), 1, "a rejected load must not touch in-memory state")
	_, _, ok := docs.Current()
	assert.False(t, ok)
}

func TestDocuments_CreateWritesCurrentState(t *testing.T) {
	docs, store := newDocuments(t)
	store.AddItem("Milk", "Fridge", "")

	path := filepath.Join(t.TempDir(), "new.yaml")
	require.NoError(t, docs.Create(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := codec.Decode(string(data))
	require.NoError(t, err)
	assert.Len(t, doc.Items, 1)
}

func TestDocuments_CreateRefusesExistingFile(t *testing.T) {
	docs, _ := newDocuments(t)
	path := filepath.Join(t.TempDir(), "taken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\nshops: []\n"), 0o644))

	assert.Error(t, docs.Create(context.Background(), path))
}

func TestDocuments_SaveWithoutDocument(t *testing.T) {
	docs, _ := newDocuments(t)
	assert.ErrorIs(t, docs.Save(context.Background()), service.ErrNoDocument)
}

func TestDocuments_ReloadsExternalEdit(t *testing.T) {
	docs, store := newDocuments(t)
	path := filepath.Join(t.TempDir(), "list.yaml")

	before := `
items:
  - id: i1
    name: Milk
    homeCategory: Fridge
    shopAvailability: []
shops: []
selection: []
`
	require.NoError(t, os.WriteFile(path, []byte(before), 0o644))
	require.NoError(t, docs.Open(context.Background(), path))
	require.Equal(t, state.StatusSaved, store.Status())

	after := `
items:
  - id: i2
    name: Butter
    homeCategory: Fridge
    shopAvailability: []
shops: []
selection: []
`
	require.NoError(t, os.WriteFile(path, []byte(after), 0o644))

	waitFor(t, func() bool {
		items := store.Items()
		return len(items) == 1 && items[0].ID == "i2"
	})
	assert.Equal(t, state.StatusSaved, store.Status())
}

func TestDocuments_UnsavedEditsWinOverExternalEdit(t *testing.T) {
	// A long autosave delay keeps the store dirty for the whole test.
	store := state.New(testLogger())
	autosave := service.NewAutosave(store, codec.Encode, testLogger(), time.Hour)
	registry, err := docfile.OpenRegistry(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	docs := service.NewDocuments(store, autosave, registry, testLogger())
	t.Cleanup(func() {
		docs.Close()
		autosave.Close()
		registry.Close()
	})

	path := filepath.Join(t.TempDir(), "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items: []\nshops: []\nselection: []\n"), 0o644))
	require.NoError(t, docs.Open(context.Background(), path))

	store.AddItem("Milk", "Fridge", "")
	require.Equal(t, state.StatusUnsaved, store.Status())

	external := `
items:
  - id: i9
    name: Intruder
    homeCategory: Pantry
    shopAvailability: []
shops: []
selection: []
`
	require.NoError(t, os.WriteFile(path, []byte(external), 0o644))

	// Give the watcher time to deliver the event, then check the local
	// edit survived.
	time.Sleep(250 * time.Millisecond)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, state.StatusUnsaved, store.Status())
}

func TestDocuments_CloseDuringExternalEdits(t *testing.T) {
	content := []byte("items: []\nshops: []\nselection: []\n")

	for i := 0; i < 40; i++ {
		docs, _ := newDocuments(t)
		path := filepath.Join(t.TempDir(), "list.yaml")
		require.NoError(t, os.WriteFile(path, content, 0o644))
		require.NoError(t, docs.Open(context.Background(), path))

		stop := make(chan struct{})
		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			for {
				select {
				case <-stop:
					return
				default:
					os.WriteFile(path, content, 0o644)
				}
			}
		}()

		closed := make(chan struct{})
		go func() {
			docs.Close()
			close(closed)
		}()

		select {
		case <-closed:
		case <-time.After(5 * time.Second):
			t.Fatalf("iteration %d: Close blocked against the watcher reload", i)
		}

		close(stop)
		<-writerDone
	}
}

func TestDocuments_AutosaveAfterEdit(t *testing.T) {
	docs, store := newDocuments(t)
	path := filepath.Join(t.TempDir(), "list.yaml")
	require.NoError(t, docs.Create(context.Background(), path))

	store.AddItem("Milk", "Fridge", "")
	waitFor(t, func() bool { return store.Status() == state.StatusSaved })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := codec.Decode(string(data))
	require.NoError(t, err)
	assert.Len(t, doc.Items, 1, "the edit reached the document without a manual save")
}
