package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/listkeeper/backend/internal/codec"
	"github.com/listkeeper/backend/internal/docfile"
	"github.com/listkeeper/backend/internal/state"
)

// ErrNoDocument reports an operation that needs an open document when
// none is attached.
var ErrNoDocument = errors.New("no document open")

// Documents manages the lifetime of the backing document: opening an
// existing file, creating a new one, remembering it in the registry,
// attaching it to the autosaver and reloading on external edits.
type Documents struct {
	store    *state.Store
	autosave *Autosave
	registry *docfile.Registry
	logger   *slog.Logger

	mu      sync.Mutex
	handle  *docfile.FileHandle
	watcher *docfile.Watcher
}

// NewDocuments creates the document session service.
func NewDocuments(store *state.Store, autosave *Autosave, registry *docfile.Registry, logger *slog.Logger) *Documents {
	return &Documents{
		store:    store,
		autosave: autosave,
		registry: registry,
		logger:   logger,
	}
}

// Open reads, decodes and loads an existing document, then attaches it
// for autosaving and watches it for external edits. The in-memory
// state is only replaced once the document has validated.
func (d *Documents) Open(ctx context.Context, path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	handle := docfile.NewFileHandle(path)
	if err := handle.RequestPermission(docfile.ModeReadWrite); err != nil {
		return err
	}

	text, err := handle.Read(ctx)
	if err != nil {
		return err
	}
	doc, err := codec.Decode(text)
	if err != nil {
		return err
	}

	d.store.Load(doc)
	d.attach(handle)

	if err := d.registry.Remember(path, docfile.ModeReadWrite); err != nil {
		d.logger.Warn("failed to remember document", "path", path, "error", err)
	}
	d.logger.Info("document opened", "path", path)
	return nil
}

// OpenLast reopens the most recently used document, if any.
func (d *Documents) OpenLast(ctx context.Context) error {
	entry, err := d.registry.Last()
	if err != nil {
		return err
	}
	return d.Open(ctx, entry.Path)
}

// Create starts a fresh document at path, writing the current
// in-memory state to it (an empty aggregate for a new session).
func (d *Documents) Create(ctx context.Context, path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("document already exists: %s", path)
	}

	handle := docfile.NewFileHandle(path)
	if err := handle.RequestPermission(docfile.ModeReadWrite); err != nil {
		return err
	}

	// The initial write goes through the save-status machine so the
	// fresh document immediately reads as saved.
	saving := d.store.BeginSave()
	content, err := codec.Encode(d.store.Snapshot())
	if err == nil {
		err = handle.Write(ctx, content)
	}
	if saving {
		d.store.FinishSave(err)
	}
	if err != nil {
		return err
	}

	d.attach(handle)

	if err := d.registry.Remember(path, docfile.ModeReadWrite); err != nil {
		d.logger.Warn("failed to remember document", "path", path, "error", err)
	}
	d.logger.Info("document created", "path", path)
	return nil
}

// Save forces an immediate write of the current state.
func (d *Documents) Save(ctx context.Context) error {
	d.mu.Lock()
	attached := d.handle != nil
	d.mu.Unlock()
	if !attached {
		return ErrNoDocument
	}
	return d.autosave.Flush(ctx)
}

// Current returns the open document's name and path.
func (d *Documents) Current() (name, path string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handle == nil {
		return "", "", false
	}
	return d.handle.Name(), d.handle.Path(), true
}

// Recent lists remembered documents, most recent first.
func (d *Documents) Recent(limit int) ([]docfile.Entry, error) {
	return d.registry.Recent(limit)
}

// Close detaches the document and stops the watcher. Any pending
// autosave should be flushed by the caller first.
//
// The watcher is stopped outside d.mu: closing it waits for the watch
// goroutine to exit, and that goroutine's reload callback takes d.mu
// itself.
func (d *Documents) Close() {
	d.mu.Lock()
	watcher := d.watcher
	d.watcher = nil
	d.handle = nil
	d.mu.Unlock()

	d.autosave.Detach()
	if watcher != nil {
		watcher.Close()
	}
}

func (d *Documents) attach(handle *docfile.FileHandle) {
	d.mu.Lock()
	old := d.watcher
	d.watcher = nil
	d.handle = handle
	d.mu.Unlock()

	// Stopped outside the lock for the same reason as in Close.
	if old != nil {
		old.Close()
	}

	d.autosave.Attach(handle)

	watcher, err := docfile.WatchDocument(handle.Path(), d.logger, d.reload)
	if err != nil {
		d.logger.Warn("cannot watch document for external edits", "path", handle.Path(), "error", err)
		return
	}
	d.mu.Lock()
	d.watcher = watcher
	d.mu.Unlock()
}

// reload refreshes the state from disk after an external edit. It only
// runs when the in-memory copy is clean: unsaved edits always win over
// the file, and our own autosave writes land here as a harmless reload
// of what was just written.
func (d *Documents) reload() {
	if d.store.Status() != state.StatusSaved {
		d.logger.Debug("skipping reload, in-memory state has unsaved edits")
		return
	}

	d.mu.Lock()
	handle := d.handle
	d.mu.Unlock()
	if handle == nil {
		return
	}

	text, err := handle.Read(context.Background())
	if err != nil {
		d.logger.Warn("failed to re-read document", "error", err)
		return
	}
	doc, err := codec.Decode(text)
	if err != nil {
		d.logger.Warn("external edit left the document invalid, keeping in-memory state", "error", err)
		return
	}
	d.store.Load(doc)
	d.logger.Info("document reloaded after external edit", "path", handle.Path())
}
