// Package docfile provides capability-scoped access to the backing
// shopping-list document: a revocable handle with explicit permission
// checks, a registry remembering recently opened documents across
// sessions, and a watcher for edits made outside the application.
package docfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Mode is the access level a handle has been granted.
type Mode string

const (
	ModeRead      Mode = "read"
	ModeReadWrite Mode = "readwrite"
)

var (
	// ErrPermissionDenied reports a denied or revoked grant. It is
	// recoverable: in-memory state is untouched and the caller may
	// re-request access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound reports a registry miss.
	ErrNotFound = errors.New("not found")
)

// Handle is a capability token for one document. Grants are session
// scoped: they are probed against the file system when requested and
// never assumed durable across restarts.
type Handle interface {
	Name() string
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, content string) error
	QueryPermission(mode Mode) bool
	RequestPermission(mode Mode) error
}

// FileHandle is the os-backed Handle implementation.
type FileHandle struct {
	path string

	mu      sync.Mutex
	granted map[Mode]bool
}

// NewFileHandle wraps a file path in a handle with no grants yet.
func NewFileHandle(path string) *FileHandle {
	return &FileHandle{
		path:    path,
		granted: make(map[Mode]bool),
	}
}

// Name returns the document's file name.
func (h *FileHandle) Name() string {
	return filepath.Base(h.path)
}

// Path returns the full document path.
func (h *FileHandle) Path() string {
	return h.path
}

// QueryPermission reports whether mode has been granted this session.
func (h *FileHandle) QueryPermission(mode Mode) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if mode == ModeRead && h.granted[ModeReadWrite] {
		return true
	}
	return h.granted[mode]
}

// RequestPermission probes the file system for the requested access
// and records the grant. Asking for write access on a document that
// does not exist yet is allowed when its directory is writable.
func (h *FileHandle) RequestPermission(mode Mode) error {
	if err := h.probe(mode); err != nil {
		return err
	}
	h.mu.Lock()
	h.granted[mode] = true
	h.mu.Unlock()
	return nil
}

func (h *FileHandle) probe(mode Mode) error {
	flag := os.O_RDONLY
	if mode == ModeReadWrite {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(h.path, flag, 0)
	if err == nil {
		return f.Close()
	}
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, h.path)
	}
	if os.IsNotExist(err) && mode == ModeReadWrite {
		// A new document: writable as long as its directory is.
		if dirErr := probeDir(filepath.Dir(h.path)); dirErr != nil {
			return dirErr
		}
		return nil
	}
	return err
}

func probeDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// ensure verifies a grant, requesting one if missing.
func (h *FileHandle) ensure(mode Mode) error {
	if h.QueryPermission(mode) {
		return nil
	}
	return h.RequestPermission(mode)
}

// Read returns the document's current content.
func (h *FileHandle) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := h.ensure(ModeRead); err != nil {
		return "", err
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", ErrPermissionDenied, h.path)
		}
		return "", fmt.Errorf("read %s: %w", h.path, err)
	}
	return string(data), nil
}

// Write replaces the document's content. Concurrent writers follow
// last-write-wins; there is no cross-write transaction.
func (h *FileHandle) Write(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.ensure(ModeReadWrite); err != nil {
		return err
	}

	if err := os.WriteFile(h.path, []byte(content), 0o644); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, h.path)
		}
		return fmt.Errorf("write %s: %w", h.path, err)
	}
	return nil
}
