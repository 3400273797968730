// Package service hosts the application services that own asynchronous
// work around the state store: the debounced autosave writer and the
// document session (open/create/reload) lifecycle.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/listkeeper/backend/internal/state"
)

// DocumentWriter is the slice of the document handle the autosaver
// needs.
type DocumentWriter interface {
	Name() string
	Write(ctx context.Context, content string) error
}

// Encoder serializes the aggregate for persistence.
type Encoder func(state.Document) (string, error)

// Autosave persists the store to the attached document after a quiet
// period. Every dirty mutation restarts the timer, so bursts of edits
// coalesce into one write; the timer is replaced, never stacked, so at
// most one save is pending. An in-flight write is never cancelled by
// newer edits — a later save simply overwrites (last write wins).
type Autosave struct {
	store  *state.Store
	encode Encoder
	logger *slog.Logger
	delay  time.Duration

	mu     sync.Mutex
	target DocumentWriter
	timer  *time.Timer
	closed bool

	writeMu sync.Mutex
}

// NewAutosave creates the autosaver and subscribes it to the store.
// No saving happens until a document is attached.
func NewAutosave(store *state.Store, encode Encoder, logger *slog.Logger, delay time.Duration) *Autosave {
	a := &Autosave{
		store:  store,
		encode: encode,
		logger: logger,
		delay:  delay,
	}
	store.Subscribe(a.onChange)
	return a
}

// Attach directs future saves at w. Pending saves for a previously
// attached document are dropped.
func (a *Autosave) Attach(w DocumentWriter) {
	a.mu.Lock()
	a.stopTimerLocked()
	a.target = w
	a.mu.Unlock()
}

// Detach drops the current document and any pending save.
func (a *Autosave) Detach() {
	a.Attach(nil)
}

func (a *Autosave) onChange() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.target == nil || a.store.Status() != state.StatusUnsaved {
		return
	}

	a.stopTimerLocked()
	a.timer = time.AfterFunc(a.delay, func() {
		a.save(context.Background())
	})
}

// Flush saves immediately if there is anything to save, bypassing the
// debounce. Used by the manual save action and on shutdown.
func (a *Autosave) Flush(ctx context.Context) error {
	a.mu.Lock()
	a.stopTimerLocked()
	a.mu.Unlock()
	return a.save(ctx)
}

// Close cancels any pending save. It does not flush; callers decide
// whether a final Flush is wanted before closing.
func (a *Autosave) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.stopTimerLocked()
}

func (a *Autosave) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autosave) save(ctx context.Context) error {
	a.mu.Lock()
	target := a.target
	closed := a.closed
	a.mu.Unlock()
	if closed || target == nil {
		return nil
	}

	// One write at a time; a save landing while another is mid-write
	// queues behind it rather than interleaving.
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	if !a.store.BeginSave() {
		return nil
	}

	content, err := a.encode(a.store.Snapshot())
	if err == nil {
		err = target.Write(ctx, content)
	}
	a.store.FinishSave(err)

	if err != nil {
		a.logger.Error("autosave failed", "document", target.Name(), "error", err)
		return err
	}
	a.logger.Debug("autosaved", "document", target.Name())
	return nil
}
