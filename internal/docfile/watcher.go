package docfile

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports external modifications to the open document. The
// parent directory is watched rather than the file itself, so editors
// that save via rename-and-replace are still caught.
type Watcher struct {
	fw     *fsnotify.Watcher
	logger *slog.Logger
	done   chan struct{}
}

// WatchDocument starts watching path and invokes onChange after every
// write or create event for it. onChange runs on the watcher
// goroutine.
func WatchDocument(path string, logger *slog.Logger, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:     fw,
		logger: logger,
		done:   make(chan struct{}),
	}

	target := filepath.Clean(path)
	go w.run(target, onChange)
	return w, nil
}

func (w *Watcher) run(target string, onChange func()) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("document changed on disk", "path", target, "op", event.Op.String())
			onChange()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("document watcher error", "error", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
