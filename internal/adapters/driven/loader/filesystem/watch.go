package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/nerstat/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before a batch is reported.
const DefaultDebounce = 500 * time.Millisecond

// ChangeType describes a detected file change.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is a debounced notification that the input changed.
type Change struct {
	// Path is the last file that changed in the batch.
	Path string

	// Type is the kind of the last change.
	Type ChangeType

	// Count is the number of file events folded into this change.
	Count int
}

// Watcher reports changes to an input file or directory.
type Watcher struct {
	root     string
	file     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// NewWatcher watches path. A directory is watched for supported files; a
// file is watched on its own. A non-positive debounce selects DefaultDebounce.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{root: path, debounce: debounce}
	if !info.IsDir() {
		w.root = filepath.Dir(path)
		w.file = filepath.Clean(path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.fsw = fsw
	return w, nil
}

// Watch emits one Change per burst of events until ctx is done.
// The channel is closed when watching stops.
func (w *Watcher) Watch(ctx context.Context) <-chan Change {
	out := make(chan Change)

	go func() {
		defer close(out)
		defer w.fsw.Close()

		timer := time.NewTimer(w.debounce)
		if !timer.Stop() {
			<-timer.C
		}
		var pending *Change

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return

			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				change := w.handleFsEvent(event)
				if change == nil {
					continue
				}
				if pending != nil {
					change.Count = pending.Count + 1
				}
				pending = change
				timer.Reset(w.debounce)

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)

			case <-timer.C:
				if pending == nil {
					continue
				}
				select {
				case out <- *pending:
				case <-ctx.Done():
					return
				}
				pending = nil
			}
		}
	}()

	return out
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// handleFsEvent converts a raw event into a change, or nil if it is ignored.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	name := filepath.Clean(event.Name)
	if w.file != "" && name != w.file {
		return nil
	}
	if w.file == "" && !IsSupportedFile(name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Path: name, Type: ChangeDeleted, Count: 1}
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(name); err != nil || info.IsDir() {
			return nil
		}
		return &Change{Path: name, Type: ChangeCreated, Count: 1}
	case event.Has(fsnotify.Write):
		return &Change{Path: name, Type: ChangeUpdated, Count: 1}
	default:
		return nil
	}
}
