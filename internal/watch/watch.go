// Package watch monitors a localisation resource tree and notifies
// subscribers when its contents change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pitabwire/util"
)

// DefaultSettleDelay is how long the watcher waits after the last event
// before notifying, so that editors writing multiple files trigger one
// reload instead of many.
const DefaultSettleDelay = 200 * time.Millisecond

// Callback is invoked after the watched tree changed and settled.
type Callback func()

// Watcher monitors the resource root and all of its subdirectories.
type Watcher struct {
	watcher     *fsnotify.Watcher
	root        string
	settleDelay time.Duration

	mu        sync.Mutex
	callbacks []Callback
	settle    *time.Timer

	done chan struct{}
}

// New creates a watcher over root. Call Start to begin receiving events.
func New(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:     w,
		root:        root,
		settleDelay: DefaultSettleDelay,
		done:        make(chan struct{}),
	}, nil
}

// OnChange registers a callback for change notifications.
func (w *Watcher) OnChange(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching the root and every directory below it.
func (w *Watcher) Start(ctx context.Context) error {
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err0 := w.watcher.Add(path); err0 != nil {
				util.Log(ctx).WithError(err0).WithField("path", path).
					Warn("cannot watch directory")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	go w.eventLoop(ctx)
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.Log(ctx).WithError(err).Warn("resource watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	// a new directory needs watching too
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.watcher.Add(event.Name)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.settle != nil {
		w.settle.Stop()
	}
	w.settle = time.AfterFunc(w.settleDelay, w.notify)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	callbacks := make([]Callback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	for _, cb := range callbacks {
		cb()
	}
}
