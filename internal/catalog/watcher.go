package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// LoadFunc reads and seals a table file
type LoadFunc func(path string) (*Snapshot, error)

// ReloadFunc is notified after every reload attempt
type ReloadFunc func(snap *Snapshot, err error)

// Watcher reloads a table file into a Store when it changes on disk. A failed
// reload leaves the previous snapshot in place.
type Watcher struct {
	path     string
	store    *Store
	load     LoadFunc
	logger   *zap.Logger
	debounce time.Duration

	mu       sync.Mutex
	onReload []ReloadFunc

	fs *fsnotify.Watcher
}

// NewWatcher watches the directory of path so editors that replace the file are seen
func NewWatcher(path string, store *Store, load LoadFunc, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		store:    store,
		load:     load,
		logger:   logger.With(zap.String("tables", abs)),
		debounce: 100 * time.Millisecond,
		fs:       fs,
	}, nil
}

// OnReload registers a callback run after each reload attempt
func (w *Watcher) OnReload(fn ReloadFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, fn)
}

// Reload loads the file now and swaps it in on success
func (w *Watcher) Reload() error {
	snap, err := w.load(w.path)
	if err != nil {
		w.logger.Error("table reload failed, keeping previous snapshot", zap.Error(err))
	} else {
		prev := w.store.Swap(snap)
		fields := []zap.Field{zap.String("version", snap.Version()), zap.String("hash", snap.Hash())}
		if prev != nil {
			fields = append(fields, zap.String("previousHash", prev.Hash()))
		}
		w.logger.Info("reference tables reloaded", fields...)
	}

	w.mu.Lock()
	callbacks := append([]ReloadFunc(nil), w.onReload...)
	w.mu.Unlock()
	for _, fn := range callbacks {
		fn(snap, err)
	}
	return err
}

// Run processes file events until ctx is done. Bursts of writes are coalesced.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("table file changed", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			_ = w.Reload()
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}
