package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/muurk/sketchui/internal/logging"
	"github.com/muurk/sketchui/internal/screen"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// LoadFile reads a description from disk. Like describer output, the file
// may carry prose around the JSON object.
func LoadFile(path string) (*screen.Screen, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewFileError(path, err)
	}
	return ParseDescription(data)
}

// Reload is one result of re-reading a watched file.
type Reload struct {
	Path   string
	Screen *screen.Screen
	Err    error
}

// Watcher re-reads a description file whenever it changes on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	reloads  chan Reload
	cancel   context.CancelFunc
	done     chan struct{}
}

// Watch starts watching path. The parent directory is watched so editors
// that save by renaming a temp file are noticed too.
func Watch(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("bad path %q: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:     abs,
		debounce: debounce,
		fsw:      fsw,
		reloads:  make(chan Reload, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(watchCtx)

	logging.Info("Watching description file", zap.String("path", abs))
	return w, nil
}

// Reloads delivers the latest reload. Only the newest result is kept when
// the reader falls behind. The channel is closed by Close.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.reloads)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs != w.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			doc, err := LoadFile(w.path)
			if err != nil {
				logging.LogIngestFailure(w.path, err)
			}
			w.deliver(Reload{Path: w.path, Screen: doc, Err: err})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("File watcher error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

// deliver replaces any unread reload with r. run is the only sender.
func (w *Watcher) deliver(r Reload) {
	select {
	case <-w.reloads:
	default:
	}
	w.reloads <- r
}
