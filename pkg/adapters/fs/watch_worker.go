package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/framenotes/pkg/clock"
	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/schedule"
)

// watchQuiet collapses the burst of events an editor or sync tool produces
// for a single save.
const watchQuiet = 50 * time.Millisecond

type watchWorker struct {
	*worker.BaseWorker
	storage   *Storage
	key       string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *schedule.Debouncer
	cancel    context.CancelFunc
	sendMu    sync.Mutex
}

func newWatchWorker(s *Storage, key string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		storage:    s,
		key:        key,
		events:     events,
	}
}

// Watch implements core.Watchable. Changes written by this Storage are not
// reported. The channel is closed once ctx is done.
func (s *Storage) Watch(ctx context.Context, key string) (<-chan core.Event, error) {
	if _, err := s.path(key); err != nil {
		return nil, err
	}

	events := make(chan core.Event, 8)
	w := newWatchWorker(s, key, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := w.Stop(stopCtx)

		w.sendMu.Lock()
		close(events)
		w.events = nil
		w.sendMu.Unlock()
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		s.reportError(fmt.Errorf("watcher shutdown: %w", err))
	}))

	return events, nil
}

func (s *Storage) reportError(err error) {
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
		return
	}
	s.config.Logger.Error("watcher error", "error", err)
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Atomic replaces swap the inode, so the directory is watched rather
	// than the file.
	if err := watcher.Add(w.storage.Dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.storage.Dir, err)
	}

	w.watcher = watcher
	w.debouncer = schedule.NewDebouncer(clock.Real(), watchQuiet)
	w.storage.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"key":               w.key,
		}
	})
}

// mapEvent turns a raw notification into a domain event for the watched
// key. ok is false for unrelated files and scratch files.
func (w *watchWorker) mapEvent(event fsnotify.Event) (core.Event, bool) {
	name := filepath.Base(event.Name)
	if name != w.key || strings.HasPrefix(name, TempFilePrefix) {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		t = core.EventModify
	default:
		return core.Event{}, false
	}
	return core.Event{Type: t, Key: w.key, Timestamp: time.Now().Unix()}, true
}

// send delivers an event through the debouncer. The last event of a burst
// wins.
func (w *watchWorker) send(ctx context.Context, e core.Event) {
	w.debouncer.Trigger(func() {
		if e.Type == core.EventModify && w.storage.isOwnWrite(w.key) {
			return
		}
		w.storage.recordEvent()

		w.sendMu.Lock()
		defer w.sendMu.Unlock()
		if w.events == nil {
			return
		}
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.storage.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.storage.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.storage.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.storage.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// No callback may run once the loop is gone.
	w.debouncer.Stop()
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.storage.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			if e, ok := w.mapEvent(event); ok {
				w.send(ctx, e)
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.storage.reportError(wErr)
		}
	}
}
