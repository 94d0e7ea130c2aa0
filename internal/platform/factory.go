package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/framenotes/internal/metrics"
	"github.com/aretw0/framenotes/pkg/adapters/fs"
	"github.com/aretw0/framenotes/pkg/adapters/memory"
	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/git"
	"github.com/aretw0/framenotes/pkg/notes"
	"github.com/aretw0/framenotes/pkg/persistence"
	"github.com/aretw0/framenotes/pkg/theme"
)

// Env is a wired Frame Notes instance: the stores, the persistence bridge
// and the controller on top of them.
type Env struct {
	App       *notes.App
	Library   *notes.Library
	Bridge    *persistence.Bridge
	Durable   core.Storage
	Transient *memory.Storage
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	close     func() error
	closeOnce sync.Once
	closeErr  error
}

// New opens the durable storage for dir, wires the controller over it and
// loads the persisted notes and theme.
//
//	env, err := framenotes.New("./notes", framenotes.WithAdapter("sqlite"))
func New(ctx context.Context, dir string, opts ...Option) (*Env, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.metrics == nil {
		o.metrics = metrics.New()
	}

	durable, closeFn, err := openStorage(ctx, dir, o)
	if err != nil {
		return nil, err
	}

	transient := memory.NewStorage()
	bridge := persistence.New(durable, transient, o.logger, o.metrics)
	lib := notes.NewLibrary(bridge, notes.Options{
		Clock:    o.clock,
		Logger:   o.logger,
		Metrics:  o.metrics,
		Debounce: o.debounce,
		Context:  context.WithoutCancel(ctx),
	})
	app := notes.NewApp(lib, &theme.Store{Durable: durable, Transient: transient, Logger: o.logger})
	if err := app.Start(ctx); err != nil {
		closeFn()
		return nil, err
	}

	return &Env{
		App:       app,
		Library:   lib,
		Bridge:    bridge,
		Durable:   durable,
		Transient: transient,
		Metrics:   o.metrics,
		Logger:    o.logger,
		close:     closeFn,
	}, nil
}

// Close releases the durable storage. Later calls return the first result.
func (e *Env) Close() error {
	e.closeOnce.Do(func() { e.closeErr = e.close() })
	return e.closeErr
}

// Watch reports changes of the notes document made by other processes.
func (e *Env) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := e.Durable.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("storage %T does not support watching", e.Durable)
	}
	return w.Watch(ctx, e.Bridge.Key)
}

// History lists the recorded versions of the notes document.
func (e *Env) History(ctx context.Context, n int) ([]git.Commit, error) {
	s, ok := e.Durable.(*fs.Storage)
	if !ok {
		return nil, fmt.Errorf("storage %T does not keep history", e.Durable)
	}
	return s.History(ctx, e.Bridge.Key, n)
}

// State collects the state of every introspectable component, keyed by
// component type.
func (e *Env) State() map[string]any {
	out := make(map[string]any)
	for _, c := range []any{e.App, e.Bridge, e.Durable, e.Transient} {
		comp, ok := c.(introspection.Component)
		if !ok {
			continue
		}
		if in, ok := c.(introspection.Introspectable); ok {
			out[comp.ComponentType()] = in.State()
		}
	}
	return out
}
