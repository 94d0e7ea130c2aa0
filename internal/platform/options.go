package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/framenotes/internal/metrics"
	"github.com/aretw0/framenotes/pkg/clock"
	"github.com/aretw0/framenotes/pkg/core"
)

// Adapter names.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the internal configuration of a Frame Notes environment.
type options struct {
	storage      core.Storage
	logger       *slog.Logger
	adapter      string
	clock        clock.Clock
	metrics      *metrics.Metrics
	debounce     time.Duration
	history      bool
	readOnly     bool
	mustExist    bool
	forceTemp    bool
	devSafety    bool
	errorHandler func(error)
}

// Option defines a functional option for configuring Frame Notes.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		devSafety: true,
	}
}

// WithLogger sets the logger used by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage injects the durable storage (e.g. a mock).
// If provided, the adapter selection is skipped.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithAdapter selects the durable storage by name: "fs" (default),
// "sqlite" or "memory".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithHistory commits every write of the fs adapter to git.
func WithHistory(enabled bool) Option {
	return func(o *options) {
		o.history = enabled
	}
}

// WithReadOnly opens the durable storage read-only. Saves then only reach
// the transient store.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist fails when the data directory does not exist yet.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true) the data directory is re-rooted into a temporary
// directory so that development runs never touch real notes.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithClock replaces the clock driving autosave and undo timers.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithMetrics records store and autosave counters into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDebounce overrides the autosave quiet period.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring in the
// watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
