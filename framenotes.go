package framenotes

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/framenotes/internal/metrics"
	"github.com/aretw0/framenotes/internal/platform"
	"github.com/aretw0/framenotes/pkg/clock"
	"github.com/aretw0/framenotes/pkg/core"
)

// --- Types ---

// Env is a wired Frame Notes instance.
type Env = platform.Env

// Note is a public alias for the note model.
type Note = core.Note

// Block is a public alias for the block model.
type Block = core.Block

// DrawingPath is a public alias for a committed stroke.
type DrawingPath = core.DrawingPath

// Block types.
const (
	BlockText  = core.BlockText
	BlockImage = core.BlockImage
	BlockVideo = core.BlockVideo
)

// --- Configuration ---

// Option defines a functional option for configuring Frame Notes.
type Option = platform.Option

// WithLogger sets the logger used by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage injects a custom durable storage.
func WithStorage(s core.Storage) Option {
	return platform.WithStorage(s)
}

// WithAdapter selects the durable storage by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithHistory commits every write of the fs adapter to git.
func WithHistory(enabled bool) Option {
	return platform.WithHistory(enabled)
}

// WithReadOnly opens the durable storage read-only.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist fails when the data directory does not exist yet.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used when running via `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithClock replaces the clock driving autosave and undo timers.
func WithClock(c clock.Clock) Option {
	return platform.WithClock(c)
}

// WithMetrics records store and autosave counters into m.
func WithMetrics(m *metrics.Metrics) Option {
	return platform.WithMetrics(m)
}

// WithDebounce overrides the autosave quiet period.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens the notes stored in dir and returns the wired instance.
func New(ctx context.Context, dir string, opts ...Option) (*Env, error) {
	return platform.New(ctx, dir, opts...)
}

// --- Safety & Utils ---

// ResolveDataDir determines the actual data directory based on safety rules.
func ResolveDataDir(userPath string, sandbox bool) string {
	return platform.ResolveDataDir(userPath, sandbox)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding framenotes.yaml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
