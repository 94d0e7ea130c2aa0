package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/framenotes/pkg/adapters/fs"
	"github.com/aretw0/framenotes/pkg/adapters/memory"
	"github.com/aretw0/framenotes/pkg/adapters/sqlite"
	"github.com/aretw0/framenotes/pkg/core"
)

// DatabaseFile is the SQLite database file inside the data directory.
const DatabaseFile = "framenotes.db"

// OpenStorage opens the durable storage selected by the options.
// The dir argument is the data directory; it is re-rooted into a sandbox
// during development runs unless dev safety is disabled.
//
// The returned close function releases the storage and is never nil.
func OpenStorage(ctx context.Context, dir string, opts ...Option) (core.Storage, func() error, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return openStorage(ctx, dir, o)
}

func openStorage(ctx context.Context, dir string, o *options) (core.Storage, func() error, error) {
	noop := func() error { return nil }
	if o.storage != nil {
		return o.storage, noop, nil
	}

	resolved := resolveDir(dir, o)

	if o.mustExist || o.readOnly {
		if _, err := os.Stat(resolved); err != nil {
			return nil, noop, fmt.Errorf("data directory unavailable: %w", err)
		}
	}

	switch o.adapter {
	case AdapterFS, "":
		s := fs.NewStorage(fs.Config{
			Dir:          resolved,
			ReadOnly:     o.readOnly,
			History:      o.history,
			Logger:       o.logger,
			ErrorHandler: o.errorHandler,
		})
		if err := s.Initialize(ctx); err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case AdapterSQLite:
		if err := os.MkdirAll(resolved, 0755); err != nil {
			return nil, noop, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := sqlite.Open(ctx, filepath.Join(resolved, DatabaseFile), o.logger)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case AdapterMemory:
		return memory.NewStorage(), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown adapter: %s", o.adapter)
}

func resolveDir(dir string, o *options) string {
	sandbox := o.forceTemp || (IsDevRun() && o.devSafety && !o.readOnly)
	resolved := ResolveDataDir(dir, sandbox)
	if o.logger != nil && resolved != filepath.Clean(dir) && sandbox {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", dir, "resolved_path", resolved)
	}
	return resolved
}
