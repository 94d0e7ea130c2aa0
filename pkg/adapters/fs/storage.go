// Package fs stores values as files in a data directory on the device.
//
// Each key maps to one file. Writes replace the file atomically, optional
// history mode commits every write to a git repository in the directory, and
// Watch reports changes made by other processes.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/git"
)

// Config holds the configuration for the file storage.
type Config struct {
	Dir      string
	ReadOnly bool
	// History commits every write to a git repository in Dir.
	History bool
	Logger  *slog.Logger
	// ErrorHandler receives runtime watcher failures.
	ErrorHandler func(error)
}

// Storage implements core.Storage on the filesystem.
type Storage struct {
	Dir    string
	config Config
	git    *git.Client

	mu            sync.RWMutex
	ownWrites     map[string]time.Time // key -> mtime of our last write
	writes        int
	watcherActive bool
	lastEvent     *time.Time
}

// NewStorage creates a file storage rooted at cfg.Dir.
func NewStorage(cfg Config) *Storage {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Storage{
		Dir:       cfg.Dir,
		config:    cfg,
		git:       git.NewClient(cfg.Dir, cfg.Logger),
		ownWrites: make(map[string]time.Time),
	}
}

// Initialize creates the data directory and, in history mode, the git
// repository. Read-only storages only check that the directory exists.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.ReadOnly {
		info, err := os.Stat(s.Dir)
		if err != nil {
			return fmt.Errorf("data directory unavailable: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Dir)
		}
		return nil
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if s.config.History && !s.git.IsRepo() {
		if !git.IsInstalled() {
			return fmt.Errorf("history requires git, which is not installed")
		}
		if err := s.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		s.config.Logger.Debug("initialized history repository", "dir", s.Dir)
	}
	return nil
}

func (s *Storage) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." || strings.HasPrefix(key, TempFilePrefix) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.Dir, key), nil
}

// Read implements core.Storage.
func (s *Storage) Read(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Write implements core.Storage.
func (s *Storage) Write(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := replaceFile(p, data, 0644); err != nil {
		return err
	}
	s.recordWrite(key, p)

	if s.config.History {
		if err := s.commit(ctx, key, len(data)); err != nil {
			// The file is safely on disk; history is best effort.
			s.config.Logger.Warn("failed to record history", "key", key, "error", err)
		}
	}
	return nil
}

func (s *Storage) commit(ctx context.Context, key string, size int) error {
	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	unlock, err := s.git.Lock(lockCtx)
	if err != nil {
		return err
	}
	defer unlock()

	msg := git.FormatMessage(git.TypeSave, key, fmt.Sprintf("%d bytes", size), "")
	_, err = s.git.CommitFiles(ctx, msg, key)
	return err
}

// History lists the recorded versions of key, newest first.
func (s *Storage) History(ctx context.Context, key string, n int) ([]git.Commit, error) {
	if !s.git.IsRepo() {
		return nil, fmt.Errorf("history is not enabled for %s", s.Dir)
	}
	return s.git.Log(ctx, n, key)
}

func (s *Storage) recordWrite(key, path string) {
	info, err := os.Stat(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err == nil {
		s.ownWrites[key] = info.ModTime()
	}
}

// isOwnWrite reports whether the file still carries the mtime of this
// process' last write.
func (s *Storage) isOwnWrite(key string) bool {
	p, err := s.path(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	mtime, ok := s.ownWrites[key]
	return ok && mtime.Equal(info.ModTime())
}

var _ core.Storage = (*Storage)(nil)
var _ core.Watchable = (*Storage)(nil)
