// Package git records the history of a data directory by shelling out to the
// git binary. It is used by the file storage when history is enabled.
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrLockTimeout is returned when the directory lock could not be acquired
// before the context was done.
var ErrLockTimeout = errors.New("timed out waiting for git lock")

// Commit is one entry of the history log.
type Commit struct {
	Hash    string    `json:"hash"`
	When    time.Time `json:"when"`
	Subject string    `json:"subject"`
}

// Client runs git inside WorkDir. Writers serialize on a lock file so two
// processes never commit concurrently.
type Client struct {
	WorkDir  string
	Logger   *slog.Logger
	lockPath string
}

// NewClient creates a client for workDir.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{
		WorkDir:  workDir,
		Logger:   logger,
		lockPath: ".framenotes.lock",
	}
}

// IsInstalled reports whether a git binary is on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether WorkDir is the root of a repository.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Lock acquires the lock file, polling until ctx is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	path := filepath.Join(c.WorkDir, c.lockPath)
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-tick.C:
		}
	}
}

// Run executes git with args. It does not take the lock.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, out)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init creates the repository and a local identity so commits work on
// machines without a global git config.
func (c *Client) Init(ctx context.Context) error {
	if _, err := c.Run(ctx, "init"); err != nil {
		return err
	}
	if _, err := c.Run(ctx, "config", "user.name", "Frame Notes"); err != nil {
		return err
	}
	_, err := c.Run(ctx, "config", "user.email", "framenotes@localhost")
	return err
}

// CommitFiles stages files and commits them with msg. It reports false when
// there was nothing to commit.
func (c *Client) CommitFiles(ctx context.Context, msg string, files ...string) (bool, error) {
	if len(files) == 0 {
		return false, nil
	}
	if _, err := c.Run(ctx, append([]string{"add", "--"}, files...)...); err != nil {
		return false, err
	}
	status, err := c.Run(ctx, append([]string{"status", "--porcelain", "--"}, files...)...)
	if err != nil {
		return false, err
	}
	if status == "" {
		return false, nil
	}
	if _, err := c.Run(ctx, "commit", "-m", msg); err != nil {
		return false, err
	}
	return true, nil
}

// Log returns up to n commits touching file, newest first.
func (c *Client) Log(ctx context.Context, n int, file string) ([]Commit, error) {
	args := []string{"log", "--format=%H%x1f%cI%x1f%s"}
	if n > 0 {
		args = append(args, fmt.Sprintf("-n%d", n))
	}
	if file != "" {
		args = append(args, "--", file)
	}
	out, err := c.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "\x1f", 3)
		if len(parts) != 3 {
			continue
		}
		when, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("unexpected commit date %q: %w", parts[1], err)
		}
		commits = append(commits, Commit{Hash: parts[0], When: when, Subject: parts[2]})
	}
	return commits, nil
}
