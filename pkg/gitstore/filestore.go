// Package gitstore is the persistence collaborator: it owns the data
// file on disk and, when sync is enabled, mirrors every save as a git
// commit and keeps the local checkout current with its remote. The core
// engine only ever hands it bytes; it knows nothing about the document
// inside them.
package gitstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// Config configures a FileStore.
type Config struct {
	// Path is the data file location. Its directory must exist.
	Path string
	// Sync enables git integration: pull before load, commit after
	// persist, push on commit and on Close.
	Sync   bool
	Logger *slog.Logger
}

// FileStore implements the load/persist collaborator contract over a
// single file, optionally versioned with git.
type FileStore struct {
	path   string
	sync   bool
	git    *gitClient
	logger *slog.Logger
}

// New creates a FileStore for the given config.
func New(cfg Config) *FileStore {
	dir := filepath.Dir(cfg.Path)
	return &FileStore{
		path:   cfg.Path,
		sync:   cfg.Sync,
		git:    newGitClient(dir, cfg.Logger),
		logger: cfg.Logger,
	}
}

// Path returns the data file location.
func (s *FileStore) Path() string { return s.path }

// Load returns the raw persisted bytes. A missing file is an empty
// dataset, not an error. With sync enabled it pulls first, so a process
// starting on a stale checkout sees the remote's latest state; pull
// failures (offline, no upstream) are logged and the local file wins.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if s.sync && s.git.insideWorkTree(ctx) && s.git.hasRemote(ctx) {
		if err := s.git.pull(ctx); err != nil {
			if s.logger != nil {
				s.logger.Warn("pull before load failed, using local state", "error", err)
			}
		}
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, nil
}

// Persist atomically replaces the data file with the given bytes and,
// with sync enabled, records the change as a git commit. The commit
// message describes the operation that produced the bytes. Push failures
// are logged, not fatal — the commit is safe locally and goes out with
// the next successful push.
func (s *FileStore) Persist(ctx context.Context, data []byte, message string) error {
	unlock, err := s.git.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	if !s.sync || !s.git.insideWorkTree(ctx) {
		return nil
	}

	rel := filepath.Base(s.path)
	if err := s.git.add(ctx, rel); err != nil {
		return fmt.Errorf("failed to stage %s: %w", rel, err)
	}
	if err := s.git.commit(ctx, message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	if s.git.hasRemote(ctx) {
		if err := s.git.push(ctx); err != nil && s.logger != nil {
			s.logger.Warn("push failed, will retry on next save", "error", err)
		}
	}
	return nil
}

// Sync runs a full pull-then-push round trip against the remote.
func (s *FileStore) Sync(ctx context.Context) error {
	if !s.git.insideWorkTree(ctx) {
		return fmt.Errorf("%s is not inside a git repository", s.path)
	}
	if !s.git.hasRemote(ctx) {
		return fmt.Errorf("remote 'origin' not configured")
	}
	unlock, err := s.git.lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.git.pull(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if err := s.git.push(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// Close pushes any commits that failed to push earlier. Called once at
// shutdown when sync is enabled.
func (s *FileStore) Close(ctx context.Context) error {
	if !s.sync || !s.git.insideWorkTree(ctx) || !s.git.hasRemote(ctx) {
		return nil
	}
	if err := s.git.push(ctx); err != nil {
		return fmt.Errorf("final push failed: %w", err)
	}
	return nil
}
