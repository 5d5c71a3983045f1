package gitstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// gitClient wraps git command execution with a file-based lock for
// process safety. Git is optional at runtime: callers probe with
// insideWorkTree before issuing anything else.
type gitClient struct {
	workDir  string
	logger   *slog.Logger
	lockName string
}

func newGitClient(workDir string, logger *slog.Logger) *gitClient {
	return &gitClient{
		workDir:  workDir,
		logger:   logger,
		lockName: ".nota.lock",
	}
}

// lock acquires the file-based lock, blocking until it is free.
func (c *gitClient) lock() (func(), error) {
	lockPath := filepath.Join(c.workDir, c.lockName)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if os.IsExist(err) {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
}

// run executes a raw git command in the working directory. It does not
// take the lock; callers manage that around whole save/load sequences.
func (c *gitClient) run(ctx context.Context, args ...string) (string, error) {
	if c.logger != nil {
		c.logger.Debug("executing git", "args", args, "dir", c.workDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.workDir

	out, err := cmd.CombinedOutput()
	output := string(out)
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}
	return strings.TrimSpace(output), nil
}

// insideWorkTree reports whether the data file's directory is under git
// version control at all.
func (c *gitClient) insideWorkTree(ctx context.Context) bool {
	out, err := c.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// hasRemote reports whether an origin remote is configured.
func (c *gitClient) hasRemote(ctx context.Context) bool {
	out, err := c.run(ctx, "remote")
	if err != nil {
		return false
	}
	for _, name := range strings.Fields(out) {
		if name == "origin" {
			return true
		}
	}
	return false
}

func (c *gitClient) add(ctx context.Context, file string) error {
	_, err := c.run(ctx, "add", file)
	return err
}

// commit records staged changes. Nothing staged is not an error: saving
// an unchanged dataset simply produces no commit. The check looks only
// at the index, so the lock file sitting untracked in the directory
// never triggers a spurious commit.
func (c *gitClient) commit(ctx context.Context, msg string) error {
	staged, err := c.run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return err
	}
	if staged == "" {
		return nil
	}
	_, err = c.run(ctx, "commit", "-m", msg)
	return err
}

func (c *gitClient) pull(ctx context.Context) error {
	_, err := c.run(ctx, "pull", "--rebase", "--autostash")
	return err
}

func (c *gitClient) push(ctx context.Context) error {
	_, err := c.run(ctx, "push")
	return err
}
