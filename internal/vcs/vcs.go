package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/sys/execabs"

	"github.com/goplus/skbuild/internal/toolexec"
)

// VCS defines the interface for version control operations.
type VCS interface {
	// Sync ensures the local repo exists and is at the tip of the remote
	// branch ref.
	// If dir doesn't exist, clones the repo at ref.
	// If dir exists, fetches ref from origin, checks it out and hard resets
	// to origin/<ref>, discarding local edits.
	// shallow limits clone and fetch to depth 1.
	Sync(ctx context.Context, remote, ref, dir string, shallow bool) error

	// Clone clones remote into dir unless dir already exists.
	// An existing checkout is left untouched.
	Clone(ctx context.Context, remote, dir string) error

	// Head returns the commit hash checked out in dir.
	Head(ctx context.Context, dir string) (string, error)
}

// gitVCS implements VCS using git.
type gitVCS struct {
	git string
}

// GitOption configures gitVCS.
type GitOption func(*gitVCS)

// WithGitPath sets a custom git executable path.
func WithGitPath(path string) GitOption {
	return func(g *gitVCS) {
		if path != "" {
			g.git = path
		}
	}
}

// NewGitVCS creates a new git VCS instance.
func NewGitVCS(opts ...GitOption) VCS {
	g := &gitVCS{git: "git"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func exists(dir string) (bool, error) {
	_, err := os.Stat(dir)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (g *gitVCS) Sync(ctx context.Context, remote, ref, dir string, shallow bool) error {
	ok, err := exists(dir)
	if err != nil {
		return err
	}
	if !ok {
		args := []string{"clone"}
		if shallow {
			args = append(args, "--depth", "1")
		}
		args = append(args, "--branch", ref, remote, dir)
		if err := g.run(ctx, "", args...); err != nil {
			return fmt.Errorf("clone %s: %w", remote, err)
		}
		return nil
	}
	if err := g.fetch(ctx, dir, ref, shallow); err != nil {
		return err
	}
	if err := g.checkout(ctx, dir, ref); err != nil {
		return err
	}
	if err := g.run(ctx, dir, "reset", "--hard", "origin/"+ref); err != nil {
		return fmt.Errorf("reset to origin/%s: %w", ref, err)
	}
	return nil
}

func (g *gitVCS) fetch(ctx context.Context, dir, ref string, shallow bool) error {
	args := []string{"fetch"}
	if shallow {
		args = append(args, "--depth", "1")
	}
	args = append(args, "origin", ref)
	if err := g.run(ctx, dir, args...); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	return nil
}

func (g *gitVCS) checkout(ctx context.Context, dir, ref string) error {
	if err := g.run(ctx, dir, "checkout", ref); err != nil {
		return fmt.Errorf("checkout %s: %w", ref, err)
	}
	return nil
}

func (g *gitVCS) Clone(ctx context.Context, remote, dir string) error {
	ok, err := exists(dir)
	if err != nil || ok {
		return err
	}
	if err := g.run(ctx, "", "clone", remote, dir); err != nil {
		return fmt.Errorf("clone %s: %w", remote, err)
	}
	return nil
}

func (g *gitVCS) Head(ctx context.Context, dir string) (string, error) {
	output, err := g.output(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("rev-parse HEAD: %w", err)
	}
	hash := strings.TrimSpace(output)
	if hash == "" {
		return "", fmt.Errorf("no HEAD in %s", dir)
	}
	return hash, nil
}

func (g *gitVCS) run(ctx context.Context, dir string, args ...string) error {
	_, err := g.output(ctx, dir, args...)
	return err
}

func (g *gitVCS) output(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := execabs.CommandContext(ctx, g.git, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		line := toolexec.CommandLine(g.git, args...)
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %w\n%s", line, err, msg)
		}
		return "", fmt.Errorf("%s: %w", line, err)
	}
	return stdout.String(), nil
}
