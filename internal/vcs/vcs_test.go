package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	args = append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com", "-c", "commit.gpgsign=false"}, args...)
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// newUpstream creates a repo with one commit on branch main and returns its path.
func newUpstream(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "upstream")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	git(t, dir, "init")
	git(t, dir, "checkout", "-b", "main")
	commitFile(t, dir, "README", "one\n")
	return dir
}

func commitFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	git(t, dir, "add", name)
	git(t, dir, "commit", "-m", "update "+name)
	return git(t, dir, "rev-parse", "HEAD")
}

func TestGitVCS_Sync(t *testing.T) {
	requireGit(t)
	vcs := NewGitVCS()
	ctx := context.Background()

	upstream := newUpstream(t)
	remote := "file://" + upstream
	dir := filepath.Join(t.TempDir(), "skia")

	if err := vcs.Sync(ctx, remote, "main", dir, true); err != nil {
		t.Fatalf("Sync (clone) failed: %v", err)
	}
	hash1, err := vcs.Head(ctx, dir)
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}
	if want := git(t, upstream, "rev-parse", "HEAD"); hash1 != want {
		t.Errorf("HEAD after clone = %s, want %s", hash1, want)
	}

	want := commitFile(t, upstream, "README", "two\n")
	// local edits are discarded by the hard reset
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("dirty\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := vcs.Sync(ctx, remote, "main", dir, false); err != nil {
		t.Fatalf("Sync (update) failed: %v", err)
	}
	hash2, err := vcs.Head(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if hash2 != want {
		t.Errorf("HEAD after update = %s, want %s", hash2, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, "README"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two\n" {
		t.Errorf("README = %q, want upstream content", data)
	}
}

func TestGitVCS_SyncBadRef(t *testing.T) {
	requireGit(t)
	upstream := newUpstream(t)
	dir := filepath.Join(t.TempDir(), "skia")
	err := NewGitVCS().Sync(context.Background(), "file://"+upstream, "no-such-branch", dir, false)
	if err == nil {
		t.Fatal("expected error for unknown branch")
	}
	if !strings.Contains(err.Error(), "git clone --branch no-such-branch") {
		t.Errorf("error lacks the failing command line: %v", err)
	}
}

func TestGitVCS_Clone(t *testing.T) {
	requireGit(t)
	vcs := NewGitVCS()
	ctx := context.Background()

	upstream := newUpstream(t)
	dir := filepath.Join(t.TempDir(), "depot_tools")
	if err := vcs.Clone(ctx, upstream, dir); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	first, err := vcs.Head(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}

	// an existing checkout is never updated
	commitFile(t, upstream, "README", "two\n")
	if err := vcs.Clone(ctx, upstream, dir); err != nil {
		t.Fatalf("second Clone failed: %v", err)
	}
	again, err := vcs.Head(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Errorf("Clone updated an existing checkout: %s -> %s", first, again)
	}
}

func TestWithGitPath(t *testing.T) {
	g := NewGitVCS(WithGitPath("/opt/git/bin/git")).(*gitVCS)
	if g.git != "/opt/git/bin/git" {
		t.Errorf("git = %s", g.git)
	}
	g = NewGitVCS(WithGitPath("")).(*gitVCS)
	if g.git != "git" {
		t.Errorf("empty path should keep default, got %s", g.git)
	}
}
