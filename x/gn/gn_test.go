package gn

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goplus/skbuild/internal/toolexec"
)

func TestGen(t *testing.T) {
	src := filepath.Join(t.TempDir(), "skia")
	out := filepath.Join(t.TempDir(), "tmp", "skia", "linux_Release_x64_gpu")
	rec := &toolexec.Recorder{}

	args := "cc = \"clang\"\nis_debug = true\n"
	if err := New(src, rec).Gen(context.Background(), out, args); err != nil {
		t.Fatalf("Gen: %v", err)
	}
	if len(rec.Calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(rec.Calls))
	}
	c := rec.Calls[0]
	if c.Name != filepath.Join(src, "bin", "gn") {
		t.Errorf("bin = %s", c.Name)
	}
	if c.Dir != src {
		t.Errorf("dir = %s, want %s", c.Dir, src)
	}
	want := []string{"gen", out, "--args=" + args}
	if len(c.Args) != len(want) {
		t.Fatalf("args = %q", c.Args)
	}
	for i := range want {
		if c.Args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, c.Args[i], want[i])
		}
	}
}

func TestBin(t *testing.T) {
	rec := &toolexec.Recorder{}
	g := New(t.TempDir(), rec)
	g.Bin("/usr/local/bin/gn")
	if err := g.Gen(context.Background(), filepath.Join(t.TempDir(), "out"), ""); err != nil {
		t.Fatal(err)
	}
	if rec.Calls[0].Name != "/usr/local/bin/gn" {
		t.Errorf("bin = %s", rec.Calls[0].Name)
	}
}

func TestBinEmptyKeepsCheckout(t *testing.T) {
	rec := &toolexec.Recorder{}
	src := t.TempDir()
	g := New(src, rec)
	g.Bin("")
	if err := g.Gen(context.Background(), filepath.Join(t.TempDir(), "out"), ""); err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(src, "bin", "gn"); rec.Calls[0].Name != want {
		t.Errorf("bin = %s, want %s", rec.Calls[0].Name, want)
	}
}
