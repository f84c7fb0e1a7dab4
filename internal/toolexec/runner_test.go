package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestHelperProcess is re-executed as a child by the tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("SKBUILD_HELPER") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	switch args[0] {
	case "echo":
		fmt.Println(strings.Join(args[1:], " "))
		os.Exit(0)
	case "fail":
		fmt.Fprintln(os.Stderr, "boom")
		os.Exit(3)
	case "chatter":
		for i := 0; i < 2000; i++ {
			fmt.Fprintln(os.Stdout, "out")
			fmt.Fprintln(os.Stderr, "err")
		}
		os.Exit(1)
	case "env":
		fmt.Println(os.Getenv("SKBUILD_TEST_VALUE"))
		os.Exit(0)
	}
	os.Exit(2)
}

func helperArgs(args ...string) []string {
	return append([]string{"-test.run=TestHelperProcess", "--"}, args...)
}

func TestRunSuccess(t *testing.T) {
	t.Setenv("SKBUILD_HELPER", "1")
	var stdout bytes.Buffer
	r := New(WithOutput(&stdout, nil))
	if err := r.Run(context.Background(), "", os.Args[0], helperArgs("echo", "hello", "world")...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(stdout.String(), "hello world") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunFailure(t *testing.T) {
	t.Setenv("SKBUILD_HELPER", "1")
	r := New()
	err := r.Run(context.Background(), "", os.Args[0], helperArgs("fail")...)
	if err == nil {
		t.Fatal("expected failure")
	}
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("error %T is not *Error", err)
	}
	if te.ExitCode() != 3 {
		t.Errorf("ExitCode = %d, want 3", te.ExitCode())
	}
	if !strings.Contains(te.Output, "boom") {
		t.Errorf("Output = %q, want captured stderr", te.Output)
	}
	if !strings.Contains(te.Error(), "fail") {
		t.Errorf("Error() = %q lacks the command line", te.Error())
	}
}

// Both child streams are written concurrently into one writer and into the
// captured output. Run with -race.
func TestRunSharedOutput(t *testing.T) {
	t.Setenv("SKBUILD_HELPER", "1")
	var w bytes.Buffer
	r := New(WithOutput(&w, &w))
	err := r.Run(context.Background(), "", os.Args[0], helperArgs("chatter")...)
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if te.ExitCode() != 1 {
		t.Errorf("ExitCode = %d, want 1", te.ExitCode())
	}
	if got, want := w.Len(), 2000*len("out\n")+2000*len("err\n"); got != want {
		t.Errorf("streamed %d bytes, want %d", got, want)
	}
	if n := strings.Count(te.Output, "\n") + 1; n != maxOutputLines+1 {
		t.Errorf("captured %d lines, want %d", n, maxOutputLines+1)
	}
}

func TestRunEnv(t *testing.T) {
	t.Setenv("SKBUILD_HELPER", "1")
	var stdout bytes.Buffer
	r := New(WithOutput(&stdout, nil), WithEnv("SKBUILD_TEST_VALUE=42"))
	if err := r.Run(context.Background(), "", os.Args[0], helperArgs("env")...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "42" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunNotFound(t *testing.T) {
	r := New()
	err := r.Run(context.Background(), "", filepath.Join(t.TempDir(), "missing-tool"))
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if te.ExitCode() != -1 {
		t.Errorf("ExitCode = %d, want -1", te.ExitCode())
	}
}

func TestCommandLine(t *testing.T) {
	got := CommandLine("gn", "gen", "/tmp/out dir", "--args=cc = \"clang\"")
	want := `gn gen '/tmp/out dir' '--args=cc = "clang"'`
	if got != want {
		t.Errorf("CommandLine = %s, want %s", got, want)
	}
	if got := CommandLine("x", ""); got != "x ''" {
		t.Errorf("CommandLine empty arg = %s", got)
	}
}

func TestTail(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, fmt.Sprint(i))
	}
	got := tail(strings.Join(lines, "\n")+"\n", 3)
	if got != "...\n7\n8\n9" {
		t.Errorf("tail = %q", got)
	}
	if got := tail("a\nb\n", 3); got != "a\nb" {
		t.Errorf("tail short = %q", got)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	err := Check(filepath.Join(dir, "nope"))
	var me *MissingError
	if !errors.As(err, &me) || len(me.Tools) != 1 {
		t.Fatalf("Check = %v, want one missing tool", err)
	}
	if err := Check(os.Args[0]); err != nil {
		t.Errorf("Check(test binary) = %v", err)
	}
}

func TestPrependPath(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	if err := PrependPath("/opt/tools"); err != nil {
		t.Fatal(err)
	}
	want := "/opt/tools" + string(os.PathListSeparator) + "/usr/bin"
	if got := os.Getenv("PATH"); got != want {
		t.Errorf("PATH = %q, want %q", got, want)
	}
	if err := PrependPath("/opt/tools"); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("PATH"); got != want {
		t.Errorf("PrependPath should not duplicate, PATH = %q", got)
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{Hook: func(c Call) error {
		if c.Base() == "ninja" {
			return errors.New("ninja failed")
		}
		return nil
	}}
	ctx := context.Background()
	if err := r.Run(ctx, "/src", "/src/bin/gn", "gen", "out"); err != nil {
		t.Fatal(err)
	}
	if err := r.Run(ctx, "", "ninja", "-C", "out"); err == nil {
		t.Fatal("hook error not returned")
	}
	if got := len(r.Named("gn")); got != 1 {
		t.Errorf("Named(gn) = %d calls", got)
	}
	if got := len(r.Calls); got != 2 {
		t.Errorf("Calls = %d", got)
	}
}
