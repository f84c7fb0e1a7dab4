// Package toolexec runs the external programs the build pipeline depends on.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sys/execabs"
)

// Runner executes one external command and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// Error is returned when a command cannot be started or exits non-zero.
type Error struct {
	Cmd    string // shell-like rendering of the command line
	Dir    string
	Output string // captured combined output, possibly truncated
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "command failed: %s: %v", e.Cmd, e.Err)
	if e.Output != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Output)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the process exit status, or -1 if it never ran.
func (e *Error) ExitCode() int {
	var ee *exec.ExitError
	if errors.As(e.Err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// maxOutputLines bounds how much captured output an Error keeps.
const maxOutputLines = 60

type execRunner struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
}

// Option configures the runner returned by New.
type Option func(*execRunner)

// WithOutput streams child stdout and stderr to the given writers in
// addition to capturing them.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *execRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnv appends key=value pairs to the environment of every command.
func WithEnv(env ...string) Option {
	return func(r *execRunner) {
		r.env = append(r.env, env...)
	}
}

// New returns a Runner backed by os/exec.
func New(opts ...Option) Runner {
	r := &execRunner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := execabs.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	// os/exec copies stdout and stderr on separate goroutines; both land in
	// out and may share a streaming writer, so writes are serialized.
	var (
		out bytes.Buffer
		mu  sync.Mutex
	)
	cmd.Stdout = &lockedWriter{mu: &mu, w: tee(&out, r.stdout)}
	cmd.Stderr = &lockedWriter{mu: &mu, w: tee(&out, r.stderr)}

	if err := cmd.Run(); err != nil {
		return &Error{
			Cmd:    CommandLine(name, args...),
			Dir:    dir,
			Output: tail(out.String(), maxOutputLines),
			Err:    err,
		}
	}
	return nil
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return "...\n" + strings.Join(lines[len(lines)-n:], "\n")
}

// CommandLine renders name and args the way a user would type them.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(name))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
