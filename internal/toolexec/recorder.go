package toolexec

import (
	"context"
	"path/filepath"
)

// Call is one command seen by a Recorder.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Base returns the executable's base name, so "/src/bin/gn" reports "gn".
func (c Call) Base() string { return filepath.Base(c.Name) }

// Recorder is a Runner that records commands instead of executing them.
// Hook, if set, runs for every call and its error is returned.
type Recorder struct {
	Calls []Call
	Hook  func(Call) error
}

func (r *Recorder) Run(ctx context.Context, dir, name string, args ...string) error {
	c := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	r.Calls = append(r.Calls, c)
	if r.Hook != nil {
		return r.Hook(c)
	}
	return nil
}

// Named returns the recorded calls whose executable base name is base.
func (r *Recorder) Named(base string) []Call {
	var calls []Call
	for _, c := range r.Calls {
		if c.Base() == base {
			calls = append(calls, c)
		}
	}
	return calls
}
