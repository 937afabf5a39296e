// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"fmt"
	"io"
	"splitter/command"
	"sync"
)

// Call records one invocation made through a FakeRunner.
type Call struct {
	Name string
	Args []string
}

// Handler produces the outcome of a single invocation.
type Handler func(name string, args []string) (command.Result, error)

// FakeRunner records every call and delegates the outcome to Handler.
// A nil Handler makes every call succeed with empty output.
type FakeRunner struct {
	Handler Handler

	mu    sync.Mutex
	calls []Call
}

// Run implements command.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (command.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return command.Result{}, err
	}
	if f.Handler == nil {
		return command.Result{}, nil
	}
	return f.Handler(name, args)
}

// RunStream implements command.StreamRunner. The handler's stdout is written
// to w before the call returns.
func (f *FakeRunner) RunStream(ctx context.Context, w io.Writer, name string, args ...string) (command.Result, error) {
	result, err := f.Run(ctx, name, args...)
	if w != nil && len(result.Stdout) > 0 {
		if _, werr := w.Write(result.Stdout); werr != nil && err == nil {
			err = werr
		}
	}
	return result, err
}

// Calls returns a copy of the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls whose program name is name.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

var _ command.StreamRunner = (*FakeRunner)(nil)

// Fail builds an ExitError the way command.ExecRunner reports a non-zero exit.
func Fail(name string, args []string, code int, stderr string) error {
	return &command.ExitError{
		Name:     name,
		Args:     args,
		ExitCode: code,
		Stderr:   stderr,
		Err:      fmt.Errorf("exit status %d", code),
	}
}
