package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Result holds the captured output of a finished external process.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes an external program synchronously.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// StreamRunner is a Runner that also copies stdout to a writer while the
// process runs. The full stdout is still returned in Result.
type StreamRunner interface {
	Runner
	RunStream(ctx context.Context, stdout io.Writer, name string, args ...string) (Result, error)
}

// ExitError is returned when an external tool cannot be started or exits
// with a non-zero status. Stderr holds the tool's captured error output.
type ExitError struct {
	Name     string
	Args     []string
	ExitCode int // -1 when the process never ran
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s failed to start: %v", e.Name, e.Err)
	}
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Name, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.ExitCode, e.Stderr)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the tool is missing from the execution environment.
func (e *ExitError) NotFound() bool {
	return errors.Is(e.Err, exec.ErrNotFound)
}

// ExecRunner runs programs with os/exec, capturing stdout and stderr separately.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return r.RunStream(ctx, nil, name, args...)
}

// RunStream is Run with stdout also copied to w as it is produced.
// A nil w behaves like Run.
func (r *ExecRunner) RunStream(ctx context.Context, w io.Writer, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	if w != nil {
		cmd.Stdout = io.MultiWriter(&stdout, w)
	}
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return result, &ExitError{
		Name:     name,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
}

var _ StreamRunner = (*ExecRunner)(nil)

// CommandLine renders a command the way it would be typed in a shell.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t'\"") {
			arg = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
