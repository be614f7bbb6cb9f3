package deploy

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Runner starts an invocation and waits for it to finish.
type Runner interface {
	// Run returns the exit code of the finished process, or an error if it
	// could not be started at all.
	Run(inv Invocation) (int, error)
}

// ExitCodeUnavailable is reported for processes that terminated without an
// exit code, eg. when killed by a signal.
const ExitCodeUnavailable = 1

// SpawnError is returned when an external tool could not be started.
type SpawnError struct {
	Tool Tool
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to run external tool %s (%s): %v", e.Tool, e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExecRunner runs tools as child processes. There is no timeout: Run blocks
// until the child exits.
type ExecRunner struct {
	// Stdin, Stdout and Stderr default to the current process' streams.
	Stdin          io.Reader
	Stdout, Stderr io.Writer
	// Env is appended to the current environment.
	Env []string
}

func (r *ExecRunner) Run(inv Invocation) (int, error) {
	path, err := exec.LookPath(inv.Path)
	if err != nil {
		return 0, &SpawnError{Tool: inv.Tool, Path: inv.Path, Err: err}
	}

	cmd := exec.Command(path, inv.Args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return 0, &SpawnError{Tool: inv.Tool, Path: path, Err: err}
	}
	if code := ee.ExitCode(); code >= 0 {
		return code, nil
	}
	slog.Warn("Tool terminated without exit code", "tool", inv.Tool, "state", ee.String())
	return ExitCodeUnavailable, nil
}
