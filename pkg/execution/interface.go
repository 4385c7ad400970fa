// Package execution launches the wrapped binaries. A resolved invocation is
// described by a Command; Runner implementations execute it either directly
// on the host or through a container runtime.
package execution

import (
	"context"
	"fmt"
	"time"
)

// Command is a fully resolved invocation of an external binary.
type Command struct {
	Argv  []string
	Env   []string // extra environment entries, KEY=VALUE
	Dir   string   // working directory, empty for the current one
	Stdin string   // fed to the process standard input when non-empty
}

// Result captures the outcome of a command execution.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error // detailed go error if any
}

// Runner executes a single resolved command.
type Runner interface {
	// Run executes the command within the context. It returns a Result
	// containing the exit code and the captured output.
	Run(ctx context.Context, cmd Command) Result
}

// ExitError reports a wrapped binary that finished with a non-zero status.
// The code is surfaced unchanged to the caller.
type ExitError struct {
	Cmd  string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Cmd, e.Code)
}

// StartError reports a binary that could not be launched at all.
type StartError struct {
	Cmd string
	Err error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }
