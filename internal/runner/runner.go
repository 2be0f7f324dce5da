// Package runner implements the Process Runner contract (§6) and a
// default os/exec-backed implementation. The contract itself is an
// external collaborator per §1 — the core depends only on the Runner
// interface — but a real implementation is needed for cmd/boxmux to run
// anything end to end.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// DefaultTimeout is the implementation-defined ceiling the core blocks
// for captured output before proceeding with a truncation indicator
// (§5).
const DefaultTimeout = 2 * time.Second

// Result is what one command execution reports back to the core.
type Result struct {
	Stdout   string
	ExitCode int
	TimedOut bool
}

// Runner is the Process Runner contract (§6): run a command in a shell,
// inheriting the current working directory and environment unchanged.
// Stderr is discarded in v1.
type Runner interface {
	Run(ctx context.Context, command string) (Result, error)
}

// ShellRunner runs commands via "sh -c", enforcing Timeout (defaulting
// to DefaultTimeout) as the ceiling the core blocks for output.
type ShellRunner struct {
	Timeout time.Duration
}

// Run implements Runner.
func (r ShellRunner) Run(ctx context.Context, command string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "sh", "-c", command)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()

	if cctx.Err() == context.DeadlineExceeded {
		return Result{Stdout: stdout.String(), TimedOut: true}, nil
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return Result{Stdout: stdout.String(), ExitCode: exitErr.ExitCode()}, nil
		}
		return Result{}, err
	}

	return Result{Stdout: stdout.String(), ExitCode: 0}, nil
}
