// Package bgpq runs the external route-object query tool.
package bgpq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command is a single tool invocation. It is built per call and never reused.
type Command struct {
	Path string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Invocation holds everything captured from a finished process.
type Invocation struct {
	Command  Command
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

//go:generate mockgen -destination ./mock/mock_runner.go . Runner
type Runner interface {
	// Run blocks until the process exits and both streams are drained.
	// A non-zero exit status is reported through Invocation.ExitCode, the
	// error is reserved for processes that could not run to completion.
	Run(ctx context.Context, cmd Command) (*Invocation, error)
}

type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (*ExecRunner) Run(ctx context.Context, command Command) (*Invocation, error) {
	if command.Path == "" {
		return nil, errors.New("no executable given")
	}

	cmd := exec.CommandContext(ctx, command.Path, command.Args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	invocation := &Invocation{
		Command: Command{
			Path: command.Path,
			Args: append([]string(nil), command.Args...),
		},
	}

	err := cmd.Run()
	invocation.Stdout = stdout.Bytes()
	invocation.Stderr = stderr.Bytes()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil && exitErr.ExitCode() >= 0 {
			invocation.ExitCode = exitErr.ExitCode()
			return invocation, nil
		}
		invocation.ExitCode = -1
		if ctxErr := ctx.Err(); ctxErr != nil {
			return invocation, fmt.Errorf("failed to execute %s: %w", command.Path, ctxErr)
		}
		return invocation, fmt.Errorf("failed to execute %s: %w", command.Path, err)
	}

	return invocation, nil
}
