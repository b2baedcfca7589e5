package tmux

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"go.uber.org/zap"
)

// Executor runs an external command. argv[0] is the executable.
// Implementations must return a *CommandError on failure.
type Executor interface {
	// Run waits for the command and discards its output.
	Run(ctx context.Context, argv []string) error
	// Output waits for the command and returns its standard output.
	// The logger receives diagnostics about the invocation.
	Output(ctx context.Context, log *zap.Logger, argv []string) (string, error)
}

// ExecExecutor runs commands with os/exec, inheriting the caller's
// environment and working directory.
type ExecExecutor struct{}

var _ Executor = ExecExecutor{}

// Run executes argv and discards stdout.
func (ExecExecutor) Run(ctx context.Context, argv []string) error {
	_, err := execute(ctx, argv)
	return err
}

// Output executes argv and returns raw stdout.
func (ExecExecutor) Output(ctx context.Context, log *zap.Logger, argv []string) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("running command", zap.Strings("argv", argv))
	out, err := execute(ctx, argv)
	if err != nil {
		log.Debug("command failed", zap.Strings("argv", argv), zap.Error(err))
		return "", err
	}
	return out, nil
}

func execute(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", &CommandError{ExitCode: -1, Err: errors.New("empty command")}
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		cerr := &CommandError{Args: argv, ExitCode: -1, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// -1 when killed by a signal, which includes context cancellation.
			cerr.ExitCode = exitErr.ExitCode()
		}
		return "", cerr
	}
	return stdout.String(), nil
}
