package tmux

import (
	"fmt"
	"strings"
)

// CommandError is returned when a tmux invocation could not be started or
// exited with a non-zero status.
type CommandError struct {
	// Args is the full argument vector, executable name first.
	Args []string
	// ExitCode is the process exit status, or -1 if the process never ran.
	ExitCode int
	// Stderr holds whatever the process wrote to standard error.
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	cmdline := strings.Join(e.Args, " ")
	if !e.Exited() {
		return fmt.Sprintf("%s: %v", cmdline, e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return fmt.Sprintf("%s: exit status %d: %s", cmdline, e.ExitCode, stderr)
	}
	return fmt.Sprintf("%s: exit status %d", cmdline, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Exited reports whether the process ran to completion and exited non-zero,
// as opposed to failing to start at all.
func (e *CommandError) Exited() bool {
	return e.ExitCode > 0
}

// VersionParseError is returned when `tmux -V` output has an unexpected shape.
type VersionParseError struct {
	Raw string
}

func (e *VersionParseError) Error() string {
	return fmt.Sprintf("unrecognized tmux version output %q", e.Raw)
}
