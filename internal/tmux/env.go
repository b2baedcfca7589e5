package tmux

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// SetEnvironment sets a tmux global environment variable.
//
// With removeAfter, it then runs `set-environment -r` so the variable is
// removed from the environment of clients attached later. Some tmux releases
// (2.0 in particular) reject that second command; a non-zero exit there is
// ignored. A failure to start tmux at all is still returned.
func (c *Client) SetEnvironment(ctx context.Context, name, value string, removeAfter bool) error {
	if err := c.Run(ctx, "set-environment", "-g", name, value); err != nil {
		return err
	}
	if !removeAfter {
		return nil
	}
	err := c.Run(ctx, "set-environment", "-r", name)
	if err == nil {
		return nil
	}
	if isNonZeroExit(err) {
		c.logger(ctx).Debug("ignoring set-environment -r failure", zap.String("name", name), zap.Error(err))
		return nil
	}
	return err
}

// SourceFile makes tmux source the configuration file at path.
func (c *Client) SourceFile(ctx context.Context, path string) error {
	return c.Run(ctx, "source", path)
}

// RefreshClient redraws the attached client. Without an attached client tmux
// exits non-zero, which is not an error here.
func (c *Client) RefreshClient(ctx context.Context) error {
	err := c.Run(ctx, "refresh-client")
	if err != nil && !isNonZeroExit(err) {
		return err
	}
	return nil
}

func isNonZeroExit(err error) bool {
	var cerr *CommandError
	return errors.As(err, &cerr) && cerr.Exited()
}
