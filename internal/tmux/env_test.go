package tmux

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timvw/powerline-tmux/internal/logger"
)

func TestSetEnvironment(t *testing.T) {
	f := newFakeExecutor()
	c := NewClient(WithExecutor(f), WithExecutable("tmux"))

	require.NoError(t, c.SetEnvironment(context.Background(), "POWERLINE_PANE", "%3", true))
	assert.Equal(t, []string{
		"tmux set-environment -g POWERLINE_PANE %3",
		"tmux set-environment -r POWERLINE_PANE",
	}, f.argvs())
}

func TestSetEnvironmentKeep(t *testing.T) {
	f := newFakeExecutor()
	c := NewClient(WithExecutor(f), WithExecutable("tmux"))

	require.NoError(t, c.SetEnvironment(context.Background(), "POWERLINE_COMMAND", "powerline", false))
	assert.Equal(t, []string{"tmux set-environment -g POWERLINE_COMMAND powerline"}, f.argvs())
}

func TestSetEnvironmentSwallowsRemoveExitFailure(t *testing.T) {
	l, logs := logger.TestLogger()
	f := newFakeExecutor()
	f.errs["set-environment -r FOO"] = exitErr("set-environment", "-r", "FOO")
	c := NewClient(WithExecutor(f), WithExecutable("tmux"), WithLogger(l))

	require.NoError(t, c.SetEnvironment(context.Background(), "FOO", "bar", true))
	assert.Len(t, f.argvs(), 2)
	assert.Equal(t, 1, logs.FilterMessage("ignoring set-environment -r failure").Len())
}

func TestSetEnvironmentLogsToContextLogger(t *testing.T) {
	l, logs := logger.TestLogger()
	f := newFakeExecutor()
	f.errs["set-environment -r FOO"] = exitErr("set-environment", "-r", "FOO")
	c := NewClient(WithExecutor(f), WithExecutable("tmux"))

	ctx := logger.ContextWithLogger(context.Background(), l)
	require.NoError(t, c.SetEnvironment(ctx, "FOO", "bar", true))
	entries := logs.FilterMessage("ignoring set-environment -r failure").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "FOO", entries[0].ContextMap()["name"])
}

func TestSetEnvironmentPropagatesRemoveStartFailure(t *testing.T) {
	f := newFakeExecutor()
	f.errs["set-environment -r FOO"] = startErr("set-environment", "-r", "FOO")
	c := NewClient(WithExecutor(f))

	err := c.SetEnvironment(context.Background(), "FOO", "bar", true)
	var cerr *CommandError
	require.ErrorAs(t, err, &cerr)
	assert.False(t, cerr.Exited())
}

func TestSetEnvironmentPropagatesSetFailure(t *testing.T) {
	f := newFakeExecutor()
	f.errs["set-environment -g FOO bar"] = exitErr("set-environment", "-g", "FOO", "bar")
	c := NewClient(WithExecutor(f))

	err := c.SetEnvironment(context.Background(), "FOO", "bar", true)
	var cerr *CommandError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, f.argvs(), 1, "remove must not run after a failed set")
}

func TestSourceFile(t *testing.T) {
	f := newFakeExecutor()
	c := NewClient(WithExecutor(f), WithExecutable("tmux"))

	require.NoError(t, c.SourceFile(context.Background(), "/etc/powerline/tmux/powerline.conf"))
	assert.Equal(t, []string{"tmux source /etc/powerline/tmux/powerline.conf"}, f.argvs())

	f.errs["source /missing.conf"] = exitErr("source", "/missing.conf")
	require.Error(t, c.SourceFile(context.Background(), "/missing.conf"))
}

func TestRefreshClient(t *testing.T) {
	f := newFakeExecutor()
	f.errs["refresh-client"] = exitErr("refresh-client")
	c := NewClient(WithExecutor(f))
	require.NoError(t, c.RefreshClient(context.Background()))

	f.errs["refresh-client"] = startErr("refresh-client")
	require.Error(t, c.RefreshClient(context.Background()))
}
