// Package tmux drives an external tmux binary on behalf of a status line:
// it runs tmux subcommands, manages tmux's global environment, sources
// configuration files and parses the installed tmux version.
//
// Every call spawns one tmux process and waits for it. A Client holds only
// immutable settings and may be shared between goroutines.
package tmux

import (
	"context"
	"errors"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/timvw/powerline-tmux/internal/logger"
	telem "github.com/timvw/powerline-tmux/internal/otel"
)

const (
	// ExecutableEnv overrides the tmux executable name when set and non-empty.
	ExecutableEnv = "POWERLINE_TMUX_EXE"
	// DefaultExecutable is used when ExecutableEnv is unset.
	DefaultExecutable = "tmux"
)

// ExecutableName returns the tmux executable to invoke.
func ExecutableName() string {
	if v := os.Getenv(ExecutableEnv); v != "" {
		return v
	}
	return DefaultExecutable
}

// Client runs tmux commands.
type Client struct {
	executable string
	exec       Executor
	log        *zap.Logger
	tracer     trace.Tracer
	metrics    *telem.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithExecutable pins the executable name, bypassing ExecutableName.
// An empty name is ignored.
func WithExecutable(name string) Option {
	return func(c *Client) {
		c.executable = name
	}
}

// WithExecutor replaces the process runner, mostly for tests.
func WithExecutor(e Executor) Option {
	return func(c *Client) {
		c.exec = e
	}
}

// WithLogger sets the logger handed to the executor on output-capturing calls.
// Without it the logger carried by the call's context is used.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithTelemetry records a span and metrics for every tmux invocation.
func WithTelemetry(t *telem.Telemetry) Option {
	return func(c *Client) {
		if t == nil {
			return
		}
		c.tracer = t.Tracer
		c.metrics = t.Metrics
	}
}

// NewClient creates a Client using os/exec and the global tracer.
func NewClient(opts ...Option) *Client {
	c := &Client{
		exec:   ExecExecutor{},
		tracer: otel.Tracer("powerline-tmux"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Executable returns the executable name the next call will use.
func (c *Client) Executable() string {
	if c.executable != "" {
		return c.executable
	}
	return ExecutableName()
}

// Run executes tmux with args and discards its output.
func (c *Client) Run(ctx context.Context, args ...string) error {
	argv := c.argv(args)
	ctx, done := c.observe(ctx, args)
	err := c.exec.Run(ctx, argv)
	done(err)
	return err
}

// Output executes tmux with args and returns its raw standard output.
func (c *Client) Output(ctx context.Context, args ...string) (string, error) {
	argv := c.argv(args)
	ctx, done := c.observe(ctx, args)
	out, err := c.exec.Output(ctx, c.logger(ctx), argv)
	done(err)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) logger(ctx context.Context) *zap.Logger {
	if c.log != nil {
		return c.log
	}
	return logger.FromContext(ctx)
}

func (c *Client) argv(args []string) []string {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, c.Executable())
	return append(argv, args...)
}

// observe starts a span for one invocation and returns a func that ends it
// and records the outcome.
func (c *Client) observe(ctx context.Context, args []string) (context.Context, func(error)) {
	sub := "none"
	if len(args) > 0 {
		sub = args[0]
	}
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "tmux "+sub,
		trace.WithAttributes(
			attribute.String("tmux.subcommand", sub),
			attribute.StringSlice("tmux.args", args),
		))
	return ctx, func(err error) {
		outcome := outcomeOf(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		c.metrics.RecordCommand(ctx, sub, outcome, time.Since(start))
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var cerr *CommandError
	if errors.As(err, &cerr) && cerr.Exited() {
		return "exit_nonzero"
	}
	return "error"
}
