package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "powerline-tmux"

// Metrics holds the OTEL instruments for tmux invocations.
// All methods are safe on a nil *Metrics.
type Metrics struct {
	// Commands counts tmux invocations, partitioned by subcommand and outcome
	// (ok, exit_nonzero, error).
	Commands metric.Int64Counter
	// CommandDuration is the wall-clock time of each invocation.
	CommandDuration metric.Float64Histogram

	// VersionQueries counts `tmux -V` lookups by result (ok, command_error, parse_error).
	VersionQueries metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Commands, err = meter.Int64Counter("tmux.commands",
		metric.WithDescription("Total tmux invocations partitioned by subcommand and outcome"))
	if err != nil {
		return nil, err
	}

	m.CommandDuration, err = meter.Float64Histogram("tmux.command.duration",
		metric.WithDescription("Duration of tmux invocations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.VersionQueries, err = meter.Int64Counter("tmux.version.queries",
		metric.WithDescription("Number of tmux version lookups partitioned by result"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCommand records one finished tmux invocation.
func (m *Metrics) RecordCommand(ctx context.Context, subcommand, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tmux.subcommand", subcommand),
		attribute.String("tmux.outcome", outcome),
	)
	m.Commands.Add(ctx, 1, attrs)
	m.CommandDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordVersionQuery records a version lookup with the given result.
func (m *Metrics) RecordVersionQuery(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.VersionQueries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tmux.version.result", result),
	))
}
