package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/timvw/powerline-tmux/internal/config"
	"github.com/timvw/powerline-tmux/internal/logger"
	telem "github.com/timvw/powerline-tmux/internal/otel"
	"github.com/timvw/powerline-tmux/internal/tmux"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagExe     string
	flagTimeout time.Duration
	flagVerbose bool
)

// Set up by the root command before any subcommand runs.
var (
	cfg    *config.Config
	client *tmux.Client
	tel    *telem.Telemetry
	cancel context.CancelFunc = func() {}
	// rootLog is kept only for teardown; subcommands read the logger from
	// their context.
	rootLog *zap.Logger
)

// executor runs the tmux binary. Tests replace it.
var executor tmux.Executor = tmux.ExecExecutor{}

var rootCmd = &cobra.Command{
	Use:   "powerline-tmux",
	Short: "Drive tmux on behalf of a powerline status line",
	Long: `powerline-tmux wraps the tmux executable for a status line:
it reports the installed tmux version, sets tmux global environment
variables and sources configuration files matching that version.

The tmux binary is taken from --exe, POWERLINE_TMUX_EXE, the config
file, or "tmux" on PATH, in that order.`,
	SilenceUsage:      true,
	PersistentPreRunE: initClient,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	cancel()
	teardown()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&flagExe, "exe", "", "tmux executable (overrides POWERLINE_TMUX_EXE and config)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "bound on the whole command, e.g. 5s (default from config: 10s)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log every tmux invocation to stderr")
}

// initClient loads configuration and builds the tmux client shared by all subcommands.
func initClient(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(flagVerbose || cfg.Verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	rootLog = log
	if cfg.ConfigFile != "" {
		log.Debug("config loaded", zap.String("path", cfg.ConfigFile))
	}

	exe := cfg.Executable
	if flagExe != "" {
		exe = flagExe
	}

	ctx := logger.With(logger.ContextWithLogger(cmd.Context(), log), zap.String("tmux", exe))
	timeout := cfg.TimeoutDuration
	if flagTimeout > 0 {
		timeout = flagTimeout
	}
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	telem.Version = Version
	tel, err = telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	client = tmux.NewClient(
		tmux.WithExecutable(exe),
		tmux.WithExecutor(executor),
		tmux.WithTelemetry(tel),
	)
	cmd.SetContext(ctx)
	return nil
}

// teardown flushes telemetry and logs. It runs even when the subcommand
// failed, and is a no-op if initClient never ran.
func teardown() {
	if rootLog == nil {
		return
	}
	// Fresh deadline: the command context may already be done.
	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := tel.Shutdown(ctx); err != nil {
		rootLog.Warn("telemetry shutdown", zap.Error(err))
	}
	_ = rootLog.Sync()
}
