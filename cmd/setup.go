package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/timvw/powerline-tmux/internal/logger"
	"github.com/timvw/powerline-tmux/internal/tmux"
)

var (
	flagConfigDir   string
	flagSetupDryRun bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Source the tmux configuration matching the installed tmux",
	Long: `Source powerline-base.conf and every version-specific file from the
config directory that applies to the installed tmux:

  powerline_tmux_X.Y.conf        exactly X.Y
  powerline_tmux_X.Y_plus.conf   X.Y and newer
  powerline_tmux_X.Y_minus.conf  X.Y and older

Files are sourced from the broadest range to the most specific.
POWERLINE_COMMAND is then exported to tmux when it is set in the caller's
environment, and finally the attached client is refreshed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir := flagConfigDir
		if dir == "" {
			dir = cfg.ConfigDir
		}
		if dir == "" {
			return fmt.Errorf("no config directory: pass --config-dir or set POWERLINE_TMUX_CONFIG_DIR")
		}

		v, err := client.Version(ctx)
		if err != nil {
			return fmt.Errorf("failed to get tmux version: %w", err)
		}
		logger.FromContext(ctx).Debug("tmux version", zap.Stringer("version", v), zap.String("config_dir", dir))

		if flagSetupDryRun {
			files, err := tmux.MatchingConfigs(dir, v)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintln(out, f.Path)
			}
			return nil
		}

		if err := client.SourceConfigs(ctx, dir, v); err != nil {
			return err
		}
		// Export before refreshing so the first redraw already sees it.
		if pc := os.Getenv("POWERLINE_COMMAND"); pc != "" {
			if err := client.SetEnvironment(ctx, "POWERLINE_COMMAND", pc, false); err != nil {
				return fmt.Errorf("failed to export POWERLINE_COMMAND: %w", err)
			}
		}
		return client.RefreshClient(ctx)
	},
}

func init() {
	setupCmd.Flags().StringVar(&flagConfigDir, "config-dir", "", "directory with powerline tmux config files (default from config)")
	setupCmd.Flags().BoolVar(&flagSetupDryRun, "dry-run", false, "print the version-specific files that would be sourced")
	rootCmd.AddCommand(setupCmd)
}
