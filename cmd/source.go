package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source <file>",
	Short: "Make tmux source a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.SourceFile(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to source %q: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}
