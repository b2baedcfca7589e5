package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagKeep bool

var setenvCmd = &cobra.Command{
	Use:   "setenv <name> <value>",
	Short: "Set a tmux global environment variable",
	Long: `Set a variable in tmux's global environment (set-environment -g).

By default the variable is then marked for removal from the environment of
clients attached later (set-environment -r), so it is only visible to the
tmux server. Use --keep to skip that step.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, value := args[0], args[1]
		if err := client.SetEnvironment(cmd.Context(), name, value, !flagKeep); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
		return nil
	},
}

func init() {
	setenvCmd.Flags().BoolVar(&flagKeep, "keep", false, "do not run set-environment -r after setting")
	rootCmd.AddCommand(setenvCmd)
}
