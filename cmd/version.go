package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/powerline-tmux/internal/tmux"
)

var (
	flagVersionJSON bool
	flagVersionMin  string
)

// versionOutput is the --json shape of the version command.
type versionOutput struct {
	Executable  string `json:"executable"`
	Major       int    `json:"major"`
	Minor       int    `json:"minor"`
	Suffix      string `json:"suffix,omitempty"`
	Development bool   `json:"development"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the installed tmux version",
	Long: `Run "tmux -V" and print the parsed version.

Development builds report "master" and compare newer than any release.
With --min X.Y the command fails if the installed tmux is older than X.Y.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := client.Version(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get tmux version: %w", err)
		}

		if flagVersionJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(versionOutput{
				Executable:  client.Executable(),
				Major:       v.Major,
				Minor:       v.Minor,
				Suffix:      v.Suffix,
				Development: v.Development,
			}); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}

		if flagVersionMin != "" {
			required, err := parseMinVersion(flagVersionMin)
			if err != nil {
				return err
			}
			if v.Less(required) {
				return fmt.Errorf("tmux %s is older than required %s", v, required)
			}
		}
		return nil
	},
}

// parseMinVersion accepts "3", "3.2" or "3.2a" by reusing the tmux -V grammar.
func parseMinVersion(s string) (tmux.VersionInfo, error) {
	v, err := tmux.ParseVersion("tmux " + s)
	if err != nil {
		return tmux.VersionInfo{}, fmt.Errorf("invalid --min %q", s)
	}
	return v, nil
}

func init() {
	versionCmd.Flags().BoolVar(&flagVersionJSON, "json", false, "print the version as JSON")
	versionCmd.Flags().StringVar(&flagVersionMin, "min", "", "fail unless tmux is at least this version (e.g. 2.1)")
	rootCmd.AddCommand(versionCmd)
}
