package cmd

import (
	"fmt"

	"github.com/brogergvhs/storyd/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective storyd settings or manage config profiles",
	Long: `Without a subcommand, prints the settings convert would run with:
the active profile with defaults filled in for the keys it leaves out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := config.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
		})
		if err != nil {
			return err
		}

		label, _ := config.CurrentLabel()
		if label != "" {
			fmt.Printf("Active profile: %s\n", label)
		}
		fmt.Printf("Loaded from:\n  %s\n\n", used)
		cfg.Print()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
