package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storyreel",
	Short: "Interactive story player for the terminal",
	Long: "Storyreel plays a scene-by-scene story with transition videos, narration,\n" +
		"asides and achievements, right in your terminal.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// Execute runs the root command; ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides STORYREEL_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STORYREEL_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to log file (overrides STORYREEL_LOG_FILE env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(preloadCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
