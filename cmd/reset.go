package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget achievements, visited scenes and the onboarding tour",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd, true)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		var errs []error
		errs = append(errs, env.openLedger().Reset(ctx))
		errs = append(errs, env.store.Durable().Clear(ctx))
		if _, err := env.store.PruneSessions(ctx, ""); err != nil {
			errs = append(errs, err)
		}
		if cache, _ := cmd.Flags().GetBool("cache"); cache {
			if err := os.RemoveAll(env.cfg.CacheDir); err != nil {
				errs = append(errs, fmt.Errorf("remove cache: %w", err))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset. The tour will play again on next launch.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("cache", false, "Also delete downloaded media")
}
