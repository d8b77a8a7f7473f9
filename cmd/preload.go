package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/preload"
)

var preloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Download every scene's media into the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := preload.New(env.resolver, env.catalog.Len(), env.cfg.PreloadOptions(), env.logger.Named("preload"))
		if err != nil {
			return fmt.Errorf("start preloader: %w", err)
		}
		defer p.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		var fetched, failed int
		for i := 1; i <= env.catalog.Len(); i++ {
			for _, u := range p.URLs(i) {
				if err := p.Fetch(ctx, u); err != nil {
					failed++
					env.logger.Warn("preload failed", zap.Int("scene", i), zap.String("url", u), zap.Error(err))
					fmt.Fprintf(out, "  ✗ %s: %v\n", u, err)
					continue
				}
				fetched++
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		fmt.Fprintf(out, "Cached %d assets in %s\n", fetched, env.cfg.CacheDir)
		if failed > 0 {
			return fmt.Errorf("%d assets failed to download", failed)
		}
		return nil
	},
}
