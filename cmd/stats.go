package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/catalog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show story progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		cols, rows := statsTable(cmd.Context(), env.catalog, env.openLedger())
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(cols, rows))
		return nil
	},
}

func statsTable(ctx context.Context, cat *catalog.Catalog, ledger *achievements.Ledger) ([]column, [][]string) {
	asides, coffee, visited := ledger.Counts(ctx)
	unlocked, total := 0, 0
	for _, st := range ledger.All(ctx) {
		total++
		if st.Record.Completed {
			unlocked++
		}
	}

	cols := []column{{header: "Metric"}, {header: "Progress", align: alignRight}}
	rows := [][]string{
		{"Scenes visited", ratio(visited, cat.Len())},
		{"Asides opened", ratio(asides, cat.TotalAsides())},
		{"Coffee found", ratio(coffee, cat.TotalCoffee())},
		{"Achievements", ratio(unlocked, total)},
	}
	return cols, rows
}

func ratio(n, of int) string {
	if of == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d (%d%%)", n, of, n*100/of)
}
