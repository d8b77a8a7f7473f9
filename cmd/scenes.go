package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/catalog"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List the story's scenes",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		cols, rows := sceneTable(cmd.Context(), env.catalog, env.openLedger())
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(cols, rows))
		return nil
	},
}

func sceneTable(ctx context.Context, cat *catalog.Catalog, ledger *achievements.Ledger) ([]column, [][]string) {
	cols := []column{
		{header: "#", align: alignRight},
		{header: "Title"},
		{header: "Asides", align: alignRight},
		{header: "Coffee", align: alignRight},
		{header: "Transition", align: alignRight},
		{header: "Visited"},
	}
	rows := make([][]string, 0, cat.Len())
	for _, s := range cat.Scenes() {
		transition := "-"
		if d := cat.TransitionLength(s.Index); d > 0 {
			transition = d.String()
		}
		visited := ""
		if ledger.Visited(ctx, s.Index) {
			visited = "✓"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.Title,
			strconv.Itoa(len(s.Asides)),
			strconv.Itoa(len(s.Coffee)),
			transition,
			visited,
		})
	}
	return cols, rows
}
