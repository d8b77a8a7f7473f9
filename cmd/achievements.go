package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyreel/internal/achievements"
	"github.com/abhisek/storyreel/internal/store"
)

const timeLayout = "2006-01-02 15:04"

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show unlocked and locked achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		cols, rows := achievementTable(env.openLedger().All(ctx))
		fmt.Fprintln(out, renderTable(cols, rows))

		if history, _ := cmd.Flags().GetBool("history"); history {
			limit, _ := cmd.Flags().GetInt("limit")
			cols, rows, err := historyTable(ctx, env.store.EventRepo(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderTable(cols, rows))
		}
		return nil
	},
}

func init() {
	achievementsCmd.Flags().Bool("history", false, "Also list logged unlock events")
	achievementsCmd.Flags().Int("limit", 20, "Maximum number of events with --history")
}

func achievementTable(all []achievements.Status) ([]column, [][]string) {
	cols := []column{
		{header: ""},
		{header: "Achievement"},
		{header: "Description"},
		{header: "Progress", align: alignRight},
		{header: "Unlocked"},
	}
	rows := make([][]string, 0, len(all))
	for _, st := range all {
		d, rec := st.Definition, st.Record
		if st.Masked() {
			rows = append(rows, []string{"🔒", "???", "Hidden achievement", "", ""})
			continue
		}
		progress := ""
		if d.HasProgress() {
			progress = fmt.Sprintf("%d/%d", min(rec.Progress, d.MaxProgress), d.MaxProgress)
		}
		rows = append(rows, []string{d.Icon, d.Title, d.Description, progress, achievements.UnlockedAt(rec, timeLayout)})
	}
	return cols, rows
}

func historyTable(ctx context.Context, repo store.EventRepo, limit int) ([]column, [][]string, error) {
	events, err := repo.QueryAchievementEvents(ctx, store.QueryOpts{Limit: limit})
	if err != nil {
		return nil, nil, fmt.Errorf("query events: %w", err)
	}
	cols := []column{
		{header: "Seq", align: alignRight},
		{header: "When"},
		{header: "Achievement"},
		{header: "Progress", align: alignRight},
		{header: "Session"},
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		session := e.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.Sequence, 10),
			e.Timestamp.Local().Format(timeLayout),
			e.Title,
			strconv.Itoa(e.Progress),
			session,
		})
	}
	return cols, rows, nil
}
