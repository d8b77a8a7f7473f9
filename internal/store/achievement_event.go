package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo over the achievement_events table and the
// global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendAchievementEvent(ctx context.Context, data AchievementEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(eventTable).
		Columns("sequence", "timestamp", "achievement_id", "title", "session_id", "progress").
		Values(seqNum, time.Now().UTC(), data.AchievementID, data.Title, data.SessionID, data.Progress).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save achievement event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAchievementEvents(ctx context.Context, opts QueryOpts) ([]AchievementEventRecord, error) {
	b := builder()
	sel := b.Select("achievement_id", "title", "session_id", "progress", "sequence", "timestamp").
		From(b.Table(eventTable)).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query achievement events: %w", err)
	}
	defer rows.Close()

	var records []AchievementEventRecord
	for rows.Next() {
		var rec AchievementEventRecord
		if err := rows.Scan(&rec.AchievementID, &rec.Title, &rec.SessionID, &rec.Progress, &rec.Sequence, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan achievement event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query achievement events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) ClearAchievementEvents(ctx context.Context) error {
	query, args := builder().Delete(eventTable).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear achievement events: %w", err)
	}
	return nil
}
