package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AchievementEventData captures one achievement unlock.
type AchievementEventData struct {
	AchievementID string
	Title         string
	SessionID     string
	Progress      int
}

// AchievementEventRecord is a logged unlock read back from the store.
type AchievementEventRecord struct {
	AchievementID string
	Title         string
	SessionID     string
	Progress      int
	Sequence      int64
	Timestamp     time.Time
}

// EventRepo provides append and query access to the achievement event log.
type EventRepo interface {
	// AppendAchievementEvent records an unlock.
	AppendAchievementEvent(ctx context.Context, data AchievementEventData) error

	// QueryAchievementEvents returns unlocks, newest first.
	QueryAchievementEvents(ctx context.Context, opts QueryOpts) ([]AchievementEventRecord, error)

	// ClearAchievementEvents drops the whole log.
	ClearAchievementEvents(ctx context.Context) error
}
