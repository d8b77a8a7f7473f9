package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	durableColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
	}
	durableKVTable = &schema.Table{
		Name:       durableTable,
		Columns:    durableColumns,
		PrimaryKey: []*schema.Column{durableColumns[0]},
	}

	sessionColumns = []*schema.Column{
		{Name: "session_id", Type: field.TypeString},
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
	}
	sessionKVTable = &schema.Table{
		Name:       sessionTable,
		Columns:    sessionColumns,
		PrimaryKey: []*schema.Column{sessionColumns[0], sessionColumns[1]},
	}

	eventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "achievement_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString},
		{Name: "progress", Type: field.TypeInt, Default: 0},
	}
	achievementEventsTable = &schema.Table{
		Name:       eventTable,
		Columns:    eventColumns,
		PrimaryKey: []*schema.Column{eventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "achievementevent_achievement_id", Columns: []*schema.Column{eventColumns[3]}},
			{Name: "achievementevent_timestamp", Columns: []*schema.Column{eventColumns[2]}},
		},
	}

	tables = []*schema.Table{durableKVTable, sessionKVTable, achievementEventsTable}
)

// migrate creates or upgrades the store's tables. Columns and indexes are
// only ever added.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
