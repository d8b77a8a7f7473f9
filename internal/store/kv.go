package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// KV is a flat string key-value namespace. Writes are whole-value overwrites.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key in the namespace.
	Clear(ctx context.Context) error
}

// durableKV implements KV over the durable_kv table.
type durableKV struct {
	db *sql.DB
}

func (k *durableKV) Get(ctx context.Context, key string) (string, bool, error) {
	b := builder()
	query, args := b.Select("value").
		From(b.Table(durableTable)).
		Where(entsql.EQ("key", key)).
		Query()
	return scanValue(k.db.QueryRowContext(ctx, query, args...), key)
}

func (k *durableKV) Set(ctx context.Context, key, value string) error {
	query, args := builder().Insert(durableTable).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (k *durableKV) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(durableTable).
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (k *durableKV) Clear(ctx context.Context) error {
	query, args := builder().Delete(durableTable).Query()
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear durable store: %w", err)
	}
	return nil
}

// sessionKV implements KV over the session_kv table for a single session id.
type sessionKV struct {
	db        *sql.DB
	sessionID string
}

func (k *sessionKV) Get(ctx context.Context, key string) (string, bool, error) {
	b := builder()
	query, args := b.Select("value").
		From(b.Table(sessionTable)).
		Where(entsql.And(
			entsql.EQ("session_id", k.sessionID),
			entsql.EQ("key", key),
		)).
		Query()
	return scanValue(k.db.QueryRowContext(ctx, query, args...), key)
}

func (k *sessionKV) Set(ctx context.Context, key, value string) error {
	query, args := builder().Insert(sessionTable).
		Columns("session_id", "key", "value", "updated_at").
		Values(k.sessionID, key, value, time.Now().UTC()).
		OnConflict(entsql.ConflictColumns("session_id", "key"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set session %q: %w", key, err)
	}
	return nil
}

func (k *sessionKV) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(sessionTable).
		Where(entsql.And(
			entsql.EQ("session_id", k.sessionID),
			entsql.EQ("key", key),
		)).
		Query()
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete session %q: %w", key, err)
	}
	return nil
}

func (k *sessionKV) Clear(ctx context.Context) error {
	query, args := builder().Delete(sessionTable).
		Where(entsql.EQ("session_id", k.sessionID)).
		Query()
	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func scanValue(row *sql.Row, key string) (string, bool, error) {
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}
