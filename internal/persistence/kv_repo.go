package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVEntry is a single row of the key-value table.
type KVEntry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type KVRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db, now: time.Now}
}

// Get returns ok=false when no row exists for key.
func (r *KVRepo) Get(ctx context.Context, key string) (KVEntry, bool, error) {
	var (
		entry     = KVEntry{Key: key}
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT value, updated_at FROM kv WHERE key = ?`, key).Scan(&entry.Value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return KVEntry{}, false, nil
	}
	if err != nil {
		return KVEntry{}, false, fmt.Errorf("select kv %q: %w", key, err)
	}
	entry.UpdatedAt = unixMillisToTime(updatedAt)

	return entry, true, nil
}

func (r *KVRepo) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv(key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, timeToUnixMillis(r.now().UTC()))
	if err != nil {
		return fmt.Errorf("upsert kv %q: %w", key, err)
	}

	return nil
}

func (r *KVRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete kv %q: %w", key, err)
	}

	return nil
}

func timeToUnixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

func unixMillisToTime(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}

	return time.UnixMilli(v).UTC()
}
