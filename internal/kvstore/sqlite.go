package kvstore

import (
	"context"
	"database/sql"
	"time"

	"pawvault/internal/persistence"
)

const defaultOpTimeout = 5 * time.Second

// SQLiteStore adapts the sqlite key-value table to the synchronous Store
// contract. Each call runs under its own timeout.
type SQLiteStore struct {
	repo    *persistence.KVRepo
	timeout time.Duration
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		repo:    persistence.NewKVRepo(db),
		timeout: defaultOpTimeout,
	}
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	entry, ok, err := s.repo.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}

	return entry.Value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.repo.Put(ctx, key, value)
}

func (s *SQLiteStore) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.repo.Delete(ctx, key)
}
