package history

import (
	"context"
	"database/sql"
	"errors"
)

// PGStorage implements Storage on the kv_entries table.
type PGStorage struct {
	DB *sql.DB
}

func (s *PGStorage) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM kv_entries WHERE key = $1`
	var value string
	err := s.DB.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *PGStorage) Set(ctx context.Context, key, value string) error {
	const query = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = NOW()`
	_, err := s.DB.ExecContext(ctx, query, key, value)
	return err
}

func (s *PGStorage) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_entries WHERE key = $1`
	_, err := s.DB.ExecContext(ctx, query, key)
	return err
}

func (s *PGStorage) Clear(ctx context.Context) error {
	const query = `DELETE FROM kv_entries`
	_, err := s.DB.ExecContext(ctx, query)
	return err
}

var _ Storage = (*PGStorage)(nil)
