package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

var _ port.KeyValueStore = SQLKeyValueStore{}

// SQLKeyValueStore keeps entries in the kv_entries table.
type SQLKeyValueStore struct {
	sqldb sqldb
}

func NewSQLKeyValueStore(sqldb sqldb) SQLKeyValueStore {
	return SQLKeyValueStore{sqldb}
}

func (s SQLKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	const op = "SQLKeyValueStore.Get"

	query := `SELECT value FROM kv_entries WHERE key = $1;`

	var v string
	err := s.sqldb.QueryRowContext(ctx, query, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %q: %w", op, key, domain.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s SQLKeyValueStore) Set(ctx context.Context, key, value string) error {
	const op = "SQLKeyValueStore.Set"

	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at;`

	if _, err := s.sqldb.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s SQLKeyValueStore) Delete(ctx context.Context, key string) error {
	const op = "SQLKeyValueStore.Delete"

	query := `DELETE FROM kv_entries WHERE key = $1;`

	if _, err := s.sqldb.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
