package records

import (
	"context"
	"database/sql"
	"fmt"
)

// GetOption reads a singleton setting. The second return is false when
// the key has never been written.
func (s *Store) GetOption(ctx context.Context, key string) (string, bool, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT value FROM options WHERE key = ?`, key)

	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get option %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) SetOption(ctx context.Context, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, `
		INSERT INTO options (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value); err != nil {
		return fmt.Errorf("set option %q: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteOption(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM options WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete option %q: %w", key, err)
	}
	return nil
}
