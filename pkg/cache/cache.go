// Package cache is a named TTL cache over sqlite, the moral equivalent of
// the host platform's transients. Values are JSON-encoded; a TTL of zero
// means the entry never expires and lives until explicitly deleted.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

type Cache struct {
	DB    *sql.DB
	Clock clockwork.Clock
}

func New(db *sql.DB, clock clockwork.Clock) *Cache {
	return &Cache{DB: db, Clock: clock}
}

// Set stores v under name. ttl <= 0 stores without expiry.
func (c *Cache) Set(ctx context.Context, name string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache marshal %q: %w", name, err)
	}

	var expires int64
	if ttl > 0 {
		expires = c.Clock.Now().Add(ttl).Unix()
	}

	if _, err := c.DB.ExecContext(ctx, `
		INSERT INTO cache (name, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, name, string(b), expires); err != nil {
		return fmt.Errorf("cache set %q: %w", name, err)
	}
	return nil
}

// Get loads the entry into out. Returns false on a miss or an expired
// entry; expired rows are removed on the way out.
func (c *Cache) Get(ctx context.Context, name string, out any) (bool, error) {
	row := c.DB.QueryRowContext(ctx, `SELECT value, expires_at FROM cache WHERE name = ?`, name)

	var (
		raw     string
		expires int64
	)
	if err := row.Scan(&raw, &expires); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("cache get %q: %w", name, err)
	}

	if expires > 0 && !c.Clock.Now().Before(time.Unix(expires, 0)) {
		_ = c.Delete(ctx, name)
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("cache unmarshal %q: %w", name, err)
	}
	return true, nil
}

func (c *Cache) Delete(ctx context.Context, name string) error {
	if _, err := c.DB.ExecContext(ctx, `DELETE FROM cache WHERE name = ?`, name); err != nil {
		return fmt.Errorf("cache delete %q: %w", name, err)
	}
	return nil
}
