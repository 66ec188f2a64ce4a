// Package records is the generic persistence layer behind user-created
// entities: typed records with a title, key/value metadata attached per
// record, and a small key/value option store for singleton settings.
//
// Writers can register save hooks; the Raw variants of the write methods
// skip the hook pipeline entirely, for callers that would otherwise
// trigger themselves recursively.
package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Record struct {
	ID        int64
	Kind      string
	Title     string
	CreatedAt string
}

// SaveHook observes record writes. Hooks run synchronously after the
// write commits; a hook error does not roll the write back.
type SaveHook func(ctx context.Context, id int64)

type Store struct {
	DB    *sql.DB
	hooks []SaveHook
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// OnSave registers fn to run after every hooked Create/UpdateTitle.
func (s *Store) OnSave(fn SaveHook) {
	s.hooks = append(s.hooks, fn)
}

func (s *Store) fireHooks(ctx context.Context, id int64) {
	for _, fn := range s.hooks {
		fn(ctx, id)
	}
}

func (s *Store) Create(ctx context.Context, kind, title string) (int64, error) {
	id, err := s.CreateRaw(ctx, kind, title)
	if err != nil {
		return 0, err
	}
	s.fireHooks(ctx, id)
	return id, nil
}

// CreateRaw inserts a record without firing save hooks.
func (s *Store) CreateRaw(ctx context.Context, kind, title string) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO records (kind, title) VALUES (?, ?)
	`, kind, title)
	if err != nil {
		return 0, fmt.Errorf("create record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record id: %w", err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, kind, title, created_at FROM records WHERE id = ?
	`, id)

	var r Record
	if err := row.Scan(&r.ID, &r.Kind, &r.Title, &r.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &r, nil
}

func (s *Store) UpdateTitle(ctx context.Context, id int64, title string) error {
	if err := s.UpdateTitleRaw(ctx, id, title); err != nil {
		return err
	}
	s.fireHooks(ctx, id)
	return nil
}

// UpdateTitleRaw renames a record without firing save hooks.
func (s *Store) UpdateTitleRaw(ctx context.Context, id int64, title string) error {
	if _, err := s.DB.ExecContext(ctx, `
		UPDATE records SET title = ? WHERE id = ?
	`, title, id); err != nil {
		return fmt.Errorf("update record title: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *Store) DeleteAllOfKind(ctx context.Context, kind string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM records WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("delete records of kind %q: %w", kind, err)
	}
	return nil
}

// List returns all records of a kind. orderBy is "title" or "created_at";
// order is "asc" or "desc". Anything else falls back to title asc.
func (s *Store) List(ctx context.Context, kind, orderBy, order string) ([]Record, error) {
	col := "title"
	if orderBy == "created_at" {
		col = "created_at"
	}
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}

	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, kind, title, created_at FROM records
		WHERE kind = ? ORDER BY %s %s
	`, col, dir), kind)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Kind, &r.Title, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *Store) SetMeta(ctx context.Context, id int64, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, `
		INSERT INTO record_meta (record_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (record_id, key) DO UPDATE SET value = excluded.value
	`, id, key, value); err != nil {
		return fmt.Errorf("set meta %q: %w", key, err)
	}
	return nil
}

func (s *Store) GetMeta(ctx context.Context, id int64, key string) (string, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT value FROM record_meta WHERE record_id = ? AND key = ?
	`, id, key)

	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("get meta %q: %w", key, err)
	}
	return v, nil
}

// QueryByMeta returns records of a kind whose metadata key equals value.
func (s *Store) QueryByMeta(ctx context.Context, kind, key, value string) ([]Record, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT r.id, r.kind, r.title, r.created_at
		FROM records r
		JOIN record_meta m ON m.record_id = r.id
		WHERE r.kind = ? AND m.key = ? AND m.value = ?
		ORDER BY r.id
	`, kind, key, value)
	if err != nil {
		return nil, fmt.Errorf("query by meta: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Kind, &r.Title, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("query scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
