package policy

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS model_policies (
  model_id TEXT PRIMARY KEY,
  priority INTEGER NOT NULL DEFAULT 50,
  pinned INTEGER NOT NULL DEFAULT 0,
  expected_vram_mb REAL NOT NULL DEFAULT 0,
  ttl_secs INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Upsert(ctx context.Context, p ModelPolicy) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO model_policies(model_id, priority, pinned, expected_vram_mb, ttl_secs)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(model_id) DO UPDATE SET
  priority=excluded.priority,
  pinned=excluded.pinned,
  expected_vram_mb=excluded.expected_vram_mb,
  ttl_secs=excluded.ttl_secs;
`, p.ModelID, p.Priority, boolToInt(p.Pinned), p.ExpectedVRAMMB, p.TTLSecs)
	return err
}

func (s *Store) Get(ctx context.Context, modelID string) (ModelPolicy, bool, error) {
	if s.db == nil {
		return ModelPolicy{}, false, nil
	}
	row := s.db.QueryRowContext(ctx, `
SELECT model_id, priority, pinned, expected_vram_mb, ttl_secs
FROM model_policies WHERE model_id=?;
`, modelID)

	var p ModelPolicy
	var pinnedInt int
	err := row.Scan(&p.ModelID, &p.Priority, &pinnedInt, &p.ExpectedVRAMMB, &p.TTLSecs)
	if err == sql.ErrNoRows {
		return ModelPolicy{}, false, nil
	}
	if err != nil {
		return ModelPolicy{}, false, err
	}
	p.Pinned = pinnedInt != 0
	return p, true, nil
}

func (s *Store) List(ctx context.Context) ([]ModelPolicy, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT model_id, priority, pinned, expected_vram_mb, ttl_secs
FROM model_policies
ORDER BY model_id ASC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ModelPolicy
	for rows.Next() {
		var p ModelPolicy
		var pinnedInt int
		if err := rows.Scan(&p.ModelID, &p.Priority, &pinnedInt, &p.ExpectedVRAMMB, &p.TTLSecs); err != nil {
			return nil, err
		}
		p.Pinned = pinnedInt != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, modelID string) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM model_policies WHERE model_id=?;", modelID)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
