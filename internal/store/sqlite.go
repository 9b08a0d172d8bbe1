package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"flatwatch/internal/domain"
)

const DefaultSearchKey = "default"

// SQLiteStore keeps one listing set per search key, plus run history.
type SQLiteStore struct {
	db  *sql.DB
	key string
	now func() time.Time
}

func OpenSQLite(path, key string) (*SQLiteStore, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultSearchKey
	}
	db, err := openDB(path)
	if err != nil {
		return nil, persistErr("open "+path, err)
	}
	return &SQLiteStore{db: db, key: key, now: time.Now}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (domain.ListingSet, bool, error) {
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM search_state WHERE search_key = ? LIMIT 1;`, s.key,
	).Scan(&updated)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, persistErr("load state", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT listing_id FROM listings WHERE search_key = ?;`, s.key)
	if err != nil {
		return nil, false, persistErr("load listings", err)
	}
	defer rows.Close()

	set := make(domain.ListingSet)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, false, persistErr("scan listing", err)
		}
		set.Add(domain.ListingID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, false, persistErr("load listings", err)
	}
	return set, true, nil
}

// Save replaces the key's listings in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, ids domain.ListingSet) error {
	now := s.now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE search_key = ?;`, s.key); err != nil {
		return persistErr("clear listings", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO listings(search_key, listing_id, seen_at) VALUES(?,?,?);`)
	if err != nil {
		return persistErr("prepare insert", err)
	}
	defer stmt.Close()

	for _, id := range ids.Sorted() {
		if _, err := stmt.ExecContext(ctx, s.key, string(id), now); err != nil {
			return persistErr("insert listing", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO search_state(search_key, updated_at)
VALUES(?,?)
ON CONFLICT(search_key) DO UPDATE SET
  updated_at = excluded.updated_at;
`, s.key, now); err != nil {
		return persistErr("update state", err)
	}

	if err := tx.Commit(); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

func (s *SQLiteStore) RecordRun(ctx context.Context, r RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO runs(run_id, search_key, started_at, finished_at, found, new, notified, error)
VALUES(?,?,?,?,?,?,?,?);`,
		r.RunID,
		s.key,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
		r.Found,
		r.New,
		r.Notified,
		r.Error,
	)
	if err != nil {
		return persistErr("record run", err)
	}
	return nil
}

// RecentRuns returns up to limit runs for this key, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, started_at, finished_at, found, new, notified, error
FROM runs
WHERE search_key = ?
ORDER BY started_at DESC
LIMIT ?;`, s.key, limit)
	if err != nil {
		return nil, persistErr("list runs", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished string
		if err := rows.Scan(&r.RunID, &started, &finished, &r.Found, &r.New, &r.Notified, &r.Error); err != nil {
			return nil, persistErr("scan run", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list runs", err)
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
