package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"qiitawatch/internal/domain/model"
	"qiitawatch/internal/domain/ports"
)

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS search_terms (
	term TEXT PRIMARY KEY,
	last_used INTEGER NOT NULL,
	seq INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS watched_users (
	user_id TEXT PRIMARY KEY,
	seeded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS seen_articles (
	user_id TEXT NOT NULL,
	article_id TEXT NOT NULL,
	PRIMARY KEY (user_id, article_id)
);
`

// Store is the SQLite-backed search history and watch bookkeeping.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ ports.SearchTermStore = (*Store)(nil)
	_ ports.SeenStore       = (*Store)(nil)
)

// New opens the SQLite database at dbPath and creates the tables if needed.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: set WAL mode: %w", err)
	}
	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create tables: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// All returns every search term, most recently used first.
func (s *Store) All(ctx context.Context) ([]model.SearchTerm, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT term, last_used FROM search_terms ORDER BY last_used DESC, seq DESC")
	if err != nil {
		return nil, fmt.Errorf("storage: query search terms: %w", err)
	}
	defer rows.Close()

	var terms []model.SearchTerm
	for rows.Next() {
		var t model.SearchTerm
		if err := rows.Scan(&t.Term, &t.LastUsed); err != nil {
			return nil, fmt.Errorf("storage: scan search term: %w", err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate search terms: %w", err)
	}
	return terms, nil
}

// Touch inserts term or bumps its last-used time. Terms match exactly, case included.
func (s *Store) Touch(ctx context.Context, term string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_terms (term, last_used, seq)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM search_terms))
		ON CONFLICT(term) DO UPDATE SET last_used = excluded.last_used, seq = excluded.seq`,
		term, s.now().Unix())
	if err != nil {
		return fmt.Errorf("storage: touch search term: %w", err)
	}
	return nil
}

// Delete removes term. Deleting an unknown term is not an error.
func (s *Store) Delete(ctx context.Context, term string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM search_terms WHERE term = ?", term); err != nil {
		return fmt.Errorf("storage: delete search term: %w", err)
	}
	return nil
}

// Seen reports whether userID was seeded and which article ids were recorded for it.
func (s *Store) Seen(ctx context.Context, userID string) (bool, map[string]struct{}, error) {
	var seededAt int64
	err := s.db.QueryRowContext(ctx, "SELECT seeded_at FROM watched_users WHERE user_id = ?", userID).Scan(&seededAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("storage: query watched user: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT article_id FROM seen_articles WHERE user_id = ?", userID)
	if err != nil {
		return false, nil, fmt.Errorf("storage: query seen articles: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return false, nil, fmt.Errorf("storage: scan seen article: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return false, nil, fmt.Errorf("storage: iterate seen articles: %w", err)
	}
	return true, ids, nil
}

// MarkSeen records userID as seeded and remembers articleIDs.
func (s *Store) MarkSeen(ctx context.Context, userID string, articleIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO watched_users (user_id, seeded_at) VALUES (?, ?)",
		userID, s.now().Unix()); err != nil {
		return fmt.Errorf("storage: insert watched user: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO seen_articles (user_id, article_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("storage: prepare seen article: %w", err)
	}
	defer stmt.Close()

	for _, id := range articleIDs {
		if _, err := stmt.ExecContext(ctx, userID, id); err != nil {
			return fmt.Errorf("storage: insert seen article: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}
