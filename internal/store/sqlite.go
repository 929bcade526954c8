package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/ykvlv/routine-bot/internal/domain"
)

// SQLite implements Persistence on an embedded SQLite database.
// Each user is one row holding its JSON record.
type SQLite struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns the persistence.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads every user row.
func (s *SQLite) Load(ctx context.Context) (domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chat_id, data FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := domain.Snapshot{}
	for rows.Next() {
		var (
			chatID int64
			data   string
		)
		if err := rows.Scan(&chatID, &data); err != nil {
			return nil, err
		}
		var u domain.User
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return nil, fmt.Errorf("decode user %d: %w", chatID, err)
		}
		u.ChatID = chatID
		u.Normalize()
		snap[chatID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Save replaces the stored snapshot in one transaction: rows are upserted and
// users missing from snap are removed.
func (s *SQLite) Save(ctx context.Context, snap domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Unix()
	for chatID, u := range snap {
		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("encode user %d: %w", chatID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (chat_id, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(chat_id) DO UPDATE SET
				data       = excluded.data,
				updated_at = excluded.updated_at`,
			chatID, string(data), now,
		); err != nil {
			return err
		}
	}

	stale, err := s.staleIDs(ctx, tx, snap)
	if err != nil {
		return err
	}
	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE chat_id = ?`, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLite) staleIDs(ctx context.Context, tx *sql.Tx, snap domain.Snapshot) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT chat_id FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if _, ok := snap[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale, rows.Err()
}
