package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"go.uber.org/zap"

	"github.com/uthkarsh2006/contestbot/internal/domain"
)

// ErrStoreUnavailable marks a backing store that could not be opened.
var ErrStoreUnavailable = errors.New("subscriber store unavailable")

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies PRAGMAs, and runs migrations. A corrupt database file is
// moved aside and the store re-initializes empty rather than refusing
// to start; losing old registrations beats never broadcasting again.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLiteRepo, error) {
	repo, err := open(ctx, path)
	if err == nil {
		return repo, nil
	}

	log.Error("subscriber store unusable, re-initializing empty",
		zap.String("path", path),
		zap.NamedError("reason", ErrStoreUnavailable),
		zap.Error(err),
	)
	quarantine := path + ".corrupt"
	if mvErr := os.Rename(path, quarantine); mvErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	log.Warn("corrupt store moved aside", zap.String("moved_to", quarantine))
	return open(ctx, path)
}

func open(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single connection: SQLite is a single-writer engine, and this
	// also serializes the Add read-modify-write across all callers.
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

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// Add inserts the subscriber iff no row shares its chat_id. Returns
// whether a row was actually inserted; a duplicate is a no-op, not an
// error.
func (r *SQLiteRepo) Add(ctx context.Context, s *domain.Subscriber) (bool, error) {
	if s == nil {
		return false, errors.New("nil subscriber")
	}
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO subscribers (
			chat_id, user_id, first_name, last_name, username, language, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO NOTHING`,
		s.ChatID, s.UserID, s.FirstName, s.LastName, s.Username, s.Language,
		created.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAll returns every subscriber in registration order.
func (r *SQLiteRepo) ListAll(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, user_id, first_name, last_name, username, language, created_at
		FROM subscribers
		ORDER BY created_at ASC, chat_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Subscriber
	for rows.Next() {
		var (
			s       domain.Subscriber
			created int64
		)
		if err := rows.Scan(
			&s.ChatID, &s.UserID, &s.FirstName, &s.LastName,
			&s.Username, &s.Language, &created,
		); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Count returns the number of registered subscribers.
func (r *SQLiteRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&n)
	return n, err
}
