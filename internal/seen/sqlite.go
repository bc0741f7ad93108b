package seen

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteDB is a shared handle to the seen-key database. Each watch gets its
// own namespaced Store view via Watch.
type SQLiteDB struct {
	db *sql.DB
}

// Open opens (and if necessary creates) the seen-key database at dsn.
func Open(dsn string) (*SQLiteDB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("sqlite dsn is required")
	}
	if err := ensureSQLiteDir(dsn); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteDB{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Watch returns the Store scoped to the named watch.
func (d *SQLiteDB) Watch(name string) *SQLiteStore {
	return &SQLiteStore{db: d.db, watch: name}
}

func (d *SQLiteDB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *SQLiteDB) ensureSchema(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS seen_keys (
		watch TEXT NOT NULL,
		position INTEGER NOT NULL,
		key TEXT NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		PRIMARY KEY (watch, position)
	)`
	if _, err := d.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create seen_keys table: %w", err)
	}
	index := "CREATE INDEX IF NOT EXISTS seen_keys_watch_idx ON seen_keys (watch)"
	if _, err := d.db.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("create seen_keys index: %w", err)
	}
	return nil
}

// SQLiteStore is the per-watch view of the shared database.
type SQLiteStore struct {
	db    *sql.DB
	watch string
}

func (s *SQLiteStore) Load(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT key FROM seen_keys WHERE watch = ? ORDER BY position",
		s.watch,
	)
	if err != nil {
		return nil, fmt.Errorf("load seen keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) Replace(ctx context.Context, keys []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM seen_keys WHERE watch = ?", s.watch); err != nil {
		_ = tx.Rollback()
		return err
	}
	stmt, err := tx.PrepareContext(
		ctx,
		"INSERT INTO seen_keys (watch, position, key, recorded_at) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	// The incoming list may carry duplicates (a snapshot can repeat a key);
	// the set at rest holds each key once, first occurrence wins.
	inserted := map[string]bool{}
	position := 0
	for _, key := range keys {
		if key == "" || inserted[key] {
			continue
		}
		inserted[key] = true
		if _, err := stmt.ExecContext(ctx, s.watch, position, key, now); err != nil {
			_ = tx.Rollback()
			return err
		}
		position++
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace seen keys: %w", err)
	}
	return nil
}

// Close is a no-op; the shared SQLiteDB owns the connection.
func (s *SQLiteStore) Close() error {
	return nil
}

func ensureSQLiteDir(dsn string) error {
	if strings.HasPrefix(dsn, "file:") {
		dsn = strings.TrimPrefix(dsn, "file:")
		if idx := strings.IndexRune(dsn, '?'); idx >= 0 {
			dsn = dsn[:idx]
		}
	}
	if dsn == "" || dsn == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
