package persist

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS fields (
	project_id TEXT NOT NULL,
	field_id   TEXT NOT NULL,
	body       BLOB NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (project_id, field_id)
)`

// SQLiteBackend stores fields in one table of an embedded SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Fetch(ctx context.Context, key Key) ([]byte, error) {
	row := b.db.QueryRowContext(ctx, `
		SELECT body FROM fields
		WHERE project_id = ? AND field_id = ?
	`, key.ProjectID, key.FieldID)

	var body []byte
	if err := row.Scan(&body); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound(key)
		}
		return nil, wrapBackend("select", key, err)
	}
	return body, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, key Key, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO fields (project_id, field_id, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id, field_id) DO UPDATE
		SET body = excluded.body, updated_at = excluded.updated_at
	`, key.ProjectID, key.FieldID, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return wrapBackend("upsert", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }

var _ Backend = (*SQLiteBackend)(nil)
