/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	applog "tokendesk/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// StoreDirName holds the embedded database under the workspace root.
	StoreDirName  = ".tokendesk"
	StoreFileName = "workspaces.sqlite"

	// sqliteSchemaVersion tracks the embedded schema; bump on breaking
	// changes and add a migration in ensureSchema.
	sqliteSchemaVersion = 1
)

// SQLitePath returns the database path under a workspace root directory.
func SQLitePath(root string) string {
	return filepath.Join(root, StoreDirName, StoreFileName)
}

// SQLiteStore is a Store backed by an embedded SQLite database. Besides the
// live snapshot per key it keeps a bounded revision history, so a corrupted
// or accidentally cleared workspace can be recovered.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the embedded store under root, enables WAL
// and ensures the schema.
func OpenSQLite(root string) (*SQLiteStore, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "sqlite_open").With(
		slog.String("root", root),
	)
	if root == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, StoreDirName), 0o755); err != nil {
		l.Error("create store dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(SQLitePath(root)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (k TEXT PRIMARY KEY, v TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS revisions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			key        TEXT NOT NULL,
			data       BLOB NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS revisions_key_idx ON revisions(key, id)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO meta(k, v) VALUES ('schema_version', ?)
		 ON CONFLICT(k) DO UPDATE SET v=excluded.v`, fmt.Sprint(sqliteSchemaVersion))
	return err
}

func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &Error{Op: "read", Key: key, Err: err}
	}
	return data, true, nil
}

// Set replaces the live snapshot and appends a revision.
func (s *SQLiteStore) Set(key string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := s.db.Begin()
	if err != nil {
		return &Error{Op: "write", Key: key, Err: err}
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(
		`INSERT INTO snapshots(key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
		key, data, now); err != nil {
		return &Error{Op: "write", Key: key, Err: err}
	}
	if _, err := tx.Exec(
		`INSERT INTO revisions(key, data, created_at) VALUES (?, ?, ?)`,
		key, data, now); err != nil {
		return &Error{Op: "write", Key: key, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &Error{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM snapshots ORDER BY key`)
	if err != nil {
		return nil, &Error{Op: "read", Key: "", Err: err}
	}
	defer func() { _ = rows.Close() }()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, &Error{Op: "read", Key: "", Err: err}
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// LatestRevision returns the most recent recorded revision for a key, or
// ok=false when the key has no history.
func (s *SQLiteStore) LatestRevision(key string) ([]byte, time.Time, bool, error) {
	var data []byte
	var created string
	err := s.db.QueryRow(
		`SELECT data, created_at FROM revisions WHERE key = ? ORDER BY id DESC LIMIT 1`, key,
	).Scan(&data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, &Error{Op: "read", Key: key, Err: err}
	}
	ts, _ := time.Parse(time.RFC3339Nano, created)
	return data, ts, true, nil
}

// PruneRevisions keeps only the newest keep revisions for a key.
func (s *SQLiteStore) PruneRevisions(key string, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := s.db.Exec(
		`DELETE FROM revisions WHERE key = ? AND id NOT IN (
			SELECT id FROM revisions WHERE key = ? ORDER BY id DESC LIMIT ?
		)`, key, key, keep)
	if err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// RevisionCount reports stored revisions for a key, for diagnostics.
func (s *SQLiteStore) RevisionCount(key string) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM revisions WHERE key = ?`, key).Scan(&n); err != nil {
		return 0, &Error{Op: "read", Key: key, Err: err}
	}
	return n, nil
}
