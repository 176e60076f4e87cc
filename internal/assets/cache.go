/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package assets fetches, decodes and caches remote images used on the
// canvas. Raw bytes are cached in a small embedded SQLite database so a
// design keeps rendering offline once its images were seen.
package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "invitestudio/internal/log"
	"invitestudio/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// CacheDirName stores ephemeral app data under the user's data root.
	CacheDirName  = ".invitestudio"
	CacheFileName = "assets.sqlite"

	// schemaVersion tracks the local SQLite schema for the blob cache.
	// Bump this on breaking schema changes and add a migration.
	schemaVersion = 1
)

// CachePath returns the full path to the asset cache database file.
func CachePath(root string) string {
	return filepath.Join(root, CacheDirName, CacheFileName)
}

// Cache is a URL-keyed blob store backed by SQLite in WAL mode.
type Cache struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenCache ensures the cache database exists under root, opens it, enables
// WAL mode and brings the schema up to date.
func OpenCache(root string) (*Cache, error) {
	l := applog.WithOperation(applog.WithComponent("assets"), "cache_open").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("cache root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, CacheDirName), 0o755); err != nil {
		l.Error("create cache dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	path := CachePath(root)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
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

	l.Info("asset cache ready", slog.String("path", path))
	return &Cache{db: db, log: applog.WithComponent("assets")}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS blobs (
			url        TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			size       INTEGER NOT NULL,
			fetched_at TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// Get returns the cached bytes for url, with ok=false on a miss.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE url=?`, url).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return data, true, nil
}

// Put stores or replaces the bytes for url.
func (c *Cache) Put(ctx context.Context, url string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := c.db.ExecContext(ctx,
		`INSERT INTO blobs (url, data, size, fetched_at) VALUES(?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET data=excluded.data, size=excluded.size, fetched_at=excluded.fetched_at`,
		url, data, len(data), now); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Evict removes one url from the cache; missing entries are not an error.
func (c *Cache) Evict(ctx context.Context, url string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM blobs WHERE url=?`, url); err != nil {
		return fmt.Errorf("cache evict: %w", err)
	}
	return nil
}

func (c *Cache) Close() error { return c.db.Close() }
