/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"goscreenwriter/internal/domain"
	applog "goscreenwriter/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when no screenplay has the requested stable id.
var ErrNotFound = errors.New("screenplay not found")

// Summary is the listing projection of a stored screenplay.
type Summary struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// Store persists screenplays in Postgres through the pgx database/sql driver.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, log: applog.WithComponent("backend.store")}
}

// OpenStore opens and pings the database at dsn.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return NewStore(db), nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Migrate applies the embedded SQL migrations that have not run yet.
func (s *Store) Migrate(ctx context.Context) error {
	return applyMigrations(ctx, s.db, s.log)
}

// SaveScreenplay replaces the stored block list of stableID with sp and
// returns the new version. The screenplay row is created on first save.
func (s *Store) SaveScreenplay(ctx context.Context, stableID string, sp domain.Screenplay) (int64, error) {
	if strings.TrimSpace(stableID) == "" {
		return 0, errors.New("stable id is required")
	}
	header, err := json.Marshal(sp.Header)
	if err != nil {
		return 0, fmt.Errorf("marshal header: %w", err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		id      int64
		version int64
	)
	err = tx.QueryRowContext(ctx, `
		INSERT INTO screenplays (stable_id, title, author, header, version, updated_at)
		VALUES ($1, $2, $3, $4, 1, now())
		ON CONFLICT (stable_id) DO UPDATE
		SET title = EXCLUDED.title, author = EXCLUDED.author, header = EXCLUDED.header,
		    version = screenplays.version + 1, updated_at = now()
		RETURNING id, version`,
		stableID, sp.Header.Title, sp.Header.Author, string(header),
	).Scan(&id, &version)
	if err != nil {
		return 0, fmt.Errorf("upsert screenplay: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE screenplay_id = $1`, id); err != nil {
		return 0, fmt.Errorf("clear blocks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO blocks (screenplay_id, position, block_id, type, content, scene, speaker)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	ctxs := domain.Contexts(sp.Blocks)
	for i, b := range sp.Blocks {
		var speaker sql.NullString
		if ctxs[i].Speaker != "" {
			speaker = sql.NullString{String: ctxs[i].Speaker, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, id, i, b.ID, string(b.Type), b.Content, ctxs[i].Scene, speaker); err != nil {
			return 0, fmt.Errorf("insert block %s: %w", b.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("screenplay saved", slog.String("stable_id", stableID), slog.Int64("version", version), slog.Int("blocks", len(sp.Blocks)))
	return version, nil
}

// LoadScreenplay returns the stored screenplay and its version.
func (s *Store) LoadScreenplay(ctx context.Context, stableID string) (domain.Screenplay, int64, error) {
	var (
		id      int64
		version int64
		header  []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, version, header FROM screenplays WHERE stable_id = $1`, stableID).
		Scan(&id, &version, &header)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Screenplay{}, 0, ErrNotFound
	}
	if err != nil {
		return domain.Screenplay{}, 0, fmt.Errorf("select screenplay: %w", err)
	}
	sp := domain.Screenplay{Blocks: []domain.Block{}}
	if err := json.Unmarshal(header, &sp.Header); err != nil {
		return domain.Screenplay{}, 0, fmt.Errorf("decode header: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT block_id, type, content FROM blocks WHERE screenplay_id = $1 ORDER BY position`, id)
	if err != nil {
		return domain.Screenplay{}, 0, fmt.Errorf("select blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var b domain.Block
		var typ string
		if err := rows.Scan(&b.ID, &typ, &b.Content); err != nil {
			return domain.Screenplay{}, 0, fmt.Errorf("scan block: %w", err)
		}
		b.Type = domain.BlockType(typ)
		sp.Blocks = append(sp.Blocks, b)
	}
	if err := rows.Err(); err != nil {
		return domain.Screenplay{}, 0, err
	}
	domain.Renumber(sp.Blocks)
	return sp, version, nil
}

// ListScreenplays returns all stored screenplays, most recently updated first.
func (s *Store) ListScreenplays(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, stable_id, title, author, updated_at, version FROM screenplays ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list screenplays: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.StableID, &sm.Title, &sm.Author, &sm.UpdatedAt, &sm.Version); err != nil {
			return nil, fmt.Errorf("scan screenplay: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// applyMigrations applies embedded SQL migrations in filename order and
// records each one in schema_migrations.
func applyMigrations(ctx context.Context, db *sql.DB, l *slog.Logger) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied := map[int64]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("select schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return err
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	for _, fname := range files {
		version, err := parseVersion(fname)
		if err != nil {
			return err
		}
		if applied[version] {
			continue
		}
		b, err := migrationsFS.ReadFile(path.Join("migrations", fname))
		if err != nil {
			return err
		}
		sqlText := string(b)
		if strings.TrimSpace(sqlText) == "" {
			continue
		}
		l.Info("applying migration", slog.String("file", fname))
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin %s: %w", fname, err)
		}
		if _, err := tx.ExecContext(ctx, sqlText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", fname, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, name) VALUES ($1, $2)`, version, fname); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", fname, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", fname, err)
		}
	}
	return nil
}

func parseVersion(name string) (int64, error) {
	base := path.Base(name)
	parts := strings.SplitN(base, "_", 2)
	if len(parts) < 2 {
		return 0, errors.New("invalid migration filename: " + name)
	}
	v, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version from %s: %w", name, err)
	}
	return v, nil
}
