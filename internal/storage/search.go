/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes the in-app search request.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Filters are optional. Types restricts to block types (scene-heading, dialogue, ...)
// or the header types title and author. Character matches the speaker of
// dialogue and parentheticals, case-insensitively. SceneFrom/To are inclusive;
// 0 means unset. Limit/Offset implement pagination; defaults apply if zero.
type SearchQuery struct {
	Text      string
	Types     []string
	Character string
	SceneFrom int
	SceneTo   int
	Limit     int
	Offset    int
}

// SearchResult represents a single matching block.
// Snippet is a highlighted excerpt using [ ] markers when FTS text is used,
// otherwise the full block text. BlockID is empty for header rows.
type SearchResult struct {
	BlockID  string
	Type     string
	Position int
	Scene    int
	Speaker  string
	Snippet  string
}

// Search performs full-text search with optional filters over the embedded index.
// When q.Text is empty, it falls back to a non-FTS scan over blocks with filters applied.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	if strings.TrimSpace(q.Text) != "" {
		sb.WriteString("SELECT b.block_id, b.type, b.position, b.scene, COALESCE(b.speaker,''), snippet(fts_blocks, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_blocks JOIN blocks b ON fts_blocks.rowid = b.doc_id\n")
		sb.WriteString("WHERE fts_blocks MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT b.block_id, b.type, b.position, b.scene, COALESCE(b.speaker,''), COALESCE(b.text,'')\n")
		sb.WriteString("FROM blocks b\nWHERE 1=1\n")
	}
	if len(q.Types) > 0 {
		sb.WriteString(" AND b.type IN (" + placeholders(len(q.Types)) + ")\n")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	switch {
	case q.SceneFrom > 0 && q.SceneTo > 0 && q.SceneTo >= q.SceneFrom:
		sb.WriteString(" AND b.scene BETWEEN ? AND ?\n")
		args = append(args, q.SceneFrom, q.SceneTo)
	case q.SceneFrom > 0:
		sb.WriteString(" AND b.scene >= ?\n")
		args = append(args, q.SceneFrom)
	case q.SceneTo > 0:
		sb.WriteString(" AND b.scene <= ?\n")
		args = append(args, q.SceneTo)
	}
	if s := strings.TrimSpace(q.Character); s != "" {
		sb.WriteString(" AND lower(b.speaker) = ?\n")
		args = append(args, strings.ToLower(s))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(q.Offset, 0)
	sb.WriteString("ORDER BY b.position, b.doc_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sn sql.NullString
		if err := rows.Scan(&r.BlockID, &r.Type, &r.Position, &r.Scene, &r.Speaker, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SceneOutline lists the scene headings in order, the index's view of the
// screenplay structure.
func SceneOutline(ctx context.Context, projectRoot string) ([]SearchResult, error) {
	return Search(ctx, projectRoot, SearchQuery{Types: []string{"scene-heading"}, Limit: 10000})
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}
