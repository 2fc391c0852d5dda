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
	"fmt"
	"strings"

	"goscreenwriter/internal/storage"
)

// SearchPG runs q over the Postgres blocks of one screenplay using tsvector
// matching and returns results shaped like the embedded index's, so both
// can be compared. Header rows (title, author) exist only in the embedded
// index; blank blocks are skipped the same way.
func SearchPG(ctx context.Context, db *sql.DB, stableID string, q storage.SearchQuery) ([]storage.SearchResult, error) {
	var (
		args []any
		b    strings.Builder
	)
	place := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if strings.TrimSpace(q.Text) != "" {
		tsq := place(q.Text)
		b.WriteString("SELECT bl.block_id, bl.type, bl.position, bl.scene, COALESCE(bl.speaker,''), ")
		b.WriteString("ts_headline('simple', bl.content, plainto_tsquery('simple', " + tsq + "), 'StartSel=[, StopSel=], MaxFragments=1, MaxWords=12') ")
		b.WriteString("FROM blocks bl JOIN screenplays s ON s.id = bl.screenplay_id ")
		b.WriteString("WHERE s.stable_id = " + place(stableID) + " AND bl.search_vector @@ plainto_tsquery('simple', " + tsq + ") ")
	} else {
		b.WriteString("SELECT bl.block_id, bl.type, bl.position, bl.scene, COALESCE(bl.speaker,''), btrim(bl.content) ")
		b.WriteString("FROM blocks bl JOIN screenplays s ON s.id = bl.screenplay_id ")
		b.WriteString("WHERE s.stable_id = " + place(stableID) + " ")
	}
	b.WriteString(" AND btrim(bl.content) <> '' ")

	if len(q.Types) > 0 {
		b.WriteString(" AND bl.type = ANY (" + place(q.Types) + ") ")
	}
	switch {
	case q.SceneFrom > 0 && q.SceneTo > 0 && q.SceneTo >= q.SceneFrom:
		b.WriteString(" AND bl.scene BETWEEN " + place(q.SceneFrom) + " AND " + place(q.SceneTo) + " ")
	case q.SceneFrom > 0:
		b.WriteString(" AND bl.scene >= " + place(q.SceneFrom) + " ")
	case q.SceneTo > 0:
		b.WriteString(" AND bl.scene <= " + place(q.SceneTo) + " ")
	}
	if s := strings.TrimSpace(q.Character); s != "" {
		b.WriteString(" AND lower(bl.speaker) = " + place(strings.ToLower(s)) + " ")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(q.Offset, 0)
	b.WriteString(" ORDER BY bl.position ")
	b.WriteString(" LIMIT " + place(limit) + " OFFSET " + place(offset))

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search pg query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []storage.SearchResult
	for rows.Next() {
		var r storage.SearchResult
		if err := rows.Scan(&r.BlockID, &r.Type, &r.Position, &r.Scene, &r.Speaker, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
