/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"
	"strings"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/script"
)

// ContentProcessor reacts to raw text mutation in a block: it removes blocks
// that became empty, applies types forced by accepted suggestions, and runs
// format detection on everything else.
type ContentProcessor struct {
	store *Store
	caret caretPlacer
	sched Scheduler
	log   *slog.Logger
}

// HandleContentChange applies newContent to block id. forced, when not empty,
// is the type the writer picked from an inline suggestion. It returns the id
// of a block it created (the scene heading following a new transition), or "".
func (c *ContentProcessor) HandleContentChange(id, newContent string, forced domain.BlockType) string {
	blocks := c.store.Blocks()
	idx := domain.IndexOf(blocks, id)
	if idx < 0 {
		c.log.Debug("content change for unknown block", slog.String("block", id))
		return ""
	}
	cur := blocks[idx]

	if strings.TrimSpace(newContent) == "" {
		if len(blocks) == 1 {
			// The last block is kept empty rather than removed.
			if cur.Content == "" {
				return ""
			}
			c.store.AddToHistory(blocks)
			blocks[0].Content = ""
			c.store.UpdateBlocks(blocks)
			return ""
		}
		c.store.AddToHistory(blocks)
		c.store.UpdateBlocks(removeAt(blocks, idx))
		c.log.Debug("empty block removed", slog.String("block", id))
		return ""
	}

	if forced != "" && !forced.Valid() {
		c.log.Warn("ignoring invalid forced type", slog.String("type", string(forced)))
		forced = ""
	}

	c.store.AddToHistory(blocks)
	created := ""
	if forced != "" {
		blocks[idx].Type = forced
		blocks[idx].Content = newContent
		if forced == domain.Transition {
			blocks, created = c.insertSceneHeadingAfter(blocks, idx)
		}
		c.store.UpdateBlocks(blocks)
		c.focusCreated(created)
		return created
	}

	switch bt, ok := script.DetectFormat(newContent, cur.Type); {
	case cur.Type == domain.Parenthetical:
		blocks[idx].Content = script.WrapParenthetical(newContent)
	case ok && bt == domain.Transition:
		blocks[idx].Type = domain.Transition
		blocks[idx].Content = strings.ToUpper(strings.TrimSpace(newContent))
		blocks, created = c.insertSceneHeadingAfter(blocks, idx)
		c.log.Debug("transition detected", slog.String("block", id))
	case ok:
		blocks[idx].Type = bt
		blocks[idx].Content = newContent
	default:
		blocks[idx].Content = newContent
	}
	c.store.UpdateBlocks(blocks)
	c.focusCreated(created)
	return created
}

// insertSceneHeadingAfter inserts an empty scene heading after position idx.
func (c *ContentProcessor) insertSceneHeadingAfter(blocks []domain.Block, idx int) ([]domain.Block, string) {
	nb := domain.Block{ID: c.store.NewID(), Type: domain.SceneHeading}
	return insertAt(blocks, idx+1, nb), nb.ID
}

func (c *ContentProcessor) focusCreated(id string) {
	if id == "" {
		return
	}
	c.sched.Defer(func() { c.caret.placeAt(id, 0) })
}

// insertAt returns blocks with b inserted at position i.
func insertAt(blocks []domain.Block, i int, b domain.Block) []domain.Block {
	out := make([]domain.Block, 0, len(blocks)+1)
	out = append(out, blocks[:i]...)
	out = append(out, b)
	return append(out, blocks[i:]...)
}

// removeAt returns blocks without position i.
func removeAt(blocks []domain.Block, i int) []domain.Block {
	out := make([]domain.Block, 0, len(blocks)-1)
	out = append(out, blocks[:i]...)
	return append(out, blocks[i+1:]...)
}
