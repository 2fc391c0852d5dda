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

import "log/slog"

// caretPlacer focuses blocks and places the caret on the surface, falling
// back to the end of the content when an offset is rejected.
type caretPlacer struct {
	store   *Store
	surface Surface
	log     *slog.Logger
}

// placeAt focuses id and puts the caret at off. A block that is gone by the
// time this runs is skipped.
func (c caretPlacer) placeAt(id string, off int) {
	if c.store.Index(id) < 0 {
		c.log.Debug("caret target gone", slog.String("block", id))
		return
	}
	if err := c.surface.Focus(id); err != nil {
		c.log.Debug("focus failed", slog.String("block", id), slog.Any("err", err))
		return
	}
	c.store.SetActive(id)
	if err := c.surface.SetCaret(id, off); err != nil {
		c.log.Debug("caret restore failed, moving to end", slog.String("block", id), slog.Int("offset", off), slog.Any("err", err))
		c.placeAtEnd(id)
	}
}

// selectRange selects [start, end) in id.
func (c caretPlacer) selectRange(id string, start, end int) {
	if err := c.surface.SetSelectionRange(id, start, end); err != nil {
		c.log.Debug("selection restore failed, moving to end", slog.String("block", id), slog.Any("err", err))
		c.placeAtEnd(id)
	}
}

// placeAtEnd puts the caret after the last grapheme of the rendered content,
// or of the stored content when the surface cannot report it.
func (c caretPlacer) placeAtEnd(id string) {
	text, ok := c.surface.Content(id)
	if !ok {
		b, found := c.store.Block(id)
		if !found {
			return
		}
		text = b.Content
	}
	if err := c.surface.SetCaret(id, textLen(text)); err != nil {
		c.log.Debug("caret at end failed", slog.String("block", id), slog.Any("err", err))
	}
}

// content returns what the surface shows for id, or the stored content.
func (c caretPlacer) content(id string) string {
	if text, ok := c.surface.Content(id); ok {
		return text
	}
	b, _ := c.store.Block(id)
	return b.Content
}
