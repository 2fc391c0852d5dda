/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package headless is an in-memory editing surface. It renders block text
// without any toolkit, keeps one focused block with a caret or selection,
// and replays recorded editor sessions. The CLI and tests drive the editor
// core through it.
package headless

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"goscreenwriter/internal/domain"
)

var (
	ErrNotRendered = errors.New("block is not rendered")
	ErrNotFocused  = errors.New("block does not have focus")
	ErrOffset      = errors.New("offset out of range")
)

// LineHeight is the height of one rendered line, used for the viewport.
const LineHeight = 20.0

// Surface implements editor.Surface and editor.Scroller.
type Surface struct {
	order   []string
	content map[string]string

	focused    string
	start, end int

	height float64
	scroll float64

	// Suggestions lists the blocks that received a suggestion trigger, in order.
	Suggestions []string
}

// New returns an empty surface with a viewport height in pixels.
func New(height float64) *Surface {
	if height <= 0 {
		height = 600
	}
	return &Surface{content: map[string]string{}, height: height}
}

// Render draws blocks, replacing whatever was shown. Focus is dropped when
// the focused block is gone; a caret past the end of changed text is clamped.
func (s *Surface) Render(blocks []domain.Block) {
	s.order = s.order[:0]
	s.content = make(map[string]string, len(blocks))
	for _, b := range blocks {
		s.order = append(s.order, b.ID)
		s.content[b.ID] = b.Content
	}
	text, ok := s.content[s.focused]
	if !ok {
		s.focused, s.start, s.end = "", 0, 0
		return
	}
	n := uniseg.GraphemeClusterCount(text)
	s.start = min(s.start, n)
	s.end = min(s.end, n)
}

// SetContent changes a rendered block's text the way typing would.
func (s *Surface) SetContent(id, text string) error {
	if _, ok := s.content[id]; !ok {
		return fmt.Errorf("set content %s: %w", id, ErrNotRendered)
	}
	s.content[id] = text
	return nil
}

func (s *Surface) Focus(id string) error {
	if _, ok := s.content[id]; !ok {
		return fmt.Errorf("focus %s: %w", id, ErrNotRendered)
	}
	if s.focused != id {
		s.focused, s.start, s.end = id, 0, 0
	}
	return nil
}

// Focused returns the focused block id, or "".
func (s *Surface) Focused() string { return s.focused }

func (s *Surface) Caret(id string) (int, error) {
	if id != s.focused || id == "" {
		return 0, ErrNotFocused
	}
	return s.start, nil
}

func (s *Surface) SetCaret(id string, off int) error { return s.SetSelectionRange(id, off, off) }

func (s *Surface) SelectionRange(id string) (int, int, error) {
	if id != s.focused || id == "" {
		return 0, 0, ErrNotFocused
	}
	return s.start, s.end, nil
}

// SetSelectionRange focuses id and selects [start, end). Offsets are in
// grapheme clusters.
func (s *Surface) SetSelectionRange(id string, start, end int) error {
	text, ok := s.content[id]
	if !ok {
		return fmt.Errorf("select %s: %w", id, ErrNotRendered)
	}
	if start < 0 || end < start || end > uniseg.GraphemeClusterCount(text) {
		return fmt.Errorf("select %s [%d,%d): %w", id, start, end, ErrOffset)
	}
	s.focused, s.start, s.end = id, start, end
	return nil
}

func (s *Surface) Content(id string) (string, bool) {
	text, ok := s.content[id]
	return text, ok
}

func (s *Surface) DispatchSuggestionTrigger(id string) { s.Suggestions = append(s.Suggestions, id) }

// Viewport returns the visible range in document coordinates.
func (s *Surface) Viewport() (float64, float64) { return s.scroll, s.scroll + s.height }

// ScrollBy moves the viewport, never above the top of the document.
func (s *Surface) ScrollBy(dy float64) {
	s.scroll = max(0, s.scroll+dy)
}

// BlockAt returns the block drawn at document position y, one line per block.
func (s *Surface) BlockAt(y float64) string {
	i := int(y / LineHeight)
	if y < 0 || i >= len(s.order) {
		return ""
	}
	return s.order[i]
}

// String renders the visible document as plain lines, marking the focused
// block with ">".
func (s *Surface) String() string {
	var b strings.Builder
	for _, id := range s.order {
		mark := " "
		if id == s.focused {
			mark = ">"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, s.content[id])
	}
	return b.String()
}
