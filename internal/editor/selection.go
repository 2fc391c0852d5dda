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
	"math"

	"goscreenwriter/internal/clipboard"
)

// TextSelection is an in-text selection that may span several blocks.
// Offsets are grapheme offsets inside StartBlock and EndBlock.
type TextSelection struct {
	StartBlock  string `json:"startBlock,omitempty"`
	StartOffset int    `json:"startOffset"`
	EndBlock    string `json:"endBlock,omitempty"`
	EndOffset   int    `json:"endOffset"`
	Text        string `json:"text,omitempty"`
}

// MultiBlock reports whether the selection crosses a block boundary and
// carries text, the only case copy and cut take over from the surface.
func (t TextSelection) MultiBlock() bool {
	return t.StartBlock != "" && t.EndBlock != "" && t.StartBlock != t.EndBlock && t.Text != ""
}

func (t TextSelection) captured() bool {
	return t.StartBlock != "" && t.EndBlock != "" && t.Text != ""
}

// Selection tracks whole-block selection by click, double-click and drag,
// and the in-text selection record used by copy and cut. All gesture state
// belongs to the instance.
type Selection struct {
	store   *Store
	surface Surface
	clip    clipboard.Clipboard
	log     *slog.Logger

	threshold float64
	margin    float64
	step      float64

	lastClicked   string
	dragging      bool
	dragStart     string
	dragEnd       string
	lastPos       Point
	textSelecting bool
	text          TextSelection
}

// Click makes id the active block without selecting it.
func (s *Selection) Click(id string, _ Mods) {
	s.store.SetActive(id)
	if s.textSelecting || s.dragging {
		return
	}
	s.lastClicked = id
}

// DoubleClick selects blocks: the range from the last clicked block with
// Shift, a toggle with Ctrl/Cmd, otherwise just id.
func (s *Selection) DoubleClick(id string, mods Mods) {
	switch {
	case mods.Shift && s.lastClicked != "":
		from, to := s.store.Index(s.lastClicked), s.store.Index(id)
		if from < 0 || to < 0 {
			s.log.Debug("range select with unknown block", slog.String("from", s.lastClicked), slog.String("to", id))
			return
		}
		s.store.SetSelected(s.store.rangeIDs(from, to))
	case mods.Cmd():
		s.store.ToggleSelected(id)
	default:
		s.store.SetSelected([]string{id})
	}
}

// MouseDown starts a gesture on id. Inside editable text it begins in-text
// selection tracking seeded from the caret; elsewhere it starts a block drag.
func (s *Selection) MouseDown(id string, pos Point, editable bool) {
	s.lastPos = pos
	if editable {
		s.textSelecting = true
		if off, err := s.surface.Caret(id); err == nil {
			s.text = TextSelection{StartBlock: id, StartOffset: off, EndBlock: id, EndOffset: off}
		}
		return
	}
	s.dragging = true
	s.dragStart = id
	s.dragEnd = id
}

// MouseMove extends a block drag to the block under the pointer once the
// pointer has travelled past the threshold. Shift appends to the existing
// selection instead of replacing it.
func (s *Selection) MouseMove(pos Point, over string, mods Mods) {
	if !s.dragging || s.dragStart == "" {
		return
	}
	if math.Hypot(pos.X-s.lastPos.X, pos.Y-s.lastPos.Y) < s.threshold {
		return
	}
	s.lastPos = pos
	s.autoScroll(pos)

	if over == "" || over == s.dragEnd {
		return
	}
	s.dragEnd = over
	s.updateDragSelection(s.dragStart, over, mods.Shift)
}

func (s *Selection) updateDragSelection(startID, endID string, appendSel bool) {
	from, to := s.store.Index(startID), s.store.Index(endID)
	if from < 0 || to < 0 {
		return
	}
	ids := s.store.rangeIDs(from, to)
	if appendSel {
		s.store.addSelected(ids)
		return
	}
	s.store.SetSelected(ids)
}

func (s *Selection) autoScroll(pos Point) {
	sc, ok := s.surface.(Scroller)
	if !ok {
		return
	}
	top, bottom := sc.Viewport()
	switch {
	case pos.Y < top+s.margin:
		sc.ScrollBy(-s.step)
	case pos.Y > bottom-s.margin:
		sc.ScrollBy(s.step)
	}
}

// MouseUp ends any drag or in-text selection gesture. The captured text
// selection stays available for copy and cut.
func (s *Selection) MouseUp() {
	s.dragging = false
	s.dragStart = ""
	s.dragEnd = ""
	s.textSelecting = false
}

// SelectionChanged records a native selection change reported by the surface.
// It is ignored unless an in-text gesture is active or a record exists.
func (s *Selection) SelectionChanged(startBlock string, startOff int, endBlock string, endOff int, text string) {
	if !s.textSelecting && s.text.StartBlock == "" {
		return
	}
	if startBlock == "" || endBlock == "" {
		return
	}
	if s.text.StartBlock == "" {
		s.text.StartBlock = startBlock
		s.text.StartOffset = startOff
	}
	s.text.EndBlock = endBlock
	s.text.EndOffset = endOff
	s.text.Text = text
}

// ClickOutside clears both selections when the pointer went down outside the
// editor and outside the format controls.
func (s *Selection) ClickOutside(inEditor, inFormatControls bool) {
	if inEditor || inFormatControls {
		return
	}
	s.store.ClearSelection()
	s.text = TextSelection{}
}

// GlobalKey clears the block selection on any key that is not navigation or
// a modifier chord.
func (s *Selection) GlobalKey(key string, mods Mods) {
	if mods.Ctrl || mods.Meta || mods.Alt {
		return
	}
	switch key {
	case KeyShift, KeyTab, KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		return
	}
	s.store.ClearSelection()
}

// HasMultiBlock reports whether a cross-block text selection is captured.
func (s *Selection) HasMultiBlock() bool { return s.text.MultiBlock() }

// Text returns the captured in-text selection.
func (s *Selection) Text() TextSelection { return s.text }

// Copy writes the captured selection text to the clipboard. A clipboard
// failure is logged and otherwise ignored.
func (s *Selection) Copy() bool {
	if !s.text.captured() {
		return false
	}
	if err := s.clip.WriteAll(s.text.Text); err != nil {
		s.log.Warn("clipboard write failed", slog.Any("err", err))
	}
	return true
}

// Cut copies the selection, records the current list in history so the
// surface's own deletion can be undone, and clears the record. Removing the
// selected range is left to the surface.
func (s *Selection) Cut() bool {
	if !s.Copy() {
		return false
	}
	s.store.AddToHistory(s.store.Blocks())
	s.text = TextSelection{}
	return true
}
