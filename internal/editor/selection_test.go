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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goscreenwriter/internal/domain"
)

func fourBlocks(t *testing.T) *harness {
	return newHarness(t,
		blk("a", domain.SceneHeading, "INT. ROOM - DAY"),
		blk("b", domain.Action, "hello"),
		blk("c", domain.Character, "ANNA"),
		blk("d", domain.Dialogue, "world"),
	)
}

func TestClickActivatesWithoutSelecting(t *testing.T) {
	h := fourBlocks(t)
	h.dispatch(Click{BlockID: "b"})
	assert.Equal(t, "b", h.ed.Active())
	assert.Empty(t, h.ed.Selected())
}

func TestDoubleClickSelection(t *testing.T) {
	h := fourBlocks(t)
	h.dispatch(DoubleClick{BlockID: "b"})
	assert.Equal(t, []string{"b"}, h.ed.Selected())

	h.dispatch(Click{BlockID: "d"})
	h.dispatch(DoubleClick{BlockID: "a", Mods: Mods{Shift: true}})
	assert.Equal(t, []string{"a", "b", "c", "d"}, h.ed.Selected())

	h.dispatch(DoubleClick{BlockID: "c", Mods: Mods{Meta: true}})
	assert.Equal(t, []string{"a", "b", "d"}, h.ed.Selected())
	h.dispatch(DoubleClick{BlockID: "c", Mods: Mods{Ctrl: true}})
	assert.Equal(t, []string{"a", "b", "c", "d"}, h.ed.Selected())

	h.dispatch(DoubleClick{BlockID: "c"})
	assert.Equal(t, []string{"c"}, h.ed.Selected())
}

func TestShiftDoubleClickWithoutAnchorSelectsOne(t *testing.T) {
	h := fourBlocks(t)
	h.dispatch(DoubleClick{BlockID: "c", Mods: Mods{Shift: true}})
	assert.Equal(t, []string{"c"}, h.ed.Selected())
}

func TestDragSelectsRangePastThreshold(t *testing.T) {
	h := fourBlocks(t)
	assert.True(t, h.dispatch(MouseDown{BlockID: "a", Pos: Point{X: 10, Y: 200}}), "gutter press suppresses default")

	h.dispatch(MouseMove{Pos: Point{X: 12, Y: 203}, OverBlock: "b"})
	assert.Empty(t, h.ed.Selected(), "below threshold")

	h.dispatch(MouseMove{Pos: Point{X: 10, Y: 240}, OverBlock: "c"})
	assert.Equal(t, []string{"a", "b", "c"}, h.ed.Selected())

	h.dispatch(MouseMove{Pos: Point{X: 10, Y: 220}, OverBlock: "b"})
	assert.Equal(t, []string{"a", "b"}, h.ed.Selected(), "dragging back shrinks the range")

	h.dispatch(MouseUp{})
	h.dispatch(MouseMove{Pos: Point{X: 10, Y: 300}, OverBlock: "d"})
	assert.Equal(t, []string{"a", "b"}, h.ed.Selected(), "no drag after mouse up")
}

func TestShiftDragAppendsToSelection(t *testing.T) {
	h := fourBlocks(t)
	h.dispatch(DoubleClick{BlockID: "d"})
	h.dispatch(MouseDown{BlockID: "a", Pos: Point{Y: 200}})
	h.dispatch(MouseMove{Pos: Point{Y: 230}, OverBlock: "b", Mods: Mods{Shift: true}})
	assert.Equal(t, []string{"a", "b", "d"}, h.ed.Selected())
}

func TestDragAutoScrollsNearEdges(t *testing.T) {
	h := fourBlocks(t)
	h.dispatch(MouseDown{BlockID: "b", Pos: Point{Y: 300}})
	h.dispatch(MouseMove{Pos: Point{Y: 550}})
	assert.Equal(t, 15.0, h.s.scrolled)
	h.dispatch(MouseMove{Pos: Point{Y: 560}})
	assert.Equal(t, 30.0, h.s.scrolled)
	h.dispatch(MouseMove{Pos: Point{Y: 40}})
	assert.Equal(t, 15.0, h.s.scrolled)
	h.dispatch(MouseMove{Pos: Point{Y: 300}})
	assert.Equal(t, 15.0, h.s.scrolled, "middle of the viewport does not scroll")
}

func TestEditablePressDoesNotDrag(t *testing.T) {
	h := fourBlocks(t)
	h.caretAt("b", 1)
	assert.False(t, h.dispatch(MouseDown{BlockID: "b", Pos: Point{Y: 200}, Editable: true}))
	h.dispatch(MouseMove{Pos: Point{Y: 260}, OverBlock: "d"})
	assert.Empty(t, h.ed.Selected())

	h.dispatch(Click{BlockID: "c"})
	assert.Equal(t, "c", h.ed.Active(), "click still activates")
	h.dispatch(DoubleClick{BlockID: "a", Mods: Mods{Shift: true}})
	assert.Equal(t, []string{"a"}, h.ed.Selected(), "click during text selection is not an anchor")
}

func TestClickOutsideClearsSelections(t *testing.T) {
	h := fourBlocks(t)
	h.ed.SelectAll()
	h.dispatch(ClickOutside{InEditor: false, InFormatControls: true})
	assert.Len(t, h.ed.Selected(), 4)
	h.dispatch(ClickOutside{InEditor: true})
	assert.Len(t, h.ed.Selected(), 4)
	h.dispatch(ClickOutside{})
	assert.Empty(t, h.ed.Selected())
}

func TestGlobalKeyClearsSelection(t *testing.T) {
	h := fourBlocks(t)
	h.ed.SelectAll()
	for _, k := range []string{KeyShift, KeyTab, KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight} {
		h.dispatch(KeyDown{Key: k})
	}
	h.dispatch(KeyDown{Key: "z", Mods: Mods{Ctrl: true}})
	assert.Len(t, h.ed.Selected(), 4)
	h.dispatch(KeyDown{Key: "q"})
	assert.Empty(t, h.ed.Selected())
}

// captureAcross simulates a text selection from "b" offset 2 to "d" offset 3.
func captureAcross(h *harness) {
	h.caretAt("b", 2)
	h.dispatch(MouseDown{BlockID: "b", Pos: Point{Y: 200}, Editable: true})
	h.dispatch(SelectionChange{StartBlock: "b", StartOffset: 2, EndBlock: "d", EndOffset: 3, Text: "llo\nANNA\nwor"})
	h.dispatch(MouseUp{})
}

func TestCopyMultiBlockSelection(t *testing.T) {
	h := fourBlocks(t)
	captureAcross(h)
	sel := h.ed.TextSelection()
	assert.True(t, sel.MultiBlock())
	assert.Equal(t, TextSelection{StartBlock: "b", StartOffset: 2, EndBlock: "d", EndOffset: 3, Text: "llo\nANNA\nwor"}, sel)

	assert.True(t, h.key("d", "c", Mods{Ctrl: true}))
	got, err := h.clip.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "llo\nANNA\nwor", got)
	assert.True(t, h.ed.TextSelection().MultiBlock(), "copy keeps the record")
}

func TestCopySingleBlockLeftToSurface(t *testing.T) {
	h := fourBlocks(t)
	h.caretAt("b", 1)
	h.dispatch(MouseDown{BlockID: "b", Editable: true})
	h.dispatch(SelectionChange{StartBlock: "b", StartOffset: 1, EndBlock: "b", EndOffset: 4, Text: "ell"})
	assert.False(t, h.key("b", "c", Mods{Meta: true}))
	got, _ := h.clip.ReadAll()
	assert.Equal(t, "", got)
}

func TestSelectionChangeIgnoredWithoutGesture(t *testing.T) {
	h := fourBlocks(t)
	h.dispatch(SelectionChange{StartBlock: "a", EndBlock: "b", Text: "x"})
	assert.Equal(t, TextSelection{}, h.ed.TextSelection())
}

func TestCopyClipboardFailureIsNotFatal(t *testing.T) {
	h := fourBlocks(t)
	captureAcross(h)
	h.clip.Err = errors.New("denied")
	assert.True(t, h.ed.Copy())
}

func TestCutRecordsHistoryAndClearsRecord(t *testing.T) {
	h := fourBlocks(t)
	captureAcross(h)
	before := h.ed.Blocks()

	assert.True(t, h.key("", "x", Mods{Ctrl: true}), "document-level cut")
	got, _ := h.clip.ReadAll()
	assert.Equal(t, "llo\nANNA\nwor", got)
	assert.Equal(t, TextSelection{}, h.ed.TextSelection())
	_, depth, _ := h.ed.HistoryStats()
	assert.Equal(t, 1, depth)

	// The surface removes the text and reports it; undo restores the full list.
	h.typeText("b", "he")
	h.typeText("c", "")
	h.typeText("d", "ld")
	require.True(t, h.ed.Undo())
	require.True(t, h.ed.Undo())
	require.True(t, h.ed.Undo())
	require.True(t, h.ed.Undo())
	assert.True(t, domain.SameBlocks(before, h.ed.Blocks()))
	assert.False(t, h.ed.Cut(), "nothing captured")
}

func TestCutClearsRecordWhenBlocksAreGone(t *testing.T) {
	h := fourBlocks(t)
	captureAcross(h)
	h.ed.UpdateBlocks(h.ed.Blocks()[:2])

	assert.True(t, h.ed.Cut())
	assert.Equal(t, TextSelection{}, h.ed.TextSelection())
	assert.False(t, h.ed.Cut(), "record already consumed")
	_, depth, _ := h.ed.HistoryStats()
	assert.Equal(t, 1, depth)
}

func TestKeyInterceptorRunsBeforeStructural(t *testing.T) {
	h := fourBlocks(t)
	var seen []string
	h.ed.SetKeyInterceptor(func(key string, mods Mods) bool {
		seen = append(seen, key)
		return key == KeyEnter && mods.Alt
	})
	h.caretAt("b", 5)
	assert.True(t, h.key("b", KeyEnter, Mods{Alt: true}))
	assert.Len(t, h.ed.Blocks(), 4, "intercepted Enter does not split")
	assert.True(t, h.key("b", KeyEnter, Mods{}))
	assert.Len(t, h.ed.Blocks(), 5)
	assert.Equal(t, []string{KeyEnter, KeyEnter}, seen)
}
