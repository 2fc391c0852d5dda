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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goscreenwriter/internal/domain"
)

func TestTransitionContentInsertsSceneHeading(t *testing.T) {
	h := newHarness(t, blk("a", domain.Action, "He leaves."), blk("b", domain.Action, "cut"), blk("c", domain.Action, "After."))
	h.caretAt("b", 3)
	h.typeText("b", "cut to:")

	blocks := h.ed.Blocks()
	require.Len(t, blocks, 4)
	assert.Equal(t, domain.Transition, blocks[1].Type)
	assert.Equal(t, "CUT TO:", blocks[1].Content)
	assert.Equal(t, domain.SceneHeading, blocks[2].Type)
	assert.Equal(t, "", blocks[2].Content)
	assert.Equal(t, "c", blocks[3].ID)
	assert.Equal(t, blocks[2].ID, h.s.focused, "new scene heading receives focus")
	assert.Equal(t, 0, h.s.start)
	assert.Empty(t, h.s.suggestions)
}

func TestTransitionContentOnTransitionDoesNotInsert(t *testing.T) {
	h := newHarness(t, blk("t", domain.Transition, "CUT TO:"))
	h.typeText("t", "DISSOLVE TO:")
	blocks := h.ed.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "DISSOLVE TO:", blocks[0].Content)
}

func TestEmptyContentRemovesBlock(t *testing.T) {
	h := newHarness(t, blk("a", domain.Action, "x"), blk("b", domain.Action, "y"))
	h.typeText("b", "   ")
	assert.Equal(t, []string{"action:x"}, contents(h.ed.Blocks()))
	require.True(t, h.ed.Undo())
	assert.Equal(t, []string{"action:x", "action:y"}, contents(h.ed.Blocks()))
}

func TestEmptyContentKeepsSoleBlock(t *testing.T) {
	h := newHarness(t, blk("a", domain.Action, "x"))
	h.typeText("a", "")
	blocks := h.ed.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "a", blocks[0].ID)
	assert.Equal(t, "", blocks[0].Content)

	// Nothing left to clear: no further history entry.
	_, depth, _ := h.ed.HistoryStats()
	h.typeText("a", "")
	_, depth2, _ := h.ed.HistoryStats()
	assert.Equal(t, depth, depth2)
}

func TestForcedTypeIsAppliedVerbatim(t *testing.T) {
	h := newHarness(t, blk("a", domain.Action, "ext"))
	created := h.ed.HandleContentChange("a", "EXT. ", domain.SceneHeading)
	assert.Equal(t, "", created)
	assert.Equal(t, []string{"scene-heading:EXT. "}, contents(h.ed.Blocks()))

	created = h.ed.HandleContentChange("a", "smash cut", domain.Transition)
	require.NotEmpty(t, created)
	assert.Equal(t, []string{"transition:smash cut", "scene-heading:"}, contents(h.ed.Blocks()))
	h.render()
	assert.Equal(t, created, h.s.focused)
}

func TestInvalidForcedTypeFallsBackToDetection(t *testing.T) {
	h := newHarness(t, blk("a", domain.Action, "x"))
	h.ed.HandleContentChange("a", "INT. HOUSE", "montage")
	assert.Equal(t, domain.SceneHeading, h.ed.Blocks()[0].Type)
}

func TestParentheticalContentIsRewrapped(t *testing.T) {
	h := newHarness(t, blk("p", domain.Parenthetical, "()"))
	h.typeText("p", " (softly ")
	assert.Equal(t, "(softly)", h.ed.Blocks()[0].Content)
	h.typeText("p", "CUT TO:")
	assert.Equal(t, []string{"parenthetical:(CUT TO:)"}, contents(h.ed.Blocks()))
}

func TestDetectionAdoptsSceneHeadingAndShot(t *testing.T) {
	h := newHarness(t, blk("a", domain.Action, ""), blk("b", domain.Action, ""))
	h.typeText("a", "int. kitchen - night")
	h.typeText("b", "CLOSE ON the knife")
	blocks := h.ed.Blocks()
	assert.Equal(t, domain.SceneHeading, blocks[0].Type)
	assert.Equal(t, "int. kitchen - night", blocks[0].Content, "content is left as typed")
	assert.Equal(t, 1, blocks[0].Number)
	assert.Equal(t, domain.Shot, blocks[1].Type)

	h.typeText("b", "She runs.")
	assert.Equal(t, domain.Shot, h.ed.Blocks()[1].Type, "no rule applies, type is kept")
}

func TestContentChangeForUnknownBlockIsIgnored(t *testing.T) {
	h := newHarness(t, blk("a", domain.Action, "x"))
	assert.Equal(t, "", h.ed.HandleContentChange("ghost", "CUT TO:", ""))
	assert.Equal(t, []string{"action:x"}, contents(h.ed.Blocks()))
	assert.False(t, h.ed.Undo())
}
