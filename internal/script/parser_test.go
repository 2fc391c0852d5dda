/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"testing"

	"goscreenwriter/internal/domain"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("b%d", n)
	}
}

func TestParseBasicScenesAndDialogue(t *testing.T) {
	input := `Title: The Lab
Author: A. Writer
Draft date: 2025-01-02

INT. LAB - NIGHT

Beakers bubble on every bench.
A radio hums.

ALICE
(whispering)
Is it working?
It has to be.

CUT TO:

EXT. ROOFTOP - DAY

CLOSE ON a pigeon.`

	sp, errs := Parse(input, counter())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if sp.Header.Title != "The Lab" || sp.Header.Author != "A. Writer" || sp.Header.DraftDate != "2025-01-02" {
		t.Fatalf("unexpected header: %+v", sp.Header)
	}
	want := []struct {
		bt      domain.BlockType
		content string
	}{
		{domain.SceneHeading, "INT. LAB - NIGHT"},
		{domain.Action, "Beakers bubble on every bench.\nA radio hums."},
		{domain.Character, "ALICE"},
		{domain.Parenthetical, "(whispering)"},
		{domain.Dialogue, "Is it working?\nIt has to be."},
		{domain.Transition, "CUT TO:"},
		{domain.SceneHeading, "EXT. ROOFTOP - DAY"},
		{domain.Shot, "CLOSE ON a pigeon."},
	}
	if len(sp.Blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(want), len(sp.Blocks), sp.Blocks)
	}
	for i, w := range want {
		b := sp.Blocks[i]
		if b.Type != w.bt || b.Content != w.content {
			t.Fatalf("block %d = %s %q, want %s %q", i, b.Type, b.Content, w.bt, w.content)
		}
	}
	if sp.Blocks[0].Number != 1 || sp.Blocks[6].Number != 2 || sp.Blocks[1].Number != 0 {
		t.Fatalf("scene numbers not assigned: %+v", sp.Blocks)
	}
	if sp.Blocks[0].ID != "b1" || sp.Blocks[7].ID != "b8" {
		t.Fatalf("ids not taken from generator: %+v", sp.Blocks)
	}
}

func TestParseForcedElementsAndSkips(t *testing.T) {
	input := `# Act One
= The hero wakes up

.THE VOID

@McCLANE
Yippee.

> fade to black`

	sp, errs := Parse(input, counter())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(sp.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %+v", sp.Blocks)
	}
	if sp.Blocks[0].Type != domain.SceneHeading || sp.Blocks[0].Content != "THE VOID" {
		t.Fatalf("forced scene heading: %+v", sp.Blocks[0])
	}
	if sp.Blocks[1].Type != domain.Character || sp.Blocks[1].Content != "MCCLANE" {
		t.Fatalf("forced character: %+v", sp.Blocks[1])
	}
	if sp.Blocks[3].Type != domain.Transition || sp.Blocks[3].Content != "FADE TO BLACK" {
		t.Fatalf("forced transition: %+v", sp.Blocks[3])
	}
}

func TestParseReportsUnclosedParenthetical(t *testing.T) {
	input := `BOB
(beat
Fine.`
	sp, errs := Parse(input, counter())
	if len(errs) != 1 || errs[0].Line != 2 {
		t.Fatalf("expected one error on line 2, got %+v", errs)
	}
	if sp.Blocks[1].Type != domain.Parenthetical || sp.Blocks[1].Content != "(beat)" {
		t.Fatalf("parenthetical should still be wrapped: %+v", sp.Blocks[1])
	}
	if errs[0].Error() == "" {
		t.Fatalf("error string empty")
	}
}

func TestParseUpperCaseLineWithoutDialogueIsAction(t *testing.T) {
	sp, _ := Parse("BOOM!\n\nSmoke everywhere.", counter())
	if len(sp.Blocks) != 2 || sp.Blocks[0].Type != domain.Action {
		t.Fatalf("lone upper-case line should be action: %+v", sp.Blocks)
	}
}
