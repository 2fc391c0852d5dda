/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"testing"

	"goscreenwriter/internal/domain"
)

func TestDetectFormatPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		content string
		current domain.BlockType
		want    domain.BlockType
		ok      bool
	}{
		{"parenthetical wins", "CUT TO:", domain.Parenthetical, domain.Parenthetical, true},
		{"transition suffix", "smash cut to:", domain.Action, domain.Transition, true},
		{"fade in", "Fade in", domain.Action, domain.Transition, true},
		{"dissolve", "DISSOLVE", domain.Dialogue, domain.Transition, true},
		{"already transition falls through", "CUT TO:", domain.Transition, "", false},
		{"interior", "int. kitchen - day", domain.Action, domain.SceneHeading, true},
		{"int/ext", "INT/EXT. CAR - MOVING", domain.Action, domain.SceneHeading, true},
		{"i/e with space", "I/E HALLWAY", domain.Action, domain.SceneHeading, true},
		{"no separator", "INTERCOM buzzes", domain.Action, "", false},
		{"shot", "ANGLE ON the door", domain.Action, domain.Shot, true},
		{"pov bare", "POV", domain.Action, domain.Shot, true},
		{"shot lower case ignored", "angle on the door", domain.Action, "", false},
		{"prose", "She waits.", domain.Action, "", false},
	}
	for _, tc := range cases {
		got, ok := DetectFormat(tc.content, tc.current)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: DetectFormat(%q, %s) = %q,%v want %q,%v", tc.name, tc.content, tc.current, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsTransitionContent(t *testing.T) {
	if IsTransitionContent("   ") {
		t.Fatalf("blank is not a transition")
	}
	if !IsTransitionContent("  cut to:  ") {
		t.Fatalf("lower-case TO: should match")
	}
	if IsTransitionContent("He walks to the door") {
		t.Fatalf("prose should not match")
	}
}

func TestNextBlockTypeTable(t *testing.T) {
	cases := []struct {
		cur    domain.BlockType
		before string
		want   domain.BlockType
	}{
		{domain.SceneHeading, "INT. HOUSE", domain.Action},
		{domain.Action, "x", domain.Action},
		{domain.Character, "BOB", domain.Dialogue},
		{domain.Parenthetical, "(beat)", domain.Dialogue},
		{domain.Dialogue, "Hello.", domain.Character},
		{domain.Dialogue, "   ", domain.Action},
		{domain.Transition, "CUT TO:", domain.SceneHeading},
		{domain.Shot, "POV", domain.Action},
	}
	for _, tc := range cases {
		if got := NextBlockType(tc.cur, tc.before); got != tc.want {
			t.Fatalf("NextBlockType(%s, %q) = %s, want %s", tc.cur, tc.before, got, tc.want)
		}
	}
}

func TestParentheticalWrapping(t *testing.T) {
	if got := WrapParenthetical("  beat "); got != "(beat)" {
		t.Fatalf("wrap = %q", got)
	}
	if got := WrapParenthetical("(beat"); got != "(beat)" {
		t.Fatalf("wrap half = %q", got)
	}
	if got := UnwrapParenthetical("(note)"); got != "note" {
		t.Fatalf("unwrap = %q", got)
	}
	if got := UnwrapParenthetical("((x))"); got != "(x)" {
		t.Fatalf("unwrap strips one pair only, got %q", got)
	}
	if !IsTransitionShaped("CUT TO:") || IsTransitionShaped("cut to:") || !IsTransitionShaped("fade out") {
		t.Fatalf("IsTransitionShaped misreports")
	}
}
