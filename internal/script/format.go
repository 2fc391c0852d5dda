/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"regexp"
	"strings"

	"goscreenwriter/internal/domain"
)

var (
	reScenePrefix  = regexp.MustCompile(`(?i)^(INT/EXT|INT|EXT|I/E)(\.|\s)`)
	reFadeDissolve = regexp.MustCompile(`^(FADE (IN|OUT)|DISSOLVE)`)

	// Used by format changes: content already shaped like a transition is left alone.
	reTransitionShaped = regexp.MustCompile(`(?i)^FADE (IN|OUT)|^DISSOLVE`)
)

// ShotPrefixes are the camera directions recognized at the start of a line.
// They only match in upper case so ordinary action prose is not reclassified.
var ShotPrefixes = []string{
	"ANGLE ON", "CLOSE ON", "CLOSE UP", "EXTREME CLOSE", "INSERT", "POV", "TRACKING SHOT", "WIDE SHOT",
}

// IsTransitionContent reports whether content reads like a transition:
// it ends with "TO:" or starts with FADE IN, FADE OUT or DISSOLVE (case-insensitive).
func IsTransitionContent(content string) bool {
	t := strings.ToUpper(strings.TrimSpace(content))
	if t == "" {
		return false
	}
	return strings.HasSuffix(t, "TO:") || reFadeDissolve.MatchString(t)
}

// IsTransitionShaped is the stricter check used when a block is converted to a
// transition: a literal "TO:" suffix or a leading fade/dissolve.
func IsTransitionShaped(content string) bool {
	return strings.HasSuffix(content, "TO:") || reTransitionShaped.MatchString(content)
}

// HasScenePrefix reports whether content starts with INT, EXT, INT/EXT or I/E
// followed by a period or whitespace.
func HasScenePrefix(content string) bool {
	return reScenePrefix.MatchString(strings.TrimSpace(content))
}

func hasShotPrefix(content string) bool {
	t := strings.TrimSpace(content)
	for _, p := range ShotPrefixes {
		if !strings.HasPrefix(t, p) {
			continue
		}
		rest := t[len(p):]
		if rest == "" {
			return true
		}
		switch rest[0] {
		case ' ', '\t', ':', '-', '.', ',':
			return true
		}
	}
	return false
}

// DetectFormat infers the block type content should have, given the type the
// block currently has. ok is false when no rule applies and the current type
// should be kept. Precedence: parenthetical, transition, scene-heading prefix,
// shot prefix.
func DetectFormat(content string, current domain.BlockType) (bt domain.BlockType, ok bool) {
	if current == domain.Parenthetical {
		return domain.Parenthetical, true
	}
	if current != domain.Transition && IsTransitionContent(content) {
		return domain.Transition, true
	}
	if HasScenePrefix(content) {
		return domain.SceneHeading, true
	}
	if hasShotPrefix(content) {
		return domain.Shot, true
	}
	return "", false
}

// NextBlockType decides the type of the block created by Enter, from the type
// of the block being split and the text before the caret.
func NextBlockType(current domain.BlockType, before string) domain.BlockType {
	switch current {
	case domain.SceneHeading:
		return domain.Action
	case domain.Action:
		return domain.Action
	case domain.Character:
		return domain.Dialogue
	case domain.Parenthetical:
		return domain.Dialogue
	case domain.Dialogue:
		if strings.TrimSpace(before) != "" {
			return domain.Character
		}
		return domain.Action
	case domain.Transition:
		return domain.SceneHeading
	case domain.Shot:
		return domain.Action
	default:
		return domain.Action
	}
}

// WrapParenthetical trims s and makes sure it starts with "(" and ends with ")".
func WrapParenthetical(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		s = "(" + s
	}
	if !strings.HasSuffix(s, ")") {
		s += ")"
	}
	return s
}

// UnwrapParenthetical strips one leading "(" and one trailing ")" and trims the result.
func UnwrapParenthetical(s string) string {
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	return strings.TrimSpace(s)
}
