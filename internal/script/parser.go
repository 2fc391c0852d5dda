/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"regexp"
	"strings"
	"unicode"

	"goscreenwriter/internal/domain"
)

var reTitleKey = regexp.MustCompile(`^(?i)(title|author|authors|credit|contact|draft date)\s*:\s*(.*)$`)

// Parse classifies the lines of a plain-text screenplay into blocks. newID
// supplies block identifiers. Problems that do not stop parsing (an unclosed
// parenthetical, say) are reported as errors alongside the result.
func Parse(input string, newID func() string) (domain.Screenplay, []Error) {
	sp := domain.Screenplay{Blocks: []domain.Block{}}
	var errs []Error

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r\n"))
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: len(lines) + 1, Column: 1, Message: err.Error()})
	}

	i := parseTitlePage(lines, &sp.Header)

	add := func(bt domain.BlockType, content string) {
		sp.Blocks = append(sp.Blocks, domain.Block{ID: newID(), Type: bt, Content: content})
	}
	last := func() *domain.Block {
		if len(sp.Blocks) == 0 {
			return nil
		}
		return &sp.Blocks[len(sp.Blocks)-1]
	}

	prevBlank := true
	inDialogue := false
	for ; i < len(lines); i++ {
		lineNo := i + 1
		trim := strings.TrimSpace(lines[i])
		if trim == "" {
			prevBlank = true
			inDialogue = false
			continue
		}
		wasBlank := prevBlank
		prevBlank = false

		if strings.HasPrefix(trim, "#") || (strings.HasPrefix(trim, "=") && !strings.HasPrefix(trim, "===")) {
			continue
		}

		if inDialogue {
			if strings.HasPrefix(trim, "(") {
				if !strings.HasSuffix(trim, ")") {
					errs = append(errs, Error{Line: lineNo, Column: len(lines[i]) + 1, Message: "unclosed parenthetical"})
				}
				add(domain.Parenthetical, WrapParenthetical(trim))
				continue
			}
			if b := last(); b != nil && b.Type == domain.Dialogue {
				b.Content += "\n" + trim
				continue
			}
			add(domain.Dialogue, trim)
			continue
		}

		switch {
		case strings.HasPrefix(trim, ".") && !strings.HasPrefix(trim, ".."):
			add(domain.SceneHeading, strings.TrimSpace(trim[1:]))
		case strings.HasPrefix(trim, ">") && !strings.HasSuffix(trim, "<"):
			add(domain.Transition, strings.ToUpper(strings.TrimSpace(trim[1:])))
		case HasScenePrefix(trim):
			add(domain.SceneHeading, trim)
		case IsTransitionContent(trim) && trim == strings.ToUpper(trim):
			add(domain.Transition, trim)
		case hasShotPrefix(trim):
			add(domain.Shot, trim)
		case wasBlank && hasNextLine(lines, i) && (strings.HasPrefix(trim, "@") || isCharacterCue(trim)):
			add(domain.Character, strings.ToUpper(strings.TrimPrefix(trim, "@")))
			inDialogue = true
		default:
			if b := last(); b != nil && b.Type == domain.Action && !wasBlank {
				b.Content += "\n" + trim
				continue
			}
			add(domain.Action, trim)
		}
	}

	domain.Renumber(sp.Blocks)
	return sp, errs
}

// parseTitlePage reads leading "Key: value" lines into h and returns the index
// of the first body line.
func parseTitlePage(lines []string, h *domain.Header) int {
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	start := i
	for ; i < len(lines); i++ {
		trim := strings.TrimSpace(lines[i])
		if trim == "" {
			break
		}
		m := reTitleKey.FindStringSubmatch(trim)
		if m == nil {
			if i == start {
				return 0
			}
			continue
		}
		v := strings.TrimSpace(m[2])
		switch strings.ToLower(m[1]) {
		case "title":
			h.Title = v
		case "author", "authors":
			h.Author = v
		case "contact":
			h.Contact = v
		case "draft date":
			h.DraftDate = v
		}
	}
	return i
}

func hasNextLine(lines []string, i int) bool {
	return i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != ""
}

// isCharacterCue reports whether s looks like a speaker name: upper case with
// at least one letter, ignoring an extension such as "(V.O.)" or "(CONT'D)".
func isCharacterCue(s string) bool {
	name := s
	if idx := strings.Index(name, "("); idx > 0 {
		name = strings.TrimSpace(name[:idx])
	}
	hasLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
