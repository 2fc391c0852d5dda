/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"path/filepath"
	"strings"

	"github.com/rivo/uniseg"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/editor"
)

// editorKeys maps the toolkit's key names to the names the editor core
// expects. Keys not listed are never forwarded as KeyDown events.
var editorKeys = map[string]string{
	"Return":    editor.KeyEnter,
	"Enter":     editor.KeyEnter,
	"Tab":       editor.KeyTab,
	"BackSpace": editor.KeyBackspace,
	"Up":        editor.KeyArrowUp,
	"Down":      editor.KeyArrowDown,
	"Left":      editor.KeyArrowLeft,
	"Right":     editor.KeyArrowRight,
}

// editorKey translates a toolkit key name. ok is false for keys the editor
// does not handle.
func editorKey(name string) (key string, ok bool) {
	key, ok = editorKeys[name]
	return key, ok
}

// shortcutKey normalizes a key name carried by a modifier shortcut
// ("Z", "1") to the lower-case form hotkey combos use.
func shortcutKey(name string) string { return strings.ToLower(name) }

// rowCol converts a grapheme offset into the (row, rune column) pair a
// multi-line entry uses for its cursor. Rows split on '\n'.
func rowCol(text string, off int) (row, col int) {
	if off < 0 {
		off = 0
	}
	n := 0
	state := -1
	rest := text
	for len(rest) > 0 && n < off {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\n" {
			row++
			col = 0
		} else {
			col += len([]rune(cluster))
		}
		n++
	}
	return row, col
}

// graphemeOffset is the inverse of rowCol. Positions past the end of a row
// clamp to its end.
func graphemeOffset(text string, row, col int) int {
	lines := strings.Split(text, "\n")
	if row >= len(lines) {
		row = len(lines) - 1
	}
	if row < 0 {
		return 0
	}
	off := 0
	for _, l := range lines[:row] {
		off += uniseg.GraphemeClusterCount(l) + 1
	}
	line := []rune(lines[row])
	if col > len(line) {
		col = len(line)
	}
	if col < 0 {
		col = 0
	}
	return off + uniseg.GraphemeClusterCount(string(line[:col]))
}

// blockStyle describes how a block type is drawn on the page.
type blockStyle struct {
	Label  string
	Indent float32 // left inset as a fraction of the page width
	Width  float32 // text width as a fraction of the page width
	Bold   bool
	Italic bool
	Right  bool
}

var blockStyles = map[domain.BlockType]blockStyle{
	domain.SceneHeading:  {Label: "Scene Heading", Width: 1, Bold: true},
	domain.Action:        {Label: "Action", Width: 1},
	domain.Character:     {Label: "Character", Indent: 0.37, Width: 0.4},
	domain.Parenthetical: {Label: "Parenthetical", Indent: 0.27, Width: 0.33, Italic: true},
	domain.Dialogue:      {Label: "Dialogue", Indent: 0.17, Width: 0.58},
	domain.Transition:    {Label: "Transition", Indent: 0.6, Width: 0.4, Right: true},
	domain.Shot:          {Label: "Shot", Width: 1, Bold: true},
}

func styleFor(t domain.BlockType) blockStyle {
	if s, ok := blockStyles[t]; ok {
		return s
	}
	return blockStyles[domain.Action]
}

// formatLabels returns the toolbar labels in cycle order.
func formatLabels() []string {
	out := make([]string, len(domain.BlockTypes))
	for i, t := range domain.BlockTypes {
		out[i] = styleFor(t).Label
	}
	return out
}

// typeForLabel maps a toolbar label back to its block type.
func typeForLabel(label string) (domain.BlockType, bool) {
	for _, t := range domain.BlockTypes {
		if styleFor(t).Label == label {
			return t, true
		}
	}
	return "", false
}

const recentMax = 10

// pushRecent moves path to the front of items, dropping duplicates
// (case-insensitive, for Windows paths) and capping the list at recentMax.
func pushRecent(items []string, path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return items
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	out := make([]string, 0, len(items)+1)
	out = append(out, path)
	for _, s := range items {
		if strings.EqualFold(s, path) {
			continue
		}
		out = append(out, s)
	}
	if len(out) > recentMax {
		out = out[:recentMax]
	}
	return out
}

// windowTitle renders "Title - root*" with a trailing star for unsaved edits.
func windowTitle(h domain.Header, root string, dirty bool) string {
	title := strings.TrimSpace(h.Title)
	if title == "" {
		title = "Untitled"
	}
	if root != "" {
		title += " - " + filepath.Base(root)
	}
	if dirty {
		title += "*"
	}
	return title
}
