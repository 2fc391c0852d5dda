/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package hotkey maps editor-wide key chords to editor actions. Bindings are
// written as combo strings such as "mod+shift+z", where "mod" stands for the
// platform command key (Ctrl or Meta).
package hotkey

import (
	"errors"
	"fmt"
	"strings"

	"goscreenwriter/internal/editor"
)

var (
	ErrEmptyCombo   = errors.New("empty key combo")
	ErrInvalidCombo = errors.New("invalid key combo")
)

// Combo is a parsed key chord. Mod matches either Ctrl or Meta.
type Combo struct {
	Mod   bool
	Shift bool
	Alt   bool
	Key   string
}

// ParseCombo parses "mod+z", "Ctrl+Shift+Z", "cmd+1" and similar. Modifier
// names are case-insensitive; ctrl, cmd, meta and mod all mean Mod. The key
// is stored in lower case.
func ParseCombo(s string) (Combo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Combo{}, ErrEmptyCombo
	}
	parts := strings.Split(s, "+")
	var c Combo
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "mod", "ctrl", "control", "cmd", "command", "meta", "super":
			c.Mod = true
		case "shift":
			c.Shift = true
		case "alt", "option", "opt":
			c.Alt = true
		default:
			return Combo{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidCombo, p, s)
		}
	}
	c.Key = strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if c.Key == "" {
		return Combo{}, fmt.Errorf("%w: missing key in %q", ErrInvalidCombo, s)
	}
	return c, nil
}

// String renders c in canonical form, e.g. "mod+shift+z".
func (c Combo) String() string {
	var b strings.Builder
	if c.Mod {
		b.WriteString("mod+")
	}
	if c.Alt {
		b.WriteString("alt+")
	}
	if c.Shift {
		b.WriteString("shift+")
	}
	b.WriteString(c.Key)
	return b.String()
}

// comboOf builds the combo for a key press reported by the surface.
func comboOf(key string, mods editor.Mods) Combo {
	return Combo{Mod: mods.Cmd(), Shift: mods.Shift, Alt: mods.Alt, Key: strings.ToLower(key)}
}
