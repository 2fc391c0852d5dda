/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package hotkey

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/editor"
)

// Action names an editor operation a combo can trigger.
type Action string

const (
	Undo      Action = "undo"
	Redo      Action = "redo"
	SelectAll Action = "select-all"

	formatPrefix = "format:"
)

// FormatAction is the action that converts the active block to t.
func FormatAction(t domain.BlockType) Action { return Action(formatPrefix + string(t)) }

// ParseAction validates an action name. "" and "none" parse to "" and
// unbind a combo.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none":
		return "", nil
	case string(Undo), string(Redo), string(SelectAll):
		return Action(s), nil
	}
	if t, ok := strings.CutPrefix(s, formatPrefix); ok && domain.BlockType(t).Valid() {
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown hotkey action %q", s)
}

// DefaultBindings returns the stock binding table: undo, redo, select-all and
// mod+1..mod+7 for the seven block types in cycle order.
func DefaultBindings() map[string]Action {
	m := map[string]Action{
		"mod+z":       Undo,
		"mod+shift+z": Redo,
		"mod+y":       Redo,
		"mod+a":       SelectAll,
	}
	for i, t := range domain.BlockTypes {
		m["mod+"+strconv.Itoa(i+1)] = FormatAction(t)
	}
	return m
}

// Target receives dispatched actions. *editor.Editor implements it.
type Target interface {
	Undo() bool
	Redo() bool
	SelectAll()
	HandleFormatChange(t domain.BlockType)
}

// Dispatcher routes key chords to a Target through a binding table.
type Dispatcher struct {
	target   Target
	bindings map[Combo]Action
	log      *slog.Logger
}

// New creates a dispatcher with the default bindings, then applies
// overrides (combo -> action, as read from the editor.hotkeys config map).
func New(target Target, overrides map[string]string, l *slog.Logger) (*Dispatcher, error) {
	if l == nil {
		l = slog.Default()
	}
	d := &Dispatcher{target: target, bindings: map[Combo]Action{}, log: l}
	for combo, a := range DefaultBindings() {
		if err := d.Bind(combo, a); err != nil {
			return nil, err
		}
	}
	// Apply in sorted order so a broken entry is reported deterministically.
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a, err := ParseAction(overrides[k])
		if err != nil {
			return nil, fmt.Errorf("hotkey %q: %w", k, err)
		}
		if err := d.Bind(k, a); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Bind maps combo to a. An empty action removes the binding.
func (d *Dispatcher) Bind(combo string, a Action) error {
	c, err := ParseCombo(combo)
	if err != nil {
		return err
	}
	if a == "" {
		delete(d.bindings, c)
		return nil
	}
	d.bindings[c] = a
	return nil
}

// Lookup returns the action bound to a key press.
func (d *Dispatcher) Lookup(key string, mods editor.Mods) (Action, bool) {
	a, ok := d.bindings[comboOf(key, mods)]
	return a, ok
}

// Handle runs the action bound to the key press and reports whether one was
// bound. A bound combo is consumed even when the action had nothing to do.
func (d *Dispatcher) Handle(key string, mods editor.Mods) bool {
	a, ok := d.Lookup(key, mods)
	if !ok {
		return false
	}
	switch a {
	case Undo:
		if !d.target.Undo() {
			d.log.Debug("nothing to undo")
		}
	case Redo:
		if !d.target.Redo() {
			d.log.Debug("nothing to redo")
		}
	case SelectAll:
		d.target.SelectAll()
	default:
		t := domain.BlockType(strings.TrimPrefix(string(a), formatPrefix))
		d.target.HandleFormatChange(t)
	}
	d.log.Debug("hotkey", slog.String("combo", comboOf(key, mods).String()), slog.String("action", string(a)))
	return true
}

// Bindings returns the current table keyed by canonical combo string.
func (d *Dispatcher) Bindings() map[string]Action {
	out := make(map[string]Action, len(d.bindings))
	for c, a := range d.bindings {
		out[c.String()] = a
	}
	return out
}

// Attach installs d as ed's key interceptor.
func (d *Dispatcher) Attach(ed *editor.Editor) { ed.SetKeyInterceptor(d.Handle) }
