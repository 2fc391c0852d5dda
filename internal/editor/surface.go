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

import "errors"

// Surface is the editing surface the core drives: it renders blocks as
// editable regions and exposes caret and selection primitives. Offsets are
// counted in grapheme clusters.
//
// Calls may fail when a block is not rendered yet or an offset is out of
// range; the core recovers by falling back to placing the caret at the end.
type Surface interface {
	Focus(id string) error
	Caret(id string) (int, error)
	SetCaret(id string, offset int) error
	SelectionRange(id string) (start, end int, err error)
	SetSelectionRange(id string, start, end int) error
	// Content returns the text currently shown for the block. ok is false
	// when the block is not rendered.
	Content(id string) (text string, ok bool)
	// DispatchSuggestionTrigger asks the surface to show format suggestions
	// for an empty block.
	DispatchSuggestionTrigger(id string)
}

// Scroller is implemented by surfaces with a scrollable viewport. Drag
// selection uses it for auto-scroll near the viewport edges.
type Scroller interface {
	Viewport() (top, bottom float64)
	ScrollBy(dy float64)
}

// Mods are the modifier keys held during an input event.
type Mods struct {
	Shift bool `json:"shift,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Meta  bool `json:"meta,omitempty"`
}

// Cmd reports whether the platform command modifier (Ctrl or Meta) is held.
func (m Mods) Cmd() bool { return m.Ctrl || m.Meta }

// Point is a pointer position in surface coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Key names as reported by the surface.
const (
	KeyEnter      = "Enter"
	KeyTab        = "Tab"
	KeyBackspace  = "Backspace"
	KeyShift      = "Shift"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

var errNoSurface = errors.New("no editing surface attached")

// nopSurface is used when the editor runs without a surface (batch edits).
type nopSurface struct{}

func (nopSurface) Focus(string) error                       { return errNoSurface }
func (nopSurface) Caret(string) (int, error)                { return 0, errNoSurface }
func (nopSurface) SetCaret(string, int) error               { return errNoSurface }
func (nopSurface) SelectionRange(string) (int, int, error)  { return 0, 0, errNoSurface }
func (nopSurface) SetSelectionRange(string, int, int) error { return errNoSurface }
func (nopSurface) Content(string) (string, bool)            { return "", false }
func (nopSurface) DispatchSuggestionTrigger(string)         {}
