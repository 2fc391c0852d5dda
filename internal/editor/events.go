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
	"encoding/json"
	"fmt"

	"goscreenwriter/internal/domain"
)

// Event is an input event reported by the editing surface. Events are plain
// values so sessions can be recorded as JSON lines and replayed.
type Event interface {
	Kind() string
}

// ContentChanged reports the new text of a block after the writer typed.
// ForcedType is set when the writer accepted an inline format suggestion.
type ContentChanged struct {
	BlockID    string           `json:"block"`
	Content    string           `json:"content"`
	ForcedType domain.BlockType `json:"forcedType,omitempty"`
}

// KeyDown reports a key press. BlockID is empty for keys pressed outside any block.
type KeyDown struct {
	BlockID string `json:"block,omitempty"`
	Key     string `json:"key"`
	Mods    Mods   `json:"mods"`
}

type Click struct {
	BlockID string `json:"block"`
	Mods    Mods   `json:"mods"`
}

type DoubleClick struct {
	BlockID string `json:"block"`
	Mods    Mods   `json:"mods"`
}

// MouseDown starts a pointer gesture. Editable is true when the pointer went
// down inside the block's text rather than on its gutter.
type MouseDown struct {
	BlockID  string `json:"block"`
	Pos      Point  `json:"pos"`
	Editable bool   `json:"editable"`
}

// MouseMove reports pointer movement during a gesture. OverBlock is the
// block under the pointer, if any.
type MouseMove struct {
	Pos       Point  `json:"pos"`
	OverBlock string `json:"over,omitempty"`
	Mods      Mods   `json:"mods"`
}

type MouseUp struct{}

// SelectionChange reports the surface's native text selection.
type SelectionChange struct {
	StartBlock  string `json:"startBlock"`
	StartOffset int    `json:"startOffset"`
	EndBlock    string `json:"endBlock"`
	EndOffset   int    `json:"endOffset"`
	Text        string `json:"text"`
}

// ClickOutside reports a pointer press that did not land on a block.
type ClickOutside struct {
	InEditor         bool `json:"inEditor"`
	InFormatControls bool `json:"inFormatControls"`
}

// Focus reports that a block received input focus.
type Focus struct {
	BlockID string `json:"block"`
}

// FormatChange is a format toolbar button press for the active block.
type FormatChange struct {
	Type domain.BlockType `json:"blockType"`
}

func (ContentChanged) Kind() string  { return "content-changed" }
func (KeyDown) Kind() string         { return "key-down" }
func (Click) Kind() string           { return "click" }
func (DoubleClick) Kind() string     { return "double-click" }
func (MouseDown) Kind() string       { return "mouse-down" }
func (MouseMove) Kind() string       { return "mouse-move" }
func (MouseUp) Kind() string         { return "mouse-up" }
func (SelectionChange) Kind() string { return "selection-change" }
func (ClickOutside) Kind() string    { return "click-outside" }
func (Focus) Kind() string           { return "focus" }
func (FormatChange) Kind() string    { return "format-change" }

// DecodeEvent parses one JSON event of the form {"type": "<kind>", ...fields}.
func DecodeEvent(data []byte) (Event, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	var ev Event
	var err error
	switch env.Type {
	case "content-changed":
		ev, err = decodeAs[ContentChanged](data)
	case "key-down":
		ev, err = decodeAs[KeyDown](data)
	case "click":
		ev, err = decodeAs[Click](data)
	case "double-click":
		ev, err = decodeAs[DoubleClick](data)
	case "mouse-down":
		ev, err = decodeAs[MouseDown](data)
	case "mouse-move":
		ev, err = decodeAs[MouseMove](data)
	case "mouse-up":
		ev = MouseUp{}
	case "selection-change":
		ev, err = decodeAs[SelectionChange](data)
	case "click-outside":
		ev, err = decodeAs[ClickOutside](data)
	case "focus":
		ev, err = decodeAs[Focus](data)
	case "format-change":
		ev, err = decodeAs[FormatChange](data)
	default:
		return nil, fmt.Errorf("decode event: unknown type %q", env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s event: %w", env.Type, err)
	}
	return ev, nil
}

func decodeAs[T Event](data []byte) (Event, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeEvent renders ev in the form DecodeEvent accepts.
func EncodeEvent(ev Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	kind, _ := json.Marshal(ev.Kind())
	fields["type"] = kind
	return json.Marshal(fields)
}
