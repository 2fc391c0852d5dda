/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "strings"

// This file defines the core data model structures for the screenplay editor.
// Blocks are plain values; the editor's block store owns the ordered list and
// hands out copies, so nothing here carries pointers or shared state.

// BlockType is the screenplay element a block is formatted as.
type BlockType string

const (
	SceneHeading  BlockType = "scene-heading"
	Action        BlockType = "action"
	Character     BlockType = "character"
	Parenthetical BlockType = "parenthetical"
	Dialogue      BlockType = "dialogue"
	Transition    BlockType = "transition"
	Shot          BlockType = "shot"
)

// BlockTypes is the fixed cycle order used by Tab and the format toolbar.
var BlockTypes = []BlockType{SceneHeading, Action, Character, Parenthetical, Dialogue, Transition, Shot}

// Valid reports whether t is one of the seven block types.
func (t BlockType) Valid() bool {
	for _, bt := range BlockTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// Next returns the type following t in the cycle order, wrapping around.
// Unknown types start the cycle from the beginning.
func (t BlockType) Next() BlockType {
	for i, bt := range BlockTypes {
		if bt == t {
			return BlockTypes[(i+1)%len(BlockTypes)]
		}
	}
	return BlockTypes[0]
}

// Block is a unit of screenplay text with exactly one type.
// Number is display-only and recomputed by Renumber.
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
	Number  int       `json:"number,omitempty"`
}

// Header carries the title page metadata of a screenplay.
type Header struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Contact   string `json:"contact,omitempty"`
	DraftDate string `json:"draftDate,omitempty"`
}

// Screenplay is what the save path receives: header plus the current block list.
// It is intended to serialize to a human-readable JSON manifest.
type Screenplay struct {
	Header Header  `json:"header"`
	Blocks []Block `json:"blocks"`
}

// CloneBlocks returns an independent copy of the list.
func CloneBlocks(in []Block) []Block {
	if in == nil {
		return nil
	}
	out := make([]Block, len(in))
	copy(out, in)
	return out
}

// Renumber assigns scene numbers 1..n to scene headings in order and clears
// Number on every other block. It modifies the slice in place and returns it.
func Renumber(blocks []Block) []Block {
	n := 0
	for i := range blocks {
		if blocks[i].Type == SceneHeading {
			n++
			blocks[i].Number = n
			continue
		}
		blocks[i].Number = 0
	}
	return blocks
}

// IndexOf returns the index of the block with id, or -1.
func IndexOf(blocks []Block, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// SameBlocks reports whether two lists hold the same blocks in the same order.
func SameBlocks(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Context is the scene a block belongs to and, for dialogue and
// parentheticals, the character cue that introduced it.
type Context struct {
	Scene   int
	Speaker string
}

// Contexts returns one Context per block. Scenes count from 1 at the first
// scene heading; blocks before it are in scene 0. A speaker runs from a
// character cue through the dialogue and parentheticals that follow it.
func Contexts(blocks []Block) []Context {
	out := make([]Context, len(blocks))
	scene := 0
	speaker := ""
	for i, b := range blocks {
		switch b.Type {
		case SceneHeading:
			scene++
			speaker = ""
		case Character:
			speaker = strings.TrimSpace(b.Content)
		case Dialogue, Parenthetical:
			out[i].Speaker = speaker
		default:
			speaker = ""
		}
		out[i].Scene = scene
	}
	return out
}
