/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script holds the pure screenplay formatting rules shared by the
// editor and the importers: block type detection from content, the Enter
// next-type table, parenthetical wrapping, and a plain-text screenplay parser.
//
// Plain-text input follows Fountain-like conventions:
//   - an optional title page of "Key: value" lines (Title, Author, Contact, Draft date)
//   - scene headings start with INT., EXT., INT/EXT. or I/E (or a forcing ".")
//   - transitions are upper-case lines ending in "TO:" or starting with FADE/DISSOLVE (or a forcing ">")
//   - a character cue is an upper-case line after a blank line, directly followed by dialogue
//   - parentheticals are "(...)" lines inside a dialogue run
//   - "#" sections and "=" synopses are skipped
package script

import "fmt"

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
}
