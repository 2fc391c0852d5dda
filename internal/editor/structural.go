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
	"log/slog"
	"strings"
	"time"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/script"
)

// Structural implements the structural keys: Enter splits a block, Tab
// cycles its type, Backspace on an empty block merges it away. It also owns
// format changes requested from the toolbar.
type Structural struct {
	store     *Store
	surface   Surface
	caret     caretPlacer
	sched     Scheduler
	selection *Selection
	clock     func() time.Time
	window    time.Duration
	lastEnter time.Time
	log       *slog.Logger
}

// HandleEnter splits block id at the caret and returns the id of the block
// that receives focus.
func (s *Structural) HandleEnter(id string) string {
	blocks := s.store.Blocks()
	idx := domain.IndexOf(blocks, id)
	if idx < 0 {
		s.log.Debug("enter on unknown block", slog.String("block", id))
		return id
	}
	cur := blocks[idx]
	content := s.caret.content(id)
	off, err := s.surface.Caret(id)
	if err != nil {
		off = textLen(content)
	}
	before, after := splitAt(content, off)

	now := s.clock()
	double := !s.lastEnter.IsZero() && now.Sub(s.lastEnter) < s.window &&
		cur.Type == domain.Dialogue && strings.TrimSpace(before) == ""
	s.lastEnter = now

	s.store.AddToHistory(blocks)
	nb := domain.Block{ID: s.store.NewID()}
	suggest := false

	switch {
	case cur.Type == domain.Transition:
		blocks[idx].Content = strings.TrimSpace(before)
		nb.Type = domain.SceneHeading
		nb.Content = strings.TrimSpace(after)
		blocks = insertAt(blocks, idx+1, nb)
		suggest = true
	case double:
		// The dialogue run ends: the empty dialogue block gives way to action.
		nb.Type = domain.Action
		nb.Content = after
		blocks = removeAt(blocks, idx)
		blocks = insertAt(blocks, idx, nb)
	case cur.Type == domain.Parenthetical:
		if strings.Contains(before, ")") {
			blocks[idx].Content = before
		} else {
			blocks[idx].Content = strings.TrimSpace(strings.ReplaceAll(before, ")", "")) + ")"
		}
		nb.Type = domain.Dialogue
		nb.Content = strings.TrimSpace(strings.TrimPrefix(after, ")"))
		blocks = insertAt(blocks, idx+1, nb)
	default:
		blocks[idx].Content = before
		nb.Type = script.NextBlockType(cur.Type, before)
		nb.Content = after
		blocks = insertAt(blocks, idx+1, nb)
	}
	s.store.UpdateBlocks(blocks)
	s.log.Debug("block split", slog.String("block", id), slog.String("new", nb.ID), slog.String("type", string(nb.Type)))

	newID := nb.ID
	s.sched.Defer(func() {
		s.caret.placeAt(newID, 0)
		if suggest && s.store.Index(newID) >= 0 {
			s.surface.DispatchSuggestionTrigger(newID)
		}
	})
	return newID
}

// HandleKeyDown handles a key pressed inside block id. It reports whether the
// key was consumed, in which case the surface must suppress its default.
func (s *Structural) HandleKeyDown(id, key string, mods Mods) bool {
	if mods.Cmd() && !mods.Shift && !mods.Alt {
		switch strings.ToLower(key) {
		case "c":
			if s.selection.HasMultiBlock() {
				s.selection.Copy()
				return true
			}
			return false
		case "x":
			if s.selection.HasMultiBlock() {
				s.selection.Cut()
				return true
			}
			return false
		}
	}

	switch key {
	case KeyEnter:
		text := s.caret.content(id)
		if strings.TrimSpace(text) != "" || text == "" {
			s.HandleEnter(id)
		}
		return true
	case KeyTab:
		b, ok := s.store.Block(id)
		if !ok {
			return true
		}
		s.store.SetActive(id)
		s.HandleFormatChange(b.Type.Next())
		return true
	case KeyBackspace:
		if s.caret.content(id) != "" {
			return false
		}
		s.mergeEmpty(id)
		return true
	}
	return false
}

// mergeEmpty removes the empty block id and moves the caret to the end of
// the block before it. The first block is never removed this way.
func (s *Structural) mergeEmpty(id string) {
	blocks := s.store.Blocks()
	idx := domain.IndexOf(blocks, id)
	if idx <= 0 {
		return
	}
	s.store.AddToHistory(blocks)
	prev := blocks[idx-1]
	s.store.UpdateBlocks(removeAt(blocks, idx))
	s.caret.placeAt(prev.ID, textLen(prev.Content))
}

// HandleFormatChange converts the active block to t, reshaping its content
// for the new type, and restores the caret once the surface re-renders.
func (s *Structural) HandleFormatChange(t domain.BlockType) {
	if err := s.FormatChange(t); err != nil {
		s.log.Debug("format change skipped", slog.String("type", string(t)), slog.Any("err", err))
	}
}

// FormatChange is HandleFormatChange reporting why nothing happened.
func (s *Structural) FormatChange(t domain.BlockType) error {
	if !t.Valid() {
		return ErrInvalidType
	}
	id := s.store.Active()
	if id == "" {
		return ErrNoActiveBlock
	}
	blocks := s.store.Blocks()
	idx := domain.IndexOf(blocks, id)
	if idx < 0 {
		return ErrUnknownBlock
	}
	cur := blocks[idx]

	start, end, err := s.surface.SelectionRange(id)
	if err != nil {
		start, err = s.surface.Caret(id)
		if err != nil {
			start = 0
		}
		end = start
	}

	s.store.AddToHistory(blocks)
	newContent := reshapeContent(cur, t)
	blocks[idx].Type = t
	blocks[idx].Content = newContent
	s.store.UpdateBlocks(blocks)

	oldLen, newLen := textLen(cur.Content), textLen(newContent)
	s.sched.Defer(func() {
		if s.store.Index(id) < 0 {
			return
		}
		if err := s.surface.Focus(id); err != nil {
			s.log.Debug("focus failed", slog.String("block", id), slog.Any("err", err))
			return
		}
		switch {
		case (t == domain.SceneHeading || t == domain.Transition || t == domain.Shot) && strings.TrimSpace(newContent) == "":
			s.surface.DispatchSuggestionTrigger(id)
		case t == domain.Parenthetical && newContent == "()":
			if err := s.surface.SetCaret(id, 1); err != nil {
				s.caret.placeAtEnd(id)
			}
		case start != end:
			s.caret.selectRange(id, remapOffset(start, oldLen, newLen), remapOffset(end, oldLen, newLen))
		default:
			if err := s.surface.SetCaret(id, remapOffset(start, oldLen, newLen)); err != nil {
				s.caret.placeAtEnd(id)
			}
		}
	})
	return nil
}

// reshapeContent returns b's content as it should read after converting b to t.
func reshapeContent(b domain.Block, t domain.BlockType) string {
	content := b.Content
	switch {
	case t == domain.Parenthetical:
		trimmed := strings.TrimSpace(b.Content)
		if trimmed == "" || trimmed == "()" {
			content = "()"
		} else if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") {
			content = "(" + strings.TrimSuffix(strings.TrimPrefix(trimmed, "("), ")") + ")"
		}
	case b.Type == domain.Parenthetical:
		content = script.UnwrapParenthetical(b.Content)
	}

	if t == domain.Character && b.Type != domain.Character {
		content = strings.ToUpper(content)
	}
	if t == domain.SceneHeading && !script.HasScenePrefix(content) && strings.TrimSpace(content) == "" {
		content = ""
	}
	if t == domain.Transition && !script.IsTransitionShaped(content) {
		if strings.TrimSpace(content) == "" {
			content = ""
		} else {
			content = strings.ToUpper(content)
		}
	}
	return content
}
