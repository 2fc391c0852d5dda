/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor is the block-editing core of the screenplay editor. It keeps
// an ordered list of typed blocks consistent while the writer types, splits
// and merges blocks on structural keys, infers block types from content,
// tracks block and text selection, and keeps a bounded undo history.
//
// The core is driven by a single-threaded stream of events from an editing
// surface (see Surface). Caret placement after a structural change is deferred
// until the surface has re-rendered: hosts call AfterRender once the new block
// list is on screen.
package editor

import (
	"log/slog"

	"goscreenwriter/internal/domain"
	applog "goscreenwriter/internal/log"
)

// Editor composes the store, content processor, structural editor and
// selection tracker behind one event entry point. It is not safe for
// concurrent use; hosts serialize events onto one goroutine.
type Editor struct {
	store      *Store
	content    *ContentProcessor
	structural *Structural
	selection  *Selection
	surface    Surface
	sched      Scheduler
	intercept  func(key string, mods Mods) bool
	log        *slog.Logger
}

// New creates an editor over sp, drawn on surface. A nil surface is allowed
// for batch edits; caret operations then become no-ops.
func New(surface Surface, sp domain.Screenplay, cfg Config) *Editor {
	cfg = cfg.withDefaults()
	if surface == nil {
		surface = nopSurface{}
	}
	logger := func(component string) *slog.Logger {
		if cfg.Logger != nil {
			return cfg.Logger.With(slog.String("component", component))
		}
		return applog.WithComponent(component)
	}

	store := NewStore(sp, cfg.History, cfg.NewID, logger("editor.store"))
	e := &Editor{store: store, surface: surface, sched: cfg.Scheduler, log: logger("editor")}
	e.selection = &Selection{
		store:     store,
		surface:   surface,
		clip:      cfg.Clipboard,
		log:       logger("editor.selection"),
		threshold: cfg.DragThreshold,
		margin:    cfg.AutoScrollMargin,
		step:      cfg.AutoScrollStep,
	}
	e.content = &ContentProcessor{
		store: store,
		caret: caretPlacer{store: store, surface: surface, log: logger("editor.content")},
		sched: cfg.Scheduler,
		log:   logger("editor.content"),
	}
	e.structural = &Structural{
		store:     store,
		surface:   surface,
		caret:     caretPlacer{store: store, surface: surface, log: logger("editor.structural")},
		sched:     cfg.Scheduler,
		selection: e.selection,
		clock:     cfg.Clock,
		window:    cfg.DoubleEnterWindow,
		log:       logger("editor.structural"),
	}
	return e
}

// SetKeyInterceptor installs fn to see key presses before the structural
// editor. Returning true consumes the key. The hotkey dispatcher hooks in here.
func (e *Editor) SetKeyInterceptor(fn func(key string, mods Mods) bool) { e.intercept = fn }

// Dispatch routes one surface event and reports whether the surface should
// suppress its default handling.
func (e *Editor) Dispatch(ev Event) bool {
	switch ev := ev.(type) {
	case ContentChanged:
		e.content.HandleContentChange(ev.BlockID, ev.Content, ev.ForcedType)
		return true
	case KeyDown:
		return e.keyDown(ev)
	case Click:
		e.selection.Click(ev.BlockID, ev.Mods)
	case DoubleClick:
		e.selection.DoubleClick(ev.BlockID, ev.Mods)
	case MouseDown:
		e.selection.MouseDown(ev.BlockID, ev.Pos, ev.Editable)
		return !ev.Editable
	case MouseMove:
		e.selection.MouseMove(ev.Pos, ev.OverBlock, ev.Mods)
	case MouseUp:
		e.selection.MouseUp()
	case SelectionChange:
		e.selection.SelectionChanged(ev.StartBlock, ev.StartOffset, ev.EndBlock, ev.EndOffset, ev.Text)
	case ClickOutside:
		e.selection.ClickOutside(ev.InEditor, ev.InFormatControls)
	case Focus:
		if !e.store.SetActive(ev.BlockID) {
			e.log.Debug("focus on unknown block", slog.String("block", ev.BlockID))
		}
	case FormatChange:
		e.structural.HandleFormatChange(ev.Type)
		return true
	default:
		e.log.Debug("unhandled event", slog.Any("event", ev))
	}
	return false
}

func (e *Editor) keyDown(ev KeyDown) bool {
	e.selection.GlobalKey(ev.Key, ev.Mods)
	if e.intercept != nil && e.intercept(ev.Key, ev.Mods) {
		return true
	}
	if ev.BlockID != "" && e.structural.HandleKeyDown(ev.BlockID, ev.Key, ev.Mods) {
		return true
	}
	// Document-level copy/cut for selections that started outside a block.
	if ev.BlockID == "" && ev.Mods.Cmd() && e.selection.HasMultiBlock() {
		switch ev.Key {
		case "c", "C":
			return e.selection.Copy()
		case "x", "X":
			return e.selection.Cut()
		}
	}
	return false
}

// AfterRender runs the caret continuations queued since the last render and
// returns how many ran. Hosts call it after drawing the current block list.
// It is a no-op when a custom Scheduler was configured.
func (e *Editor) AfterRender() int {
	if q, ok := e.sched.(*Queue); ok {
		return q.Drain()
	}
	return 0
}

// Blocks returns a copy of the current block list.
func (e *Editor) Blocks() []domain.Block { return e.store.Blocks() }

// Active returns the id of the active block, or "".
func (e *Editor) Active() string { return e.store.Active() }

// Selected returns the selected block ids in list order.
func (e *Editor) Selected() []string { return e.store.Selected() }

// TextSelection returns the captured in-text selection.
func (e *Editor) TextSelection() TextSelection { return e.selection.Text() }

func (e *Editor) UpdateBlocks(list []domain.Block)      { e.store.UpdateBlocks(list) }
func (e *Editor) AddToHistory(list []domain.Block)      { e.store.AddToHistory(list) }
func (e *Editor) Undo() bool                            { return e.store.Undo() }
func (e *Editor) Redo() bool                            { return e.store.Redo() }
func (e *Editor) SelectAll()                            { e.store.SelectAll() }
func (e *Editor) Header() domain.Header                 { return e.store.Header() }
func (e *Editor) SetHeader(h domain.Header)             { e.store.SetHeader(h) }
func (e *Editor) HandleFormatChange(t domain.BlockType) { e.structural.HandleFormatChange(t) }

// HandleContentChange applies typed text to a block; see ContentProcessor.
func (e *Editor) HandleContentChange(id, content string, forced domain.BlockType) string {
	return e.content.HandleContentChange(id, content, forced)
}

// HandleKeyDown routes a key pressed inside a block; see Structural.
func (e *Editor) HandleKeyDown(id, key string, mods Mods) bool {
	return e.keyDown(KeyDown{BlockID: id, Key: key, Mods: mods})
}

// Copy and Cut act on the captured multi-block text selection.
func (e *Editor) Copy() bool { return e.selection.Copy() }
func (e *Editor) Cut() bool  { return e.selection.Cut() }

// HistoryStats returns the estimated bytes held and the undo and redo depths.
func (e *Editor) HistoryStats() (bytes, undoDepth, redoDepth int) { return e.store.HistoryStats() }

// Screenplay returns the header and current blocks, as handed to the save path.
func (e *Editor) Screenplay() domain.Screenplay { return e.store.Screenplay() }
