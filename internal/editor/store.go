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

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/undo"
)

// Store owns the ordered block list, the active block, the block selection,
// header metadata and the undo history. Every other component reads through
// it and mutates only via AddToHistory and UpdateBlocks.
//
// A Store is not safe for concurrent use.
type Store struct {
	blocks   []domain.Block
	active   string
	selected map[string]struct{}
	header   domain.Header
	history  *undo.Manager
	newID    func() string
	log      *slog.Logger
}

// NewStore builds a store over a copy of blocks. An empty list is seeded
// with one empty scene heading so there is always a block to type into.
func NewStore(sp domain.Screenplay, history undo.Config, newID func() string, l *slog.Logger) *Store {
	s := &Store{
		selected: map[string]struct{}{},
		header:   sp.Header,
		history:  undo.NewManager(history),
		newID:    newID,
		log:      l,
	}
	s.blocks = s.seeded(sp.Blocks)
	return s
}

// seeded returns a renumbered copy of list, or a single empty scene heading
// when list is empty.
func (s *Store) seeded(list []domain.Block) []domain.Block {
	blocks := domain.CloneBlocks(list)
	if len(blocks) == 0 {
		blocks = []domain.Block{{ID: s.newID(), Type: domain.SceneHeading}}
	}
	return domain.Renumber(blocks)
}

// Blocks returns a copy of the current list.
func (s *Store) Blocks() []domain.Block { return domain.CloneBlocks(s.blocks) }

// Len returns the number of blocks.
func (s *Store) Len() int { return len(s.blocks) }

// Block returns the block with id.
func (s *Store) Block(id string) (domain.Block, bool) {
	if i := s.Index(id); i >= 0 {
		return s.blocks[i], true
	}
	return domain.Block{}, false
}

// Index returns the position of id, or -1.
func (s *Store) Index(id string) int { return domain.IndexOf(s.blocks, id) }

// NewID returns a fresh block id.
func (s *Store) NewID() string { return s.newID() }

// AddToHistory records snapshot as the state to return to on undo and
// clears the redo stack. Callers push the current list before mutating it.
func (s *Store) AddToHistory(snapshot []domain.Block) {
	s.history.Push(undo.Snapshot{Blocks: snapshot})
}

// UpdateBlocks replaces the list, renumbers scene headings and drops the
// active block and selected ids that are no longer present. An empty list is
// seeded like in NewStore.
func (s *Store) UpdateBlocks(list []domain.Block) {
	s.blocks = s.seeded(list)
	if s.active != "" && s.Index(s.active) < 0 {
		s.active = ""
	}
	for id := range s.selected {
		if s.Index(id) < 0 {
			delete(s.selected, id)
		}
	}
	s.log.Debug("blocks updated", slog.Int("count", len(s.blocks)))
}

// Undo restores the most recent snapshot. It reports false when there is
// nothing to undo.
func (s *Store) Undo() bool { return s.UndoE() == nil }

// Redo reapplies the most recently undone state.
func (s *Store) Redo() bool { return s.RedoE() == nil }

// UndoE is Undo returning undo.ErrNothingToUndo instead of false.
func (s *Store) UndoE() error {
	prev, ok := s.history.Undo(s.blocks)
	if !ok {
		return undo.ErrNothingToUndo
	}
	s.UpdateBlocks(prev)
	return nil
}

// RedoE is Redo returning undo.ErrNothingToRedo instead of false.
func (s *Store) RedoE() error {
	next, ok := s.history.Redo(s.blocks)
	if !ok {
		return undo.ErrNothingToRedo
	}
	s.UpdateBlocks(next)
	return nil
}

func (s *Store) CanUndo() bool { return s.history.CanUndo() }
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// HistoryStats returns the estimated bytes held and the undo and redo depths.
func (s *Store) HistoryStats() (bytes, undoDepth, redoDepth int) { return s.history.Stats() }

// Active returns the id of the block holding focus, or "".
func (s *Store) Active() string { return s.active }

// SetActive marks id as the active block. Unknown ids are ignored.
func (s *Store) SetActive(id string) bool {
	if id != "" && s.Index(id) < 0 {
		return false
	}
	s.active = id
	return true
}

// Selected returns the selected ids in list order.
func (s *Store) Selected() []string {
	out := make([]string, 0, len(s.selected))
	for _, b := range s.blocks {
		if _, ok := s.selected[b.ID]; ok {
			out = append(out, b.ID)
		}
	}
	return out
}

func (s *Store) IsSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// SetSelected replaces the selection. Ids not in the list are skipped.
func (s *Store) SetSelected(ids []string) {
	s.selected = make(map[string]struct{}, len(ids))
	s.addSelected(ids)
}

func (s *Store) addSelected(ids []string) {
	for _, id := range ids {
		if s.Index(id) >= 0 {
			s.selected[id] = struct{}{}
		}
	}
}

// ToggleSelected flips membership of id in the selection.
func (s *Store) ToggleSelected(id string) {
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.addSelected([]string{id})
}

func (s *Store) ClearSelection() {
	if len(s.selected) == 0 {
		return
	}
	s.selected = map[string]struct{}{}
}

// SelectAll selects every block.
func (s *Store) SelectAll() {
	s.selected = make(map[string]struct{}, len(s.blocks))
	for _, b := range s.blocks {
		s.selected[b.ID] = struct{}{}
	}
}

// rangeIDs returns the ids between two positions, inclusive, in either order.
func (s *Store) rangeIDs(i, j int) []string {
	if i > j {
		i, j = j, i
	}
	out := make([]string, 0, j-i+1)
	for k := i; k <= j; k++ {
		out = append(out, s.blocks[k].ID)
	}
	return out
}

func (s *Store) Header() domain.Header     { return s.header }
func (s *Store) SetHeader(h domain.Header) { s.header = h }

// Screenplay returns header and a copy of the blocks, as handed to the save path.
func (s *Store) Screenplay() domain.Screenplay {
	return domain.Screenplay{Header: s.header, Blocks: s.Blocks()}
}
