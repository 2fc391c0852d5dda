/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"errors"
	"sync"
	"time"

	"goscreenwriter/internal/domain"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Snapshot is a full copy of the block list taken before a mutation.
// TS is when the snapshot was captured.
type Snapshot struct {
	Blocks []domain.Block
	TS     time.Time
}

// Size estimates the memory held by the snapshot.
func (s Snapshot) Size() int {
	n := 0
	for _, b := range s.Blocks {
		n += len(b.ID) + len(b.Type) + len(b.Content) + 16
	}
	return n
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxDepth limits the number of undo snapshots kept (0 means the default of 500).
	MaxDepth int
	// MaxBytes is a soft cap; older entries are pruned when exceeded (0 means 16 MiB).
	MaxBytes int
	// MinInterval coalesces snapshots pushed within the interval: the earlier
	// snapshot is kept so one undo rewinds the whole burst. Zero disables coalescing.
	MinInterval time.Duration
}

const (
	DefaultMaxDepth = 500
	DefaultMaxBytes = 16 * 1024 * 1024
)

// Manager provides an in-memory undo/redo stack of block-list snapshots with
// performance safeguards. It is safe for concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo []Snapshot
	redo []Snapshot
	// accounting across both stacks
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	return &Manager{cfg: cfg}
}

// Config returns the effective configuration after defaults.
func (m *Manager) Config() Config { return m.cfg }

// Push records a snapshot and clears the redo stack. The blocks are copied.
func (m *Manager) Push(s Snapshot) {
	s.Blocks = domain.CloneBlocks(s.Blocks)
	if s.TS.IsZero() {
		s.TS = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearRedoLocked()
	if n := len(m.undo); n > 0 && m.cfg.MinInterval > 0 {
		last := m.undo[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: keep the earlier state, advance its timestamp
			m.undo[n-1].TS = s.TS
			return
		}
	}
	m.undo = append(m.undo, s)
	m.totalBytes += s.Size()
	m.enforceCapsLocked()
}

// Undo pops the most recent snapshot and returns it. current is pushed onto
// the redo stack so Redo can restore it.
func (m *Manager) Undo(current []domain.Block) ([]domain.Block, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		return nil, false
	}
	s := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.totalBytes -= s.Size()
	cur := Snapshot{Blocks: domain.CloneBlocks(current), TS: time.Now()}
	m.redo = append(m.redo, cur)
	m.totalBytes += cur.Size()
	return domain.CloneBlocks(s.Blocks), true
}

// Redo pops from redo and pushes current back onto undo.
func (m *Manager) Redo(current []domain.Block) ([]domain.Block, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.redo) == 0 {
		return nil, false
	}
	s := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.totalBytes -= s.Size()
	cur := Snapshot{Blocks: domain.CloneBlocks(current), TS: time.Now()}
	m.undo = append(m.undo, cur)
	m.totalBytes += cur.Size()
	m.enforceCapsLocked()
	return domain.CloneBlocks(s.Blocks), true
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Clear drops both stacks to free memory.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = nil
	m.redo = nil
	m.totalBytes = 0
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, undoDepth int, redoDepth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalBytes, len(m.undo), len(m.redo)
}

func (m *Manager) clearRedoLocked() {
	for _, s := range m.redo {
		m.totalBytes -= s.Size()
	}
	m.redo = nil
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

func (m *Manager) enforceCapsLocked() {
	// Depth cap: drop the oldest extras
	if len(m.undo) > m.cfg.MaxDepth {
		toDrop := len(m.undo) - m.cfg.MaxDepth
		for i := 0; i < toDrop; i++ {
			m.totalBytes -= m.undo[i].Size()
		}
		m.undo = append([]Snapshot{}, m.undo[toDrop:]...)
	}
	// Memory cap: prune oldest, but always keep the newest undo entry
	for m.totalBytes > m.cfg.MaxBytes && len(m.undo) > 1 {
		m.totalBytes -= m.undo[0].Size()
		m.undo = m.undo[1:]
	}
}
