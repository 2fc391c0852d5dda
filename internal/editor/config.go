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
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"goscreenwriter/internal/clipboard"
	"goscreenwriter/internal/undo"

	"github.com/google/uuid"
)

// Config tunes an Editor. Zero values take the defaults below.
type Config struct {
	// DoubleEnterWindow is how close two Enter presses must be to end a
	// dialogue run (default 500ms).
	DoubleEnterWindow time.Duration
	// DragThreshold is the pointer travel in pixels before a drag updates
	// the block selection (default 5).
	DragThreshold float64
	// AutoScrollMargin and AutoScrollStep control auto-scroll while dragging
	// near the viewport edges (defaults 100 and 15 pixels).
	AutoScrollMargin float64
	AutoScrollStep   float64
	// History bounds the undo stack.
	History undo.Config

	Clock     func() time.Time
	NewID     func() string
	Clipboard clipboard.Clipboard
	Scheduler Scheduler
	Logger    *slog.Logger
}

const (
	DefaultDoubleEnterWindow = 500 * time.Millisecond
	DefaultDragThreshold     = 5
	DefaultAutoScrollMargin  = 100
	DefaultAutoScrollStep    = 15
)

func (c Config) withDefaults() Config {
	if c.DoubleEnterWindow <= 0 {
		c.DoubleEnterWindow = DefaultDoubleEnterWindow
	}
	if c.DragThreshold <= 0 {
		c.DragThreshold = DefaultDragThreshold
	}
	if c.AutoScrollMargin <= 0 {
		c.AutoScrollMargin = DefaultAutoScrollMargin
	}
	if c.AutoScrollStep <= 0 {
		c.AutoScrollStep = DefaultAutoScrollStep
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.NewID == nil {
		c.NewID = UUIDs
	}
	if c.Clipboard == nil {
		c.Clipboard = clipboard.System()
	}
	if c.Scheduler == nil {
		c.Scheduler = &Queue{}
	}
	return c
}

// UUIDs generates random block ids.
func UUIDs() string { return uuid.NewString() }

// SequentialIDs returns a generator of ids "<prefix>1", "<prefix>2", ...
// Useful for deterministic tests and replays.
func SequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s%d", prefix, n.Add(1))
	}
}
