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

// Scheduler runs caret continuations once the surface has re-rendered.
type Scheduler interface {
	Defer(fn func())
}

// Queue is the default Scheduler. The host drains it after each render,
// usually through Editor.AfterRender.
type Queue struct {
	pending []func()
}

func (q *Queue) Defer(fn func()) {
	if fn == nil {
		return
	}
	q.pending = append(q.pending, fn)
}

// Drain runs every pending continuation exactly once and returns how many ran.
// Continuations deferred while draining wait for the next Drain.
func (q *Queue) Drain() int {
	batch := q.pending
	q.pending = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of pending continuations.
func (q *Queue) Len() int { return len(q.pending) }
