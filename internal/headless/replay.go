/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package headless

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"goscreenwriter/internal/editor"
)

// Stats summarizes a replay.
type Stats struct {
	Events     int // events dispatched
	Suppressed int // events the editor asked the surface to suppress
	Deferred   int // caret continuations run after renders
}

// Replay reads JSON-lines events from r and plays them against ed drawn on
// s. Blank lines and lines starting with "#" are skipped. Before dispatch the
// surface applies the event's own effect (new text, focus, caret); after
// dispatch it re-renders and runs the deferred continuations, like a host.
func Replay(ctx context.Context, r io.Reader, ed *editor.Editor, s *Surface, l *slog.Logger) (Stats, error) {
	if l == nil {
		l = slog.Default()
	}
	var st Stats
	s.Render(ed.Blocks())
	st.Deferred += ed.AfterRender()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return st, err
		}
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		ev, err := editor.DecodeEvent([]byte(raw))
		if err != nil {
			return st, fmt.Errorf("line %d: %w", line, err)
		}
		if err := apply(s, ev); err != nil {
			l.Debug("surface effect skipped", slog.Int("line", line), slog.String("event", ev.Kind()), slog.Any("err", err))
		}
		if ed.Dispatch(ev) {
			st.Suppressed++
		}
		st.Events++
		s.Render(ed.Blocks())
		st.Deferred += ed.AfterRender()
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read events: %w", err)
	}
	l.Info("replay finished", slog.Int("events", st.Events), slog.Int("blocks", len(ed.Blocks())))
	return st, nil
}

// apply performs what the surface itself does before it reports ev.
func apply(s *Surface, ev editor.Event) error {
	switch ev := ev.(type) {
	case editor.ContentChanged:
		return s.SetContent(ev.BlockID, ev.Content)
	case editor.Focus:
		return s.Focus(ev.BlockID)
	case editor.SelectionChange:
		if ev.StartBlock != "" && ev.StartBlock == ev.EndBlock {
			return s.SetSelectionRange(ev.StartBlock, ev.StartOffset, ev.EndOffset)
		}
	}
	return nil
}

// Recorder writes events in the form Replay reads.
type Recorder struct {
	w io.Writer
	n int
}

func NewRecorder(w io.Writer) *Recorder { return &Recorder{w: w} }

// Record appends ev as one JSON line.
func (r *Recorder) Record(ev editor.Event) error {
	data, err := editor.EncodeEvent(ev)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	r.n++
	return nil
}

// Count returns how many events were recorded.
func (r *Recorder) Count() int { return r.n }
