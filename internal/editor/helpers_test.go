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
	"errors"
	"testing"
	"time"

	"goscreenwriter/internal/clipboard"
	"goscreenwriter/internal/domain"
	applog "goscreenwriter/internal/log"
)

var (
	errNotRendered = errors.New("block not rendered")
	errNotFocused  = errors.New("block not focused")
	errOffset      = errors.New("offset out of range")
)

// fakeSurface models a rendered editor: per-block text, one focused block
// with a caret or selection, and a scrollable viewport.
type fakeSurface struct {
	content     map[string]string
	focused     string
	start, end  int
	suggestions []string
	failRange   bool
	top, bottom float64
	scrolled    float64
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{content: map[string]string{}, top: 0, bottom: 600}
}

func (f *fakeSurface) render(blocks []domain.Block) {
	f.content = make(map[string]string, len(blocks))
	for _, b := range blocks {
		f.content[b.ID] = b.Content
	}
	if _, ok := f.content[f.focused]; !ok {
		f.focused = ""
	}
}

func (f *fakeSurface) Focus(id string) error {
	if _, ok := f.content[id]; !ok {
		return errNotRendered
	}
	if f.focused != id {
		f.focused = id
		f.start, f.end = 0, 0
	}
	return nil
}

func (f *fakeSurface) Caret(id string) (int, error) {
	if id != f.focused {
		return 0, errNotFocused
	}
	return f.start, nil
}

func (f *fakeSurface) SetCaret(id string, off int) error {
	return f.SetSelectionRange(id, off, off)
}

func (f *fakeSurface) SelectionRange(id string) (int, int, error) {
	if id != f.focused {
		return 0, 0, errNotFocused
	}
	return f.start, f.end, nil
}

func (f *fakeSurface) SetSelectionRange(id string, start, end int) error {
	text, ok := f.content[id]
	if !ok {
		return errNotRendered
	}
	if f.failRange && start != end {
		return errOffset
	}
	if start < 0 || end < start || end > textLen(text) {
		return errOffset
	}
	f.focused, f.start, f.end = id, start, end
	return nil
}

func (f *fakeSurface) Content(id string) (string, bool) {
	text, ok := f.content[id]
	return text, ok
}

func (f *fakeSurface) DispatchSuggestionTrigger(id string) {
	f.suggestions = append(f.suggestions, id)
}

func (f *fakeSurface) Viewport() (float64, float64) { return f.top, f.bottom }
func (f *fakeSurface) ScrollBy(dy float64)          { f.scrolled += dy }

// harness wires an editor to a fake surface, a memory clipboard and a
// controllable clock, and renders after every event like a host would.
type harness struct {
	t    *testing.T
	ed   *Editor
	s    *fakeSurface
	clip *clipboard.Memory
	now  time.Time
}

func newHarness(t *testing.T, blocks ...domain.Block) *harness {
	t.Helper()
	h := &harness{
		t:    t,
		s:    newFakeSurface(),
		clip: clipboard.NewMemory(),
		now:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	h.ed = New(h.s, domain.Screenplay{Blocks: blocks}, Config{
		Clock:     func() time.Time { return h.now },
		NewID:     SequentialIDs("n"),
		Clipboard: h.clip,
		Logger:    applog.Discard(),
	})
	h.render()
	return h
}

func (h *harness) render() int {
	h.s.render(h.ed.Blocks())
	return h.ed.AfterRender()
}

func (h *harness) dispatch(ev Event) bool {
	handled := h.ed.Dispatch(ev)
	h.render()
	return handled
}

// typeText simulates the surface changing a block's text and reporting it.
func (h *harness) typeText(id, text string) {
	h.s.content[id] = text
	h.dispatch(ContentChanged{BlockID: id, Content: text})
}

func (h *harness) caretAt(id string, off int) {
	h.t.Helper()
	if err := h.s.SetCaret(id, off); err != nil {
		h.t.Fatalf("caretAt(%s, %d): %v", id, off, err)
	}
	h.ed.Dispatch(Focus{BlockID: id})
}

func (h *harness) key(id, key string, mods Mods) bool {
	return h.dispatch(KeyDown{BlockID: id, Key: key, Mods: mods})
}

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

func blk(id string, t domain.BlockType, content string) domain.Block {
	return domain.Block{ID: id, Type: t, Content: content}
}

func contents(blocks []domain.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = string(b.Type) + ":" + b.Content
	}
	return out
}
