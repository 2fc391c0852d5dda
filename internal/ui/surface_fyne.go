//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"errors"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rivo/uniseg"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/editor"
)

var (
	errNotRendered = errors.New("block is not rendered")
	errOffset      = errors.New("offset out of range")
	errRangeSelect = errors.New("entry cannot select a range programmatically")
)

// host receives the events the block entries produce.
type host interface {
	dispatch(ev editor.Event) bool
	mods() editor.Mods
	setMod(name fyne.KeyName, down bool)
	copyCut(cut bool) bool
}

// blockEntry is one block drawn as a wrapping multi-line entry.
type blockEntry struct {
	widget.Entry
	id    string
	kind  domain.BlockType
	host  host
	quiet bool
	bg    *canvas.Rectangle
	row   *fyne.Container
}

func newBlockEntry(id string, h host) *blockEntry {
	e := &blockEntry{id: id, host: h}
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapWord
	e.ExtendBaseWidget(e)
	e.OnChanged = func(text string) {
		if e.quiet {
			return
		}
		e.host.dispatch(editor.ContentChanged{BlockID: e.id, Content: text})
	}
	e.bg = canvas.NewRectangle(color.Transparent)
	e.row = container.NewStack(e.bg, container.New(&indentLayout{}, e))
	return e
}

// apply updates the entry to show b without reporting a content change.
func (e *blockEntry) apply(b domain.Block, selected bool) {
	st := styleFor(b.Type)
	e.kind = b.Type
	e.TextStyle = fyne.TextStyle{Bold: st.Bold, Italic: st.Italic}
	e.row.Objects[1].(*fyne.Container).Layout.(*indentLayout).style = st
	if e.Text != b.Content {
		e.quiet = true
		e.SetText(b.Content)
		e.quiet = false
	}
	if selected {
		e.bg.FillColor = theme.Color(theme.ColorNameSelection)
	} else {
		e.bg.FillColor = color.Transparent
	}
	e.bg.Refresh()
	e.row.Refresh()
}

// AcceptsTab keeps Tab inside the editor instead of moving focus.
func (e *blockEntry) AcceptsTab() bool { return true }

func (e *blockEntry) KeyDown(ev *fyne.KeyEvent) {
	e.host.setMod(ev.Name, true)
	e.Entry.KeyDown(ev)
}

func (e *blockEntry) KeyUp(ev *fyne.KeyEvent) {
	e.host.setMod(ev.Name, false)
	e.Entry.KeyUp(ev)
}

func (e *blockEntry) TypedKey(ev *fyne.KeyEvent) {
	if key, ok := editorKey(string(ev.Name)); ok {
		if e.host.dispatch(editor.KeyDown{BlockID: e.id, Key: key, Mods: e.host.mods()}) {
			return
		}
	}
	e.Entry.TypedKey(ev)
}

func (e *blockEntry) TypedShortcut(s fyne.Shortcut) {
	switch s.(type) {
	case *fyne.ShortcutCopy:
		if e.host.copyCut(false) {
			return
		}
	case *fyne.ShortcutCut:
		if e.host.copyCut(true) {
			return
		}
	}
	if key, mods, ok := shortcutChord(s); ok {
		if e.host.dispatch(editor.KeyDown{BlockID: e.id, Key: key, Mods: mods}) {
			return
		}
	}
	e.Entry.TypedShortcut(s)
}

func (e *blockEntry) Tapped(ev *fyne.PointEvent) {
	e.Entry.Tapped(ev)
	e.host.dispatch(editor.Click{BlockID: e.id, Mods: e.host.mods()})
}

func (e *blockEntry) DoubleTapped(ev *fyne.PointEvent) {
	e.Entry.DoubleTapped(ev)
	e.host.dispatch(editor.DoubleClick{BlockID: e.id, Mods: e.host.mods()})
}

func (e *blockEntry) FocusGained() {
	e.Entry.FocusGained()
	e.host.dispatch(editor.Focus{BlockID: e.id})
}

// shortcutChord turns a toolkit shortcut into the key and modifiers the
// hotkey table is keyed by.
func shortcutChord(s fyne.Shortcut) (string, editor.Mods, bool) {
	cmd := editor.Mods{Ctrl: true}
	switch sc := s.(type) {
	case *desktop.CustomShortcut:
		return shortcutKey(string(sc.KeyName)), modsOf(sc.Modifier), true
	case *fyne.ShortcutUndo:
		return "z", cmd, true
	case *fyne.ShortcutRedo:
		return "z", editor.Mods{Ctrl: true, Shift: true}, true
	case *fyne.ShortcutSelectAll:
		return "a", cmd, true
	}
	return "", editor.Mods{}, false
}

func modsOf(m fyne.KeyModifier) editor.Mods {
	return editor.Mods{
		Shift: m&fyne.KeyModifierShift != 0,
		Ctrl:  m&fyne.KeyModifierControl != 0,
		Alt:   m&fyne.KeyModifierAlt != 0,
		Meta:  m&fyne.KeyModifierSuper != 0,
	}
}

// indentLayout places a single object at the block type's horizontal inset.
type indentLayout struct{ style blockStyle }

func (l *indentLayout) Layout(objs []fyne.CanvasObject, size fyne.Size) {
	w := size.Width * l.style.Width
	if w <= 0 {
		w = size.Width
	}
	x := size.Width * l.style.Indent
	for _, o := range objs {
		h := o.MinSize().Height
		o.Move(fyne.NewPos(x, 0))
		o.Resize(fyne.NewSize(w, h))
	}
}

func (l *indentLayout) MinSize(objs []fyne.CanvasObject) fyne.Size {
	var s fyne.Size
	for _, o := range objs {
		s = s.Max(o.MinSize())
	}
	return s
}

// backdrop sits behind the page and turns taps on empty space into
// click-outside events.
type backdrop struct {
	widget.BaseWidget
	host host
}

func newBackdrop(h host) *backdrop {
	b := &backdrop{host: h}
	b.ExtendBaseWidget(b)
	return b
}

func (b *backdrop) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (b *backdrop) Tapped(*fyne.PointEvent) {
	b.host.dispatch(editor.ClickOutside{InEditor: true})
}

// fyneSurface implements editor.Surface and editor.Scroller over a column
// of block entries.
type fyneSurface struct {
	canvas  fyne.Canvas
	host    host
	entries map[string]*blockEntry
	list    *fyne.Container
	scroll  *container.Scroll
	suggest func(id string, at fyne.Position)
}

func newFyneSurface(c fyne.Canvas, h host) *fyneSurface {
	s := &fyneSurface{canvas: c, host: h, entries: map[string]*blockEntry{}}
	s.list = container.NewVBox()
	s.scroll = container.NewVScroll(s.list)
	return s
}

// render shows blocks in order, reusing entries by block id so focus and
// caret survive edits.
func (s *fyneSurface) render(blocks []domain.Block, selected []string) {
	sel := make(map[string]bool, len(selected))
	for _, id := range selected {
		sel[id] = true
	}
	seen := make(map[string]bool, len(blocks))
	objs := make([]fyne.CanvasObject, 0, len(blocks))
	for _, b := range blocks {
		e, ok := s.entries[b.ID]
		if !ok {
			e = newBlockEntry(b.ID, s.host)
			s.entries[b.ID] = e
		}
		e.apply(b, sel[b.ID])
		seen[b.ID] = true
		objs = append(objs, e.row)
	}
	for id := range s.entries {
		if !seen[id] {
			delete(s.entries, id)
		}
	}
	s.list.Objects = objs
	s.list.Refresh()
}

func (s *fyneSurface) entry(id string) (*blockEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, errNotRendered
	}
	return e, nil
}

func (s *fyneSurface) Focus(id string) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	if s.canvas.Focused() != e {
		s.canvas.Focus(e)
	}
	top, bottom := s.Viewport()
	y, h := float64(e.row.Position().Y), float64(e.row.Size().Height)
	if y < top || y+h > bottom {
		s.scrollTo(float32(y))
	}
	return nil
}

func (s *fyneSurface) Caret(id string) (int, error) {
	e, err := s.entry(id)
	if err != nil {
		return 0, err
	}
	return graphemeOffset(e.Text, e.CursorRow, e.CursorColumn), nil
}

func (s *fyneSurface) SetCaret(id string, off int) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	if off < 0 || off > uniseg.GraphemeClusterCount(e.Text) {
		return errOffset
	}
	e.CursorRow, e.CursorColumn = rowCol(e.Text, off)
	e.Refresh()
	return nil
}

// SelectionRange assumes the selection was made forwards, ending at the
// cursor; the entry does not expose its anchor.
func (s *fyneSurface) SelectionRange(id string) (int, int, error) {
	end, err := s.Caret(id)
	if err != nil {
		return 0, 0, err
	}
	e := s.entries[id]
	start := max(end-uniseg.GraphemeClusterCount(e.SelectedText()), 0)
	return start, end, nil
}

func (s *fyneSurface) SetSelectionRange(id string, start, end int) error {
	if err := s.SetCaret(id, end); err != nil {
		return err
	}
	if start != end {
		return errRangeSelect
	}
	return nil
}

func (s *fyneSurface) Content(id string) (string, bool) {
	e, ok := s.entries[id]
	if !ok {
		return "", false
	}
	return e.Text, true
}

func (s *fyneSurface) DispatchSuggestionTrigger(id string) {
	e, ok := s.entries[id]
	if !ok || s.suggest == nil {
		return
	}
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(e)
	s.suggest(id, pos.Add(fyne.NewPos(0, e.Size().Height)))
}

func (s *fyneSurface) Viewport() (float64, float64) {
	top := float64(s.scroll.Offset.Y)
	return top, top + float64(s.scroll.Size().Height)
}

func (s *fyneSurface) ScrollBy(dy float64) { s.scrollTo(s.scroll.Offset.Y + float32(dy)) }

// scrollTo moves the viewport so y is inside it, clamped to the content.
func (s *fyneSurface) scrollTo(y float32) {
	maxY := s.list.MinSize().Height - s.scroll.Size().Height
	y = min(max(y, 0), max(maxY, 0))
	if y == s.scroll.Offset.Y {
		return
	}
	s.scroll.Offset = fyne.NewPos(0, y)
	s.scroll.Refresh()
}
