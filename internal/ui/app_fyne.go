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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"goscreenwriter/internal/config"
	"goscreenwriter/internal/crash"
	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/editor"
	"goscreenwriter/internal/export"
	"goscreenwriter/internal/hotkey"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/telemetry"
)

const (
	recentPrefsKey   = "recent.projects"
	snapshotInterval = 2 * time.Minute
	snapshotKeep     = 20
)

// shell is the desktop window around one editor session.
type shell struct {
	fapp fyne.App
	win  fyne.Window
	cfg  config.AppConfig
	log  *slog.Logger

	ph      *storage.ProjectHandle
	ed      *editor.Editor
	surface *fyneSurface

	format  *widget.Select
	status  *widget.Label
	results *widget.List
	found   []storage.SearchResult

	held    editor.Mods
	busy    bool
	syncing bool
	saved   domain.Screenplay
	started time.Time
}

// Run starts the desktop editor. projectDir may be empty for a new, unsaved
// screenplay.
func Run(projectDir string, cfg config.AppConfig) error {
	s := &shell{cfg: cfg, log: applog.WithComponent("ui"), started: time.Now()}
	defer func() {
		if r := recover(); r != nil {
			crash.Report(s.ph, r)
		}
	}()
	s.log.Info("starting UI")

	s.fapp = app.NewWithID("goscreenwriter")
	s.win = s.fapp.NewWindow("Go Screenwriter")
	prefs := s.fapp.Preferences()
	s.win.Resize(fyne.NewSize(
		float32(max(prefs.IntWithFallback("window.width", 1100), 800)),
		float32(max(prefs.IntWithFallback("window.height", 800), 600)),
	))

	s.surface = newFyneSurface(s.win.Canvas(), s)
	s.surface.suggest = s.showSuggestions
	s.status = widget.NewLabel("Ready")
	s.format = widget.NewSelect(formatLabels(), func(label string) {
		if s.syncing {
			return
		}
		if t, ok := typeForLabel(label); ok {
			s.dispatch(editor.FormatChange{Type: t})
		}
	})

	sp := domain.Screenplay{}
	if projectDir != "" {
		ph, err := storage.Open(projectDir)
		if err != nil {
			return fmt.Errorf("open project: %w", err)
		}
		s.ph = ph
		sp = ph.Screenplay
		s.rememberRecent(ph.Root)
	}
	s.load(sp)

	page := container.NewStack(newBackdrop(s), s.surface.scroll)
	toolbar := container.NewHBox(widget.NewLabel("Format:"), s.format)
	s.win.SetContent(container.NewBorder(toolbar, s.status, nil, s.searchPanel(), page))
	s.win.SetMainMenu(s.menu())
	s.win.SetCloseIntercept(s.close)
	s.focusFirst()

	stop := make(chan struct{})
	go s.snapshotLoop(stop)
	s.win.ShowAndRun()
	close(stop)
	return nil
}

// load replaces the editor session with sp.
func (s *shell) load(sp domain.Screenplay) {
	opts := s.cfg.Editor.Options()
	opts.Logger = applog.WithComponent("editor")
	s.ed = editor.New(s.surface, sp, opts)
	hk, err := hotkey.New(s.ed, s.cfg.Editor.Hotkeys, applog.WithComponent("hotkey"))
	if err != nil {
		s.log.Warn("invalid hotkey config, using defaults", slog.Any("err", err))
		hk, _ = hotkey.New(s.ed, nil, applog.WithComponent("hotkey"))
	}
	hk.Attach(s.ed)
	s.saved = s.ed.Screenplay()
	s.refresh()
}

func (s *shell) focusFirst() {
	if blocks := s.ed.Blocks(); len(blocks) > 0 {
		_ = s.surface.Focus(blocks[0].ID)
	}
}

// dispatch implements host. Events raised while a refresh is running (focus
// changes from caret placement) reach the editor without another render.
func (s *shell) dispatch(ev editor.Event) bool {
	if s.busy {
		return s.ed.Dispatch(ev)
	}
	handled := s.ed.Dispatch(ev)
	s.refresh()
	return handled
}

func (s *shell) refresh() {
	s.busy = true
	defer func() { s.busy = false }()
	s.surface.render(s.ed.Blocks(), s.ed.Selected())
	s.ed.AfterRender()

	s.syncing = true
	if b, ok := s.activeBlock(); ok {
		s.format.SetSelected(styleFor(b.Type).Label)
	}
	s.syncing = false

	root := ""
	if s.ph != nil {
		root = s.ph.Root
	}
	s.win.SetTitle(windowTitle(s.ed.Header(), root, s.dirty()))
}

func (s *shell) activeBlock() (domain.Block, bool) {
	blocks := s.ed.Blocks()
	if i := domain.IndexOf(blocks, s.ed.Active()); i >= 0 {
		return blocks[i], true
	}
	return domain.Block{}, false
}

func (s *shell) dirty() bool {
	sp := s.ed.Screenplay()
	return sp.Header != s.saved.Header || !domain.SameBlocks(sp.Blocks, s.saved.Blocks)
}

func (s *shell) mods() editor.Mods { return s.held }

func (s *shell) setMod(name fyne.KeyName, down bool) {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		s.held.Shift = down
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		s.held.Ctrl = down
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		s.held.Alt = down
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		s.held.Meta = down
	}
}

// copyCut handles copy and cut for multi-block selections; single-block
// text stays with the entry.
func (s *shell) copyCut(cut bool) bool {
	if len(s.ed.Selected()) < 2 {
		return false
	}
	ok := s.ed.Copy()
	if cut {
		ok = s.ed.Cut()
	}
	s.refresh()
	return ok
}

func (s *shell) showSuggestions(id string, at fyne.Position) {
	items := make([]*fyne.MenuItem, 0, len(domain.BlockTypes))
	for _, t := range domain.BlockTypes {
		items = append(items, fyne.NewMenuItem(styleFor(t).Label, func() {
			if s.ed.Active() == id {
				s.dispatch(editor.FormatChange{Type: t})
			}
		}))
	}
	widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), s.win.Canvas(), at)
}

func (s *shell) menu() *fyne.MainMenu {
	recent := fyne.NewMenuItem("Open Recent", nil)
	var recentItems []*fyne.MenuItem
	for _, p := range s.recent() {
		recentItems = append(recentItems, fyne.NewMenuItem(p, func() { s.open(p) }))
	}
	if len(recentItems) == 0 {
		recentItems = append(recentItems, &fyne.MenuItem{Label: "(none)", Disabled: true})
	}
	recent.ChildMenu = fyne.NewMenu("", recentItems...)

	file := fyne.NewMenu("File",
		fyne.NewMenuItem("New", func() { s.confirmDiscard(func() { s.ph = nil; s.load(domain.Screenplay{}); s.focusFirst() }) }),
		fyne.NewMenuItem("Open…", func() {
			dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
				if err == nil && uri != nil {
					s.open(uri.Path())
				}
			}, s.win)
		}),
		recent,
		fyne.NewMenuItem("Save", s.save),
		fyne.NewMenuItem("Save As…", s.saveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Title Page…", s.editHeader),
		fyne.NewMenuItem("Export PDF", func() { s.export(export.PresetReading, "pdf") }),
		fyne.NewMenuItem("Export Shooting Script", func() { s.export(export.PresetShooting, "pdf") }),
		fyne.NewMenuItem("Export Plain Text", func() { s.export(export.PresetDraft, "txt") }),
		fyne.NewMenuItem("Restore Last Snapshot", s.restoreSnapshot),
	)
	edit := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { s.ed.Undo(); s.refresh() }),
		fyne.NewMenuItem("Redo", func() { s.ed.Redo(); s.refresh() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select All Blocks", func() { s.ed.SelectAll(); s.refresh() }),
		fyne.NewMenuItem("Copy Blocks", func() { s.copyCut(false) }),
		fyne.NewMenuItem("Cut Blocks", func() { s.copyCut(true) }),
	)
	return fyne.NewMainMenu(file, edit)
}

func (s *shell) open(dir string) {
	s.confirmDiscard(func() {
		ph, err := storage.Open(dir)
		if err != nil {
			dialog.ShowError(err, s.win)
			return
		}
		s.ph = ph
		s.load(ph.Screenplay)
		s.focusFirst()
		s.rememberRecent(ph.Root)
		s.win.SetMainMenu(s.menu())
		s.status.SetText("Opened " + ph.Root)
	})
}

func (s *shell) confirmDiscard(next func()) {
	if !s.dirty() {
		next()
		return
	}
	dialog.ShowConfirm("Unsaved changes", "Discard changes to the current screenplay?", func(ok bool) {
		if ok {
			next()
		}
	}, s.win)
}

func (s *shell) save() {
	if s.ph == nil {
		s.saveAs()
		return
	}
	ctx := applog.ContextWith(context.Background(), slog.String("project", s.ph.Root))
	sp := s.ed.Screenplay()
	if err := storage.SaveScreenplay(ctx, s.ph, sp); err != nil {
		s.log.ErrorContext(ctx, "save failed", slog.Any("err", err))
		dialog.ShowError(err, s.win)
		return
	}
	if err := storage.SaveSnapshot(ctx, s.ph, sp.Blocks, time.Now()); err != nil {
		s.log.WarnContext(ctx, "snapshot failed", slog.Any("err", err))
	}
	s.saved = sp
	s.status.SetText("Saved " + time.Now().Format("15:04:05"))
	s.refresh()
}

func (s *shell) saveAs() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		root := uri.Path()
		sp := s.ed.Screenplay()
		if s.ph == nil {
			ph, err := storage.InitProject(root, sp)
			if err != nil {
				dialog.ShowError(err, s.win)
				return
			}
			s.ph = ph
		} else {
			s.ph.Screenplay = sp
			if err := storage.SaveAs(s.ph, root); err != nil {
				dialog.ShowError(err, s.win)
				return
			}
		}
		s.rememberRecent(s.ph.Root)
		s.save()
	}, s.win)
}

func (s *shell) editHeader() {
	h := s.ed.Header()
	title, author := widget.NewEntry(), widget.NewEntry()
	contact, draft := widget.NewEntry(), widget.NewEntry()
	title.SetText(h.Title)
	author.SetText(h.Author)
	contact.SetText(h.Contact)
	draft.SetText(h.DraftDate)
	items := []*widget.FormItem{
		widget.NewFormItem("Title", title),
		widget.NewFormItem("Author", author),
		widget.NewFormItem("Contact", contact),
		widget.NewFormItem("Draft date", draft),
	}
	dialog.ShowForm("Title Page", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		s.ed.SetHeader(domain.Header{
			Title:     strings.TrimSpace(title.Text),
			Author:    strings.TrimSpace(author.Text),
			Contact:   strings.TrimSpace(contact.Text),
			DraftDate: strings.TrimSpace(draft.Text),
		})
		s.refresh()
	}, s.win)
}

func (s *shell) export(preset export.PresetName, format string) {
	if s.ph == nil {
		dialog.ShowInformation("Export", "Save the screenplay as a project first.", s.win)
		return
	}
	snap := *s.ph
	snap.Screenplay = s.ed.Screenplay()
	paths, err := export.BatchExport(&snap, export.BatchOptions{Preset: preset, Formats: []string{format}})
	if err != nil {
		s.log.Error("export failed", slog.Any("err", err))
		dialog.ShowError(err, s.win)
		return
	}
	event := telemetry.EventExportPDF
	if format == "txt" {
		event = telemetry.EventExportText
	}
	telemetry.Event(event, map[string]any{"preset": string(preset), "blocks": len(snap.Screenplay.Blocks)})
	s.status.SetText("Exported " + strings.Join(paths, ", "))
}

func (s *shell) restoreSnapshot() {
	if s.ph == nil {
		return
	}
	snap, ok, err := storage.GetLatestSnapshot(context.Background(), s.ph)
	if err != nil {
		dialog.ShowError(err, s.win)
		return
	}
	if !ok {
		dialog.ShowInformation("Snapshots", "No snapshot saved yet.", s.win)
		return
	}
	dialog.ShowConfirm("Restore snapshot", "Replace the script with the snapshot from "+snap.TS.Local().Format(time.DateTime)+"?", func(yes bool) {
		if !yes {
			return
		}
		s.ed.AddToHistory(s.ed.Blocks())
		s.ed.UpdateBlocks(snap.Blocks)
		s.refresh()
	}, s.win)
}

// snapshotLoop stores a snapshot of unsaved work every snapshotInterval.
func (s *shell) snapshotLoop(stop <-chan struct{}) {
	t := time.NewTicker(snapshotInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			fyne.Do(func() {
				if s.ph == nil || !s.dirty() {
					return
				}
				ctx := context.Background()
				if err := storage.SaveSnapshot(ctx, s.ph, s.ed.Blocks(), time.Now()); err != nil {
					s.log.Warn("periodic snapshot failed", slog.Any("err", err))
					return
				}
				if _, err := storage.PruneOldSnapshots(ctx, s.ph, snapshotKeep); err != nil {
					s.log.Warn("snapshot prune failed", slog.Any("err", err))
				}
			})
		}
	}
}

func (s *shell) searchPanel() fyne.CanvasObject {
	query := widget.NewEntry()
	query.SetPlaceHolder("Search script…")
	s.results = widget.NewList(
		func() int { return len(s.found) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			r := s.found[i]
			text := strings.TrimSpace(r.Snippet)
			if len([]rune(text)) > 60 {
				text = string([]rune(text)[:60]) + "…"
			}
			o.(*widget.Label).SetText(fmt.Sprintf("%d · %s · %s", r.Scene, r.Type, text))
		},
	)
	s.results.OnSelected = func(i widget.ListItemID) {
		if err := s.surface.Focus(s.found[i].BlockID); err != nil {
			s.status.SetText("Result is not in the current script; save to refresh the index.")
		}
	}
	query.OnSubmitted = func(text string) { s.search(text) }
	outline := widget.NewButton("Scenes", func() { s.search("") })
	return container.NewBorder(container.NewBorder(nil, nil, nil, outline, query), nil, nil, nil, s.results)
}

func (s *shell) search(text string) {
	if s.ph == nil {
		s.status.SetText("Search needs a saved project.")
		return
	}
	s.status.SetText("Searching…")
	root := s.ph.Root
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var (
			res []storage.SearchResult
			err error
		)
		if strings.TrimSpace(text) == "" {
			res, err = storage.SceneOutline(ctx, root)
		} else {
			res, err = storage.Search(ctx, root, storage.SearchQuery{Text: text, Limit: 200})
		}
		fyne.Do(func() {
			if err != nil {
				s.log.Error("search failed", slog.Any("err", err))
				s.status.SetText("Search failed.")
				return
			}
			s.found = res
			s.results.UnselectAll()
			s.results.Refresh()
			s.status.SetText(fmt.Sprintf("%d results", len(res)))
		})
	}()
}

func (s *shell) close() {
	s.confirmDiscard(func() {
		prefs := s.fapp.Preferences()
		size := s.win.Canvas().Size()
		prefs.SetInt("window.width", int(size.Width))
		prefs.SetInt("window.height", int(size.Height))

		blocks := s.ed.Blocks()
		scenes := 0
		for _, b := range blocks {
			if b.Type == domain.SceneHeading {
				scenes++
			}
		}
		_, undoDepth, _ := s.ed.HistoryStats()
		telemetry.EditorSession(len(blocks), scenes, undoDepth, time.Since(s.started))
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		telemetry.Flush(ctx)
		cancel()
		s.win.Close()
	})
}

func (s *shell) recent() []string {
	raw := s.fapp.Preferences().StringWithFallback(recentPrefsKey, "")
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	out := items[:0]
	for _, p := range items {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func (s *shell) rememberRecent(path string) {
	b, err := json.Marshal(pushRecent(s.recent(), path))
	if err != nil {
		return
	}
	s.fapp.Preferences().SetString(recentPrefsKey, string(b))
}
