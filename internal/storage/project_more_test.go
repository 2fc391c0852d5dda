/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"goscreenwriter/internal/domain"
)

func TestSaveAsMovesProject(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "first")
	ph, err := InitProject(root, sampleScreenplay())
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	newRoot := filepath.Join(tmp, "second")
	if err := SaveAs(ph, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if ph.Root != newRoot || ph.ManifestPath != filepath.Join(newRoot, ManifestFileName) {
		t.Fatalf("handle not updated: %+v", ph)
	}
	for _, d := range []string{ExportsDirName, SessionsDirName, BackupsDirName} {
		if _, err := os.Stat(filepath.Join(newRoot, d)); err != nil {
			t.Fatalf("missing %s in new root: %v", d, err)
		}
	}
	got, err := Open(newRoot)
	if err != nil {
		t.Fatalf("Open new root: %v", err)
	}
	if !domain.SameBlocks(got.Screenplay.Blocks, ph.Screenplay.Blocks) {
		t.Fatalf("blocks differ after SaveAs")
	}
	if err := SaveAs(ph, ""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestSaveScreenplayRefreshesIndex(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, domain.Screenplay{})
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()
	sp := sampleScreenplay()
	if err := SaveScreenplay(ctx, ph, sp); err != nil {
		t.Fatalf("SaveScreenplay: %v", err)
	}
	// The handle holds its own copy.
	sp.Blocks[0].Content = "changed"
	if ph.Screenplay.Blocks[0].Content == "changed" {
		t.Fatalf("handle shares the caller's block slice")
	}
	res, err := Search(ctx, root, SearchQuery{Text: "pier"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 hits for pier, got %d: %+v", len(res), res)
	}

	// A second save replaces the indexed rows instead of appending.
	ph.Screenplay.Blocks = ph.Screenplay.Blocks[:2]
	if err := SaveScreenplay(ctx, ph, ph.Screenplay); err != nil {
		t.Fatalf("SaveScreenplay again: %v", err)
	}
	res, err = Search(ctx, root, SearchQuery{Text: "pier"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("stale index rows: %+v", res)
	}
	if err := SaveScreenplay(ctx, nil, sp); err == nil {
		t.Fatalf("expected error for nil handle")
	}
}

func TestProjectIDIsStable(t *testing.T) {
	root := t.TempDir()
	id, err := ProjectID(root)
	if err != nil || id == "" {
		t.Fatalf("ProjectID: %q %v", id, err)
	}
	again, err := ProjectID(root)
	if err != nil {
		t.Fatalf("ProjectID again: %v", err)
	}
	if again != id {
		t.Fatalf("id changed: %s != %s", again, id)
	}
	if _, err := os.Stat(filepath.Join(root, ProjectIDFile)); err != nil {
		t.Fatalf("id file missing: %v", err)
	}
}
