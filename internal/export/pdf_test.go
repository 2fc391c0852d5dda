/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/storage"
)

func sampleScreenplay() domain.Screenplay {
	sp := domain.Screenplay{
		Header: domain.Header{Title: "Night Shift", Author: "K. Lee", Contact: "k@example.com", DraftDate: "March 2025"},
		Blocks: []domain.Block{
			{ID: "s1", Type: domain.SceneHeading, Content: "int. kitchen - night"},
			{ID: "a1", Type: domain.Action, Content: "Anna pours coffee. Café noir."},
			{ID: "c1", Type: domain.Character, Content: "ANNA"},
			{ID: "p1", Type: domain.Parenthetical, Content: "quietly"},
			{ID: "d1", Type: domain.Dialogue, Content: "Where were you last night?"},
			{ID: "c2", Type: domain.Character, Content: "Bob"},
			{ID: "d2", Type: domain.Dialogue, Content: "Out walking."},
			{ID: "t1", Type: domain.Transition, Content: "smash cut"},
			{ID: "s2", Type: domain.SceneHeading, Content: "ROOFTOP"},
			{ID: "h1", Type: domain.Shot, Content: "ANGLE ON the pier"},
			{ID: "e1", Type: domain.Action, Content: ""},
		},
	}
	domain.Renumber(sp.Blocks)
	return sp
}

func TestScreenplayPDF_CreatesFile(t *testing.T) {
	root := t.TempDir()
	ph, err := storage.InitProject(root, sampleScreenplay())
	if err != nil {
		t.Fatalf("init project: %v", err)
	}
	if err := ScreenplayPDF(ph, "night-shift.pdf", PDFOptions{TitlePage: true, SceneNumbers: true}); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := filepath.Join(root, storage.ExportsDirName, "night-shift.pdf")
	st, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() <= 0 {
		t.Fatalf("pdf file empty")
	}
	if err := ScreenplayPDF(nil, "x.pdf", PDFOptions{}); err == nil {
		t.Fatalf("expected error for nil handle")
	}
	if err := ScreenplayPDF(ph, " ", PDFOptions{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestWriteScreenplayPDF_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScreenplayPDF(&buf, sampleScreenplay(), PDFOptions{A4: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:8])
	}
}

func TestRenderPDF_PageCount(t *testing.T) {
	sp := sampleScreenplay()
	pdf := renderPDF(sp, PDFOptions{TitlePage: true})
	if pdf.Err() {
		t.Fatalf("render: %v", pdf.Error())
	}
	if pdf.PageNo() != 2 {
		t.Fatalf("expected title page plus one page, got %d", pdf.PageNo())
	}

	long := domain.Screenplay{}
	for i := 0; i < 120; i++ {
		long.Blocks = append(long.Blocks, domain.Block{ID: fmt.Sprint(i), Type: domain.Action, Content: "Rain hammers the windows."})
	}
	pdf = renderPDF(long, PDFOptions{})
	if pdf.Err() {
		t.Fatalf("render long: %v", pdf.Error())
	}
	// 120 one-line paragraphs plus spacing at 54 lines per page.
	if pdf.PageNo() < 4 {
		t.Fatalf("expected several pages, got %d", pdf.PageNo())
	}
}
