/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/script"
	"goscreenwriter/internal/storage"
)

// PDFOptions controls screenplay PDF export.
// Units are points (pt). Text is set in the built-in Courier 12 so nothing
// needs embedding and the one-page-per-minute convention holds.
//
// Layout (US Letter):
//   - left margin 1.5in, right and bottom margins 1in, top margin 1in
//   - dialogue at 2.5in, parentheticals at 3.1in, character cues at 3.7in
//   - transitions flush right
//   - pages after the first are numbered "2." top right
type PDFOptions struct {
	TitlePage    bool // render Header on its own unnumbered page
	SceneNumbers bool // print scene numbers left and right of each heading
	A4           bool // A4 instead of US Letter; indents are unchanged
}

const (
	lineH       = 12.0
	inch        = 72.0
	marginLeft  = 1.5 * inch
	marginTop   = 1.0 * inch
	marginRight = 1.0 * inch
	marginBot   = 1.0 * inch
)

// element describes where a block type is set on the page.
type element struct {
	x, w   float64
	align  string
	upper  bool
	spaced bool // preceded by a blank line
}

var layout = map[domain.BlockType]element{
	domain.SceneHeading:  {x: marginLeft, w: 6 * inch, align: "L", upper: true, spaced: true},
	domain.Action:        {x: marginLeft, w: 6 * inch, align: "L", spaced: true},
	domain.Character:     {x: 3.7 * inch, w: 3.3 * inch, align: "L", upper: true, spaced: true},
	domain.Parenthetical: {x: 3.1 * inch, w: 2.0 * inch, align: "L"},
	domain.Dialogue:      {x: 2.5 * inch, w: 3.5 * inch, align: "L"},
	domain.Transition:    {x: marginLeft, w: 6 * inch, align: "R", upper: true, spaced: true},
	domain.Shot:          {x: marginLeft, w: 6 * inch, align: "L", upper: true, spaced: true},
}

// ScreenplayPDF writes the handle's screenplay as a formatted PDF.
// Relative outPath values are resolved under the project's exports folder.
func ScreenplayPDF(ph *storage.ProjectHandle, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	if strings.TrimSpace(outPath) == "" {
		return errors.New("output path is required")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, storage.ExportsDirName, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	pdf := renderPDF(ph.Screenplay, opt)
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WriteScreenplayPDF renders sp as PDF to w.
func WriteScreenplayPDF(w io.Writer, sp domain.Screenplay, opt PDFOptions) error {
	pdf := renderPDF(sp, opt)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderPDF(sp domain.Screenplay, opt PDFOptions) *gofpdf.Fpdf {
	size := "Letter"
	if opt.A4 {
		size = "A4"
	}
	pdf := gofpdf.New("P", "pt", size, "")
	pageW, _ := pdf.GetPageSize()
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBot)
	if t := strings.TrimSpace(sp.Header.Title); t != "" {
		pdf.SetTitle(t, true)
	}
	if a := strings.TrimSpace(sp.Header.Author); a != "" {
		pdf.SetAuthor(a, true)
	}
	pdf.SetCreator("goscreenwriter", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Courier", "", 12)

	firstScriptPage := 1
	if opt.TitlePage {
		firstScriptPage = 2
	}
	pdf.SetHeaderFuncMode(func() {
		n := pdf.PageNo() - firstScriptPage + 1
		if n < 2 {
			return
		}
		pdf.SetXY(pageW-marginRight-inch, 0.5*inch)
		pdf.CellFormat(inch, lineH, strconv.Itoa(n)+".", "", 0, "R", false, 0, "")
	}, true)

	if opt.TitlePage {
		titlePage(pdf, sp.Header, tr)
	}
	pdf.AddPage()

	prev := domain.BlockType("")
	for _, b := range sp.Blocks {
		text := strings.TrimSpace(b.Content)
		if text == "" {
			continue
		}
		el, ok := layout[b.Type]
		if !ok {
			el = layout[domain.Action]
		}
		if el.upper {
			text = strings.ToUpper(text)
		}
		if b.Type == domain.Parenthetical {
			text = script.WrapParenthetical(text)
		}
		_, pageH := pdf.GetPageSize()
		bottom := pageH - marginBot
		// Keep a cue with at least one line of its speech.
		if b.Type == domain.Character && pdf.GetY()+3*lineH > bottom {
			pdf.AddPage()
		}
		if el.spaced && prev != "" && pdf.GetY() > marginTop+0.5 {
			pdf.Ln(lineH)
		}
		y := pdf.GetY()
		if opt.SceneNumbers && b.Type == domain.SceneHeading && b.Number > 0 {
			num := strconv.Itoa(b.Number)
			pdf.SetXY(marginLeft-0.6*inch, y)
			pdf.CellFormat(0.5*inch, lineH, num, "", 0, "R", false, 0, "")
			pdf.SetXY(marginLeft+6*inch+0.1*inch, y)
			pdf.CellFormat(0.5*inch, lineH, num, "", 0, "L", false, 0, "")
		}
		pdf.SetXY(el.x, y)
		pdf.MultiCell(el.w, lineH, tr(text), "", el.align, false)
		prev = b.Type
	}
	return pdf
}

func titlePage(pdf *gofpdf.Fpdf, h domain.Header, tr func(string) string) {
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	w := pageW - marginLeft - marginRight
	pdf.SetY(pageH / 3)
	title := strings.ToUpper(strings.TrimSpace(h.Title))
	if title == "" {
		title = "UNTITLED"
	}
	pdf.SetX(marginLeft)
	pdf.MultiCell(w, lineH, tr(title), "", "C", false)
	if a := strings.TrimSpace(h.Author); a != "" {
		pdf.Ln(2 * lineH)
		pdf.SetX(marginLeft)
		pdf.CellFormat(w, lineH, "Written by", "", 1, "C", false, 0, "")
		pdf.Ln(lineH)
		pdf.SetX(marginLeft)
		pdf.CellFormat(w, lineH, tr(a), "", 1, "C", false, 0, "")
	}
	var foot []string
	if c := strings.TrimSpace(h.Contact); c != "" {
		foot = append(foot, c)
	}
	if d := strings.TrimSpace(h.DraftDate); d != "" {
		foot = append(foot, d)
	}
	if len(foot) > 0 {
		pdf.SetXY(marginLeft, pageH-marginBot-float64(len(foot)+2)*lineH)
		pdf.MultiCell(w/2, lineH, tr(strings.Join(foot, "\n")), "", "L", false)
	}
}
