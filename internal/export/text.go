/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/script"
	"goscreenwriter/internal/storage"
)

// WritePlainText writes sp in a Fountain-style plain text form that
// script.Parse reads back: a "Key: value" title page, then one element per
// paragraph. Elements whose type would not be detected from their text alone
// are forced with the usual markers ("." for scene headings, "@" for
// character cues, ">" for transitions).
func WritePlainText(w io.Writer, sp domain.Screenplay) error {
	bw := bufio.NewWriter(w)
	h := sp.Header
	wroteTitle := false
	for _, kv := range [][2]string{
		{"Title", h.Title},
		{"Author", h.Author},
		{"Contact", h.Contact},
		{"Draft date", h.DraftDate},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			fmt.Fprintf(bw, "%s: %s\n", kv[0], v)
			wroteTitle = true
		}
	}

	started := false
	for _, b := range sp.Blocks {
		text := strings.TrimSpace(b.Content)
		if text == "" {
			continue
		}
		speech := b.Type == domain.Dialogue || b.Type == domain.Parenthetical
		if (started && !speech) || (!started && wroteTitle) {
			bw.WriteString("\n")
		}
		started = true
		bw.WriteString(plainLine(b.Type, text))
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func plainLine(bt domain.BlockType, text string) string {
	switch bt {
	case domain.SceneHeading:
		text = strings.ToUpper(text)
		if !script.HasScenePrefix(text) {
			return "." + text
		}
		return text
	case domain.Character:
		if !isUpperName(text) {
			return "@" + text
		}
		return strings.ToUpper(text)
	case domain.Parenthetical:
		return script.WrapParenthetical(text)
	case domain.Transition:
		text = strings.ToUpper(text)
		if !script.IsTransitionContent(text) {
			return "> " + text
		}
		return text
	case domain.Shot:
		return strings.ToUpper(text)
	default:
		return text
	}
}

func isUpperName(s string) bool {
	letters := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters
}

// PlainText writes the handle's screenplay to outPath. Relative paths are
// resolved under the project's exports folder.
func PlainText(ph *storage.ProjectHandle, outPath string) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, storage.ExportsDirName, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create text file: %w", err)
	}
	if err := WritePlainText(f, ph.Screenplay); err != nil {
		_ = f.Close()
		return fmt.Errorf("write text: %w", err)
	}
	return f.Close()
}
