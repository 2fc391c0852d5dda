/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"goscreenwriter/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetReading is a clean read: title page, no scene numbers.
	PresetReading PresetName = "reading"
	// PresetShooting numbers every scene for production.
	PresetShooting PresetName = "shooting"
	// PresetDraft adds a plain text copy for diffing and mail.
	PresetDraft PresetName = "draft"
)

// BatchOptions controls batch export across multiple formats.
//
// Path semantics:
//   - If OutDir is empty or relative, it will be created under <project>/exports/<preset>/.
//   - Files are named after BaseName (default "screenplay") with .pdf or .txt.
type BatchOptions struct {
	Preset       PresetName
	Formats      []string // allowed: pdf, txt; empty means preset defaults
	BaseName     string
	SceneNumbers *bool // when set, overrides the preset's default
	A4           bool
	OutDir       string
}

// BatchExport runs exports according to the given preset and returns the
// written file paths.
func BatchExport(ph *storage.ProjectHandle, opt BatchOptions) ([]string, error) {
	if ph == nil {
		return nil, fmt.Errorf("project handle is nil")
	}
	if len(ph.Screenplay.Blocks) == 0 {
		return nil, fmt.Errorf("screenplay has no blocks")
	}
	switch opt.Preset {
	case "", PresetReading, PresetShooting, PresetDraft:
	default:
		return nil, fmt.Errorf("unknown preset: %s", opt.Preset)
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
		if baseOut == "" {
			baseOut = "default"
		}
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(ph.Root, storage.ExportsDirName, baseOut)
	}
	name := strings.TrimSpace(opt.BaseName)
	if name == "" {
		name = "screenplay"
	}

	numbers := presetSceneNumbers(opt.Preset)
	if opt.SceneNumbers != nil {
		numbers = *opt.SceneNumbers
	}

	var written []string
	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "pdf":
			out := filepath.Join(baseOut, name+".pdf")
			po := PDFOptions{TitlePage: presetTitlePage(opt.Preset), SceneNumbers: numbers, A4: opt.A4}
			if err := ScreenplayPDF(ph, out, po); err != nil {
				return written, fmt.Errorf("pdf: %w", err)
			}
			written = append(written, out)
		case "txt":
			out := filepath.Join(baseOut, name+".txt")
			if err := PlainText(ph, out); err != nil {
				return written, fmt.Errorf("txt: %w", err)
			}
			written = append(written, out)
		default:
			return written, fmt.Errorf("unknown format: %s", f)
		}
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetDraft:
		return []string{"pdf", "txt"}
	default:
		return []string{"pdf"}
	}
}

func presetSceneNumbers(p PresetName) bool {
	return p == PresetShooting
}

func presetTitlePage(p PresetName) bool {
	return p != PresetDraft
}
