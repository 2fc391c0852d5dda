/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"goscreenwriter/internal/export"
	"goscreenwriter/internal/telemetry"
)

func addExport(topLevel *cobra.Command, ro *rootOptions) {
	var (
		pdf, txt, a4 bool
		preset       string
		name, outDir string
		sceneNumbers bool
	)
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Export a project as a formatted PDF and/or plain text.",
		Example: `
goscreenwriter export ./night-shift --pdf
goscreenwriter export ./night-shift --preset shooting --a4
goscreenwriter export ./night-shift --txt --out /tmp/drafts
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := ro.openProject(args[0])
			if err != nil {
				return err
			}
			opt := export.BatchOptions{Preset: export.PresetName(preset), BaseName: name, A4: a4, OutDir: outDir}
			if pdf {
				opt.Formats = append(opt.Formats, "pdf")
			}
			if txt {
				opt.Formats = append(opt.Formats, "txt")
			}
			if cmd.Flags().Changed("scene-numbers") {
				opt.SceneNumbers = &sceneNumbers
			}
			paths, err := export.BatchExport(ph, opt)
			if err != nil {
				return err
			}
			for _, p := range paths {
				ro.log.Info("exported", slog.String("path", p))
				fmt.Fprintln(cmd.OutOrStdout(), p)
				event := telemetry.EventExportPDF
				if strings.HasSuffix(p, ".txt") {
					event = telemetry.EventExportText
				}
				telemetry.Event(event, map[string]any{"preset": preset, "a4": a4, "blocks": len(ph.Screenplay.Blocks)})
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pdf, "pdf", false, "Write a PDF.")
	cmd.Flags().BoolVar(&txt, "txt", false, "Write plain text.")
	cmd.Flags().StringVar(&preset, "preset", string(export.PresetReading), "One of reading, shooting or draft.")
	cmd.Flags().StringVar(&name, "name", "", "Base file name (default screenplay).")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory; relative paths go under the project's exports folder.")
	cmd.Flags().BoolVar(&a4, "a4", false, "Use A4 instead of US Letter.")
	cmd.Flags().BoolVar(&sceneNumbers, "scene-numbers", false, "Print scene numbers in the margins.")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(export.PresetReading), string(export.PresetShooting), string(export.PresetDraft)}, cobra.ShellCompDirectiveNoFileComp
	})
	topLevel.AddCommand(cmd)
}
