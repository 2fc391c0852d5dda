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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/editor"
	"goscreenwriter/internal/script"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/telemetry"
)

func addImport(topLevel *cobra.Command, ro *rootOptions) {
	var strict bool
	cmd := &cobra.Command{
		Use:   "import <dir> <file>",
		Short: "Import a plain-text screenplay into a project, creating it if needed.",
		Long: `Import classifies each paragraph of a plain-text screenplay (Fountain-like:
scene headings, character cues, parentheticals, dialogue, transitions) into
blocks. An existing project's script is replaced; its previous manifest is kept
as a backup.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			sp, perrs := script.Parse(string(raw), editor.UUIDs)
			for _, pe := range perrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", args[1], pe)
			}
			if strict && len(perrs) > 0 {
				return fmt.Errorf("%d problems in %s", len(perrs), args[1])
			}
			domain.Renumber(sp.Blocks)

			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var ph *storage.ProjectHandle
			if _, statErr := os.Stat(filepath.Join(abs, storage.ManifestFileName)); statErr == nil {
				if ph, err = storage.Open(abs); err != nil {
					return err
				}
				if sp.Header == (domain.Header{}) {
					sp.Header = ph.Screenplay.Header
				}
				err = storage.SaveScreenplay(ctx, ph, sp)
			} else {
				if ph, err = storage.InitProject(abs, sp); err == nil {
					err = storage.RebuildIndex(ctx, ph.Root, ph.Screenplay)
				}
			}
			if err != nil {
				return err
			}
			ro.log.Info("imported", slog.String("root", ph.Root), slog.Int("blocks", len(sp.Blocks)))
			telemetry.Event(telemetry.EventImport, map[string]any{"blocks": len(sp.Blocks), "warnings": len(perrs)})
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d blocks into %s\n", len(sp.Blocks), ph.Root)
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of warning when the text has problems.")
	topLevel.AddCommand(cmd)
}
