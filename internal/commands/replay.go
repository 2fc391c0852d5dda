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
	"time"

	"github.com/spf13/cobra"

	"goscreenwriter/internal/clipboard"
	"goscreenwriter/internal/editor"
	"goscreenwriter/internal/headless"
	"goscreenwriter/internal/hotkey"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/telemetry"
)

func addReplay(topLevel *cobra.Command, ro *rootOptions) {
	var (
		dryRun bool
		height float64
		show   bool
		prefix string
	)
	cmd := &cobra.Command{
		Use:   "replay <dir> <events.jsonl>",
		Short: "Play recorded editor events against a project without a window.",
		Long: `Replay feeds a JSON-lines file of editor events (content-changed, key-down,
click, format-change, ...) through the editor core on an in-memory surface,
then saves the resulting script unless --dry-run is set.`,
		Example: `
goscreenwriter replay ./night-shift session.jsonl --dry-run --show
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := ro.openProject(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			opts := ro.cfg.Editor.Options()
			opts.Clipboard = clipboard.NewMemory()
			opts.Logger = applog.WithComponent("editor")
			if prefix != "" {
				opts.NewID = editor.SequentialIDs(prefix)
			}
			surface := headless.New(height)
			ed := editor.New(surface, ph.Screenplay, opts)
			hk, err := hotkey.New(ed, ro.cfg.Editor.Hotkeys, applog.WithComponent("hotkey"))
			if err != nil {
				return err
			}
			hk.Attach(ed)

			start := time.Now()
			ctx := cmd.Context()
			st, err := headless.Replay(ctx, f, ed, surface, ro.log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Replayed %d events (%d suppressed, %d deferred); %d blocks\n", st.Events, st.Suppressed, st.Deferred, len(ed.Blocks()))
			if show {
				fmt.Fprint(out, surface.String())
			}
			telemetry.Event(telemetry.EventReplay, map[string]any{"events": st.Events, "duration_ms": time.Since(start)})
			if dryRun {
				return nil
			}
			if err := storage.SaveScreenplay(ctx, ph, ed.Screenplay()); err != nil {
				return err
			}
			ro.log.Info("replay saved", slog.String("root", ph.Root))
			fmt.Fprintln(out, "Saved", ph.ManifestPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not save the result.")
	cmd.Flags().BoolVar(&show, "show", false, "Print the resulting blocks.")
	cmd.Flags().StringVar(&prefix, "id-prefix", "", "Give new blocks ids <prefix>1, <prefix>2, ... so recorded events can refer to them.")
	cmd.Flags().Float64Var(&height, "height", 600, "Viewport height in pixels for auto-scroll.")
	topLevel.AddCommand(cmd)
}
