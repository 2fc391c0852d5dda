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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/storage"
)

func addInit(topLevel *cobra.Command, ro *rootOptions) {
	var author string
	cmd := &cobra.Command{
		Use:   "init <dir> [title]",
		Short: "Create a new screenplay project.",
		Example: `
goscreenwriter init ./night-shift "Night Shift" --author "K. Lee"
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(filepath.Join(abs, storage.ManifestFileName)); err == nil {
				return fmt.Errorf("%s already holds a project", abs)
			}
			title := filepath.Base(abs)
			if len(args) == 2 {
				title = args[1]
			}
			sp := domain.Screenplay{
				Header: domain.Header{Title: strings.TrimSpace(title), Author: strings.TrimSpace(author)},
				Blocks: []domain.Block{},
			}
			ph, err := storage.InitProject(abs, sp)
			if err != nil {
				return err
			}
			if _, err := storage.ProjectID(ph.Root); err != nil {
				return err
			}
			if err := storage.BuildIndexIfEmpty(cmd.Context(), ph.Root, ph.Screenplay); err != nil {
				ro.log.Warn("index build failed", slog.Any("err", err))
			}
			ro.log.Info("project created", slog.String("root", ph.Root))
			fmt.Fprintln(cmd.OutOrStdout(), "Created project at", ph.Root)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Author shown on the title page.")
	topLevel.AddCommand(cmd)
}

func addOpen(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "open <dir>",
		Short: "Open a project, repair its index if needed and print a summary.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := ro.openProject(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			rebuilt, err := storage.DetectAndRebuildIndex(ctx, ph.Root, ph.Screenplay)
			if err != nil {
				ro.log.Warn("index check failed", slog.Any("err", err))
			}
			return printSummary(ctx, cmd, ph, rebuilt)
		},
	}
	topLevel.AddCommand(cmd)
}

func printSummary(ctx context.Context, cmd *cobra.Command, ph *storage.ProjectHandle, rebuilt bool) error {
	out := cmd.OutOrStdout()
	sp := ph.Screenplay
	counts := map[domain.BlockType]int{}
	for _, b := range sp.Blocks {
		counts[b.Type]++
	}
	id, err := storage.ProjectID(ph.Root)
	if err != nil {
		return err
	}
	title := sp.Header.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(out, "Title:    %s\n", title)
	if sp.Header.Author != "" {
		fmt.Fprintf(out, "Author:   %s\n", sp.Header.Author)
	}
	fmt.Fprintf(out, "Root:     %s\n", ph.Root)
	fmt.Fprintf(out, "ID:       %s\n", id)
	fmt.Fprintf(out, "Blocks:   %d\n", len(sp.Blocks))
	fmt.Fprintf(out, "Scenes:   %d\n", counts[domain.SceneHeading])
	fmt.Fprintf(out, "Dialogue: %d\n", counts[domain.Dialogue])
	if rebuilt {
		fmt.Fprintln(out, "Index:    rebuilt")
	}
	snap, ok, err := storage.GetLatestSnapshot(ctx, ph)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "Snapshot: %s (%d blocks)\n", snap.TS.Local().Format("2006-01-02 15:04"), len(snap.Blocks))
	}
	return nil
}
