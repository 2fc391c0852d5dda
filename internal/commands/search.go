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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/storage"
)

func addSearch(topLevel *cobra.Command, ro *rootOptions) {
	var (
		q       storage.SearchQuery
		types   []string
		outline bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "search <dir> [query...]",
		Short: "Full-text search over a project's blocks.",
		Example: `
goscreenwriter search ./night-shift coffee
goscreenwriter search ./night-shift --type dialogue --character anna
goscreenwriter search ./night-shift --outline
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := ro.openProject(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := storage.DetectAndRebuildIndex(ctx, ph.Root, ph.Screenplay); err != nil {
				ro.log.Warn("index check failed", slog.Any("err", err))
			}
			q.Text = strings.Join(args[1:], " ")
			for _, t := range types {
				q.Types = append(q.Types, strings.TrimSpace(t))
			}

			var res []storage.SearchResult
			if outline {
				res, err = storage.SceneOutline(ctx, ph.Root)
			} else {
				res, err = storage.Search(ctx, ph.Root, q)
			}
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENE\tTYPE\tSPEAKER\tTEXT")
			for _, r := range res {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Scene, r.Type, r.Speaker, r.Snippet)
			}
			return tw.Flush()
		},
	}
	var blockTypes []string
	for _, t := range domain.BlockTypes {
		blockTypes = append(blockTypes, string(t))
	}
	cmd.Flags().StringSliceVar(&types, "type", nil, "Restrict to block types ("+strings.Join(blockTypes, ", ")+").")
	cmd.Flags().StringVar(&q.Character, "character", "", "Only dialogue and parentheticals spoken by this character.")
	cmd.Flags().IntVar(&q.SceneFrom, "scene-from", 0, "First scene number to include.")
	cmd.Flags().IntVar(&q.SceneTo, "scene-to", 0, "Last scene number to include.")
	cmd.Flags().IntVar(&q.Limit, "limit", 50, "Maximum results.")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "Skip this many results.")
	cmd.Flags().BoolVar(&outline, "outline", false, "List scene headings instead of searching.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON.")
	topLevel.AddCommand(cmd)
}
