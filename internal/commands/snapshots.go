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
	"time"

	"github.com/spf13/cobra"

	"goscreenwriter/internal/storage"
)

func addSnapshots(topLevel *cobra.Command, ro *rootOptions) {
	var (
		limit   int
		prune   int
		take    bool
		restore bool
	)
	cmd := &cobra.Command{
		Use:   "snapshots <dir>",
		Short: "List, take, prune or restore block-list snapshots of a project.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := ro.openProject(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if take {
				if err := storage.SaveSnapshot(ctx, ph, ph.Screenplay.Blocks, time.Now()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Snapshot taken")
			}
			if restore {
				snap, ok, err := storage.GetLatestSnapshot(ctx, ph)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no snapshot in %s", ph.Root)
				}
				sp := ph.Screenplay
				sp.Blocks = snap.Blocks
				if err := storage.SaveScreenplay(ctx, ph, sp); err != nil {
					return err
				}
				fmt.Fprintf(out, "Restored snapshot %d from %s\n", snap.ID, snap.TS.Local().Format(time.DateTime))
			}
			if prune > 0 {
				n, err := storage.PruneOldSnapshots(ctx, ph, prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d snapshots\n", n)
			}
			list, err := storage.ListSnapshots(ctx, ph, limit)
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Fprintf(out, "%d\t%s\t%d blocks\n", s.ID, s.TS.Local().Format(time.DateTime), len(s.Blocks))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "How many snapshots to list.")
	cmd.Flags().IntVar(&prune, "prune", 0, "Keep only the newest N snapshots.")
	cmd.Flags().BoolVar(&take, "take", false, "Store a snapshot of the saved script first.")
	cmd.Flags().BoolVar(&restore, "restore", false, "Replace the script with the newest snapshot.")
	topLevel.AddCommand(cmd)
}
