/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package commands wires the goscreenwriter command line with cobra. Each
// subcommand lives in its own file and registers itself on the root.
package commands

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"goscreenwriter/internal/config"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/telemetry"
)

// rootOptions carries what PersistentPreRunE loads for every subcommand.
type rootOptions struct {
	cfg   config.AppConfig
	token string
	log   *slog.Logger
}

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	ro := &rootOptions{cfg: config.Defaults()}
	cmd := &cobra.Command{
		Use:           "goscreenwriter",
		Short:         "Write screenplays as typed blocks; import, export, search and sync them.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ro.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	AddCommands(cmd, ro)
	return cmd
}

// AddCommands registers the subcommands on topLevel.
func AddCommands(topLevel *cobra.Command, ro *rootOptions) {
	addVersion(topLevel)
	addInit(topLevel, ro)
	addOpen(topLevel, ro)
	addImport(topLevel, ro)
	addReplay(topLevel, ro)
	addExport(topLevel, ro)
	addSearch(topLevel, ro)
	addSnapshots(topLevel, ro)
	addPush(topLevel, ro)
	addPull(topLevel, ro)
	addServe(topLevel, ro)
	addUI(topLevel, ro)
}

func (ro *rootOptions) setup(cmd *cobra.Command) error {
	cfg, tok, err := config.Load()
	if err == nil {
		ro.cfg, ro.token = cfg, tok
	}
	applog.Init(applog.Options{
		Level:     ro.cfg.Logging.Level,
		Format:    ro.cfg.Logging.Format,
		AddSource: ro.cfg.Logging.Source,
		File:      ro.cfg.Logging.File,
		Writer:    cmd.ErrOrStderr(),
	})
	ro.log = applog.WithComponent("cli")
	if err != nil {
		ro.log.Warn("config not loaded, using defaults", slog.Any("err", err))
	}

	tc := telemetry.FromEnv()
	tc.OptIn = tc.OptIn || ro.cfg.General.TelemetryOptIn
	telemetry.NewDefault(tc)
	return nil
}

// openProject resolves dir and opens the project there.
func (ro *rootOptions) openProject(dir string) (*storage.ProjectHandle, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	ro.log.Debug("open project", slog.String("root", abs))
	return storage.Open(abs)
}
