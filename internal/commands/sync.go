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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"goscreenwriter/internal/backend"
	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/telemetry"
)

// remote is the part of the backend both the HTTP client and a direct
// Postgres store provide.
type remote interface {
	push(ctx context.Context, id string, sp domain.Screenplay) (int64, error)
	pull(ctx context.Context, id string) (domain.Screenplay, int64, error)
	close() error
}

type storeRemote struct{ st *backend.Store }

func (r storeRemote) push(ctx context.Context, id string, sp domain.Screenplay) (int64, error) {
	return r.st.SaveScreenplay(ctx, id, sp)
}

func (r storeRemote) pull(ctx context.Context, id string) (domain.Screenplay, int64, error) {
	return r.st.LoadScreenplay(ctx, id)
}

func (r storeRemote) close() error { return r.st.Close() }

type clientRemote struct{ c *backend.Client }

func (r clientRemote) push(ctx context.Context, id string, sp domain.Screenplay) (int64, error) {
	return r.c.PushScreenplay(ctx, id, sp)
}

func (r clientRemote) pull(ctx context.Context, id string) (domain.Screenplay, int64, error) {
	env, err := r.c.FetchScreenplay(ctx, id)
	if err != nil {
		return domain.Screenplay{}, 0, err
	}
	return env.Screenplay, env.Version, nil
}

func (r clientRemote) close() error { return nil }

type remoteOptions struct {
	dsn    string
	server string
}

func (o *remoteOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.dsn, "dsn", "", "Postgres DSN; talk to the database directly instead of the HTTP backend.")
	cmd.Flags().StringVar(&o.server, "server", "", "Backend base URL (default from config backend.base_url).")
}

// connect opens the Postgres store when a DSN is given, otherwise an HTTP
// client that fetches a token when none is stored.
func (o *remoteOptions) connect(ctx context.Context, ro *rootOptions) (remote, error) {
	if o.dsn != "" {
		st, err := backend.OpenStore(ctx, o.dsn)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return storeRemote{st}, nil
	}
	bc := ro.cfg.Backend
	if o.server != "" {
		bc.BaseURL = o.server
	}
	c := backend.NewClientFromConfig(bc, ro.token)
	if c.Token == "" {
		subject := os.Getenv("USER")
		if _, err := c.RequestToken(ctx, subject); err != nil {
			return nil, fmt.Errorf("request token: %w", err)
		}
	}
	return clientRemote{c}, nil
}

func addPush(topLevel *cobra.Command, ro *rootOptions) {
	ropts := &remoteOptions{}
	cmd := &cobra.Command{
		Use:   "push <dir>",
		Short: "Upload a project's script to the backend.",
		Example: `
goscreenwriter push ./night-shift
goscreenwriter push ./night-shift --dsn postgres://localhost/goscreenwriter
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := ro.openProject(args[0])
			if err != nil {
				return err
			}
			id, err := storage.ProjectID(ph.Root)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), ro.cfg.Backend.Timeout())
			defer cancel()
			r, err := ropts.connect(ctx, ro)
			if err != nil {
				return err
			}
			defer func() { _ = r.close() }()

			ver, err := r.push(ctx, id, ph.Screenplay)
			if err != nil {
				return err
			}
			ro.log.Info("pushed", slog.String("id", id), slog.Int64("version", ver))
			telemetry.Event(telemetry.EventBackendPush, map[string]any{"blocks": len(ph.Screenplay.Blocks), "direct": ropts.dsn != ""})
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s as version %d\n", id, ver)
			return nil
		},
	}
	ropts.addFlags(cmd)
	topLevel.AddCommand(cmd)
}

func addPull(topLevel *cobra.Command, ro *rootOptions) {
	ropts := &remoteOptions{}
	var id string
	cmd := &cobra.Command{
		Use:   "pull <dir>",
		Short: "Replace a project's script with the backend copy.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := ro.openProject(args[0])
			if err != nil {
				return err
			}
			if id == "" {
				if id, err = storage.ProjectID(ph.Root); err != nil {
					return err
				}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), ro.cfg.Backend.Timeout())
			defer cancel()
			r, err := ropts.connect(ctx, ro)
			if err != nil {
				return err
			}
			defer func() { _ = r.close() }()

			sp, ver, err := r.pull(ctx, id)
			if err != nil {
				return err
			}
			if err := storage.SaveScreenplay(ctx, ph, sp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s version %d (%d blocks)\n", id, ver, len(sp.Blocks))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Screenplay id on the backend (default: this project's id).")
	ropts.addFlags(cmd)
	topLevel.AddCommand(cmd)
}

func addServe(topLevel *cobra.Command, ro *rootOptions) {
	var addr, dsn string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync backend (HTTP API over Postgres).",
		Long: `Serve runs the backend API. Configuration comes from GSW_PG_DSN (or
DATABASE_URL), PORT or ADDR and GSW_AUTH_SECRET; flags override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := backend.ServerConfigFromEnv()
			if addr != "" {
				cfg.Addr = addr
			}
			if dsn != "" {
				cfg.DBURL = dsn
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ro.log.Info("starting backend", slog.String("addr", cfg.Addr))
			return backend.Serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, e.g. :8080.")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres DSN.")
	topLevel.AddCommand(cmd)
}
