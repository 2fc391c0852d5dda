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
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goscreenwriter/internal/backend"
	"goscreenwriter/internal/config"
	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/version"
)

type memTokens struct {
	mu sync.Mutex
	m  map[string]string
}

func (k *memTokens) Get(service, key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.m[service+"/"+key], nil
}

func (k *memTokens) Set(service, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[service+"/"+key] = value
	return nil
}

func (k *memTokens) Delete(service, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.m, service+"/"+key)
	return nil
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvConfigDir, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvTelemetryOptIn, "")
	prev := config.SetTokenStore(&memTokens{m: map[string]string{}})
	t.Cleanup(func() { config.SetTokenStore(prev) })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const sampleScript = `Title: Night Shift
Author: K. Lee

INT. KITCHEN - NIGHT

Anna pours coffee.

ANNA
Where were you last night?

BOB
(quietly)
Out walking.

CUT TO:

EXT. PIER - DAWN

Waves crash against the pier.
`

func importScript(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "night")
	src := filepath.Join(t.TempDir(), "night.txt")
	require.NoError(t, os.WriteFile(src, []byte(sampleScript), 0o644))
	out, err := run(t, "import", dir, src)
	require.NoError(t, err)
	require.Contains(t, out, "Imported ")
	return dir
}

func TestVersionShort(t *testing.T) {
	isolate(t)
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.String()+"\n", out)
}

func TestInitAndOpen(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "proj")

	out, err := run(t, "init", dir, "Night Shift", "--author", "K. Lee")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project at")

	out, err = run(t, "open", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Title:    Night Shift")
	assert.Contains(t, out, "Author:   K. Lee")
	assert.Contains(t, out, "Blocks:   0")

	id, err := storage.ProjectID(dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ID:       "+id)

	_, err = run(t, "init", dir)
	assert.Error(t, err, "init over an existing project must fail")
}

func TestImportThenSearch(t *testing.T) {
	isolate(t)
	dir := importScript(t)

	ph, err := storage.Open(dir)
	require.NoError(t, err)
	assert.Equal(t, "Night Shift", ph.Screenplay.Header.Title)
	var scenes int
	for _, b := range ph.Screenplay.Blocks {
		if b.Type == domain.SceneHeading {
			scenes++
		}
	}
	assert.Equal(t, 2, scenes)

	out, err := run(t, "search", dir, "coffee")
	require.NoError(t, err)
	assert.Contains(t, out, "[coffee]")

	out, err = run(t, "search", dir, "--type", "dialogue", "--character", "bob", "--json")
	require.NoError(t, err)
	var res []storage.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 1)
	assert.Equal(t, "Out walking.", res[0].Snippet)
	assert.Equal(t, "BOB", res[0].Speaker)

	out, err = run(t, "search", dir, "--outline")
	require.NoError(t, err)
	assert.Contains(t, out, "INT. KITCHEN - NIGHT")
	assert.Contains(t, out, "EXT. PIER - DAWN")
}

func TestExportFormats(t *testing.T) {
	isolate(t)
	dir := importScript(t)

	out, err := run(t, "export", dir, "--txt", "--pdf", "--name", "draft1")
	require.NoError(t, err)
	paths := strings.Fields(out)
	require.Len(t, paths, 2)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		assert.Equal(t, "draft1", strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
	}

	_, err = run(t, "export", dir, "--preset", "bogus")
	assert.Error(t, err)
}

func TestReplaySavesEditedScript(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "replay")
	_, err := storage.InitProject(dir, domain.Screenplay{Blocks: []domain.Block{{ID: "a", Type: domain.Action}}})
	require.NoError(t, err)

	events := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(events, []byte(`# a short scene
{"type":"content-changed","block":"a","content":"int. lab - day"}
{"type":"selection-change","startBlock":"a","startOffset":14,"endBlock":"a","endOffset":14}
{"type":"key-down","block":"a","key":"Enter"}
{"type":"content-changed","block":"r1","content":"bob"}
{"type":"key-down","block":"r1","key":"Tab"}
{"type":"selection-change","startBlock":"r1","startOffset":3,"endBlock":"r1","endOffset":3}
{"type":"key-down","block":"r1","key":"Enter"}
{"type":"content-changed","block":"r2","content":"Hello."}
`), 0o644))

	out, err := run(t, "replay", dir, events, "--id-prefix", "r", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Replayed 8 events")
	ph, err := storage.Open(dir)
	require.NoError(t, err)
	assert.Len(t, ph.Screenplay.Blocks, 1, "dry run must not save")

	_, err = run(t, "replay", dir, events, "--id-prefix", "r")
	require.NoError(t, err)
	ph, err = storage.Open(dir)
	require.NoError(t, err)
	var got []string
	for _, b := range ph.Screenplay.Blocks {
		got = append(got, string(b.Type)+":"+b.Content)
	}
	assert.Equal(t, []string{"scene-heading:int. lab - day", "character:BOB", "dialogue:Hello."}, got)
}

func TestSnapshotsTakeAndPrune(t *testing.T) {
	isolate(t)
	dir := importScript(t)
	for i := 0; i < 3; i++ {
		_, err := run(t, "snapshots", dir, "--take")
		require.NoError(t, err)
	}
	out, err := run(t, "snapshots", dir, "--prune", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 2 snapshots")
	assert.Equal(t, 1, strings.Count(out, " blocks\n"))
}

// memRepo is a minimal backend.Repository for the push/pull round trip.
type memRepo struct {
	mu    sync.Mutex
	items map[string]domain.Screenplay
	ver   map[string]int64
}

func (m *memRepo) Ping(context.Context) error { return nil }

func (m *memRepo) ListScreenplays(context.Context) ([]backend.Summary, error) { return nil, nil }

func (m *memRepo) LoadScreenplay(_ context.Context, id string) (domain.Screenplay, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.items[id]
	if !ok {
		return domain.Screenplay{}, 0, backend.ErrNotFound
	}
	return sp, m.ver[id], nil
}

func (m *memRepo) SaveScreenplay(_ context.Context, id string, sp domain.Screenplay) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = sp
	m.ver[id]++
	return m.ver[id], nil
}

func TestPushAndPullOverHTTP(t *testing.T) {
	isolate(t)
	repo := &memRepo{items: map[string]domain.Screenplay{}, ver: map[string]int64{}}
	srv := httptest.NewServer(backend.NewHandler(repo, "test-secret"))
	t.Cleanup(srv.Close)

	dir := importScript(t)
	out, err := run(t, "push", dir, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "as version 1")

	id, err := storage.ProjectID(dir)
	require.NoError(t, err)
	require.Contains(t, repo.items, id)

	other := filepath.Join(t.TempDir(), "copy")
	_, err = run(t, "init", other)
	require.NoError(t, err)
	out, err = run(t, "pull", other, "--server", srv.URL, "--id", id)
	require.NoError(t, err)
	assert.Contains(t, out, "version 1")

	ph, err := storage.Open(other)
	require.NoError(t, err)
	assert.Equal(t, repo.items[id].Blocks, ph.Screenplay.Blocks)
}
