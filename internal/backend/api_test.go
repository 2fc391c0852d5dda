/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"goscreenwriter/internal/config"
	"goscreenwriter/internal/domain"
)

// memRepo is an in-memory Repository for exercising the HTTP API.
type memRepo struct {
	mu      sync.Mutex
	items   map[string]domain.Screenplay
	version map[string]int64
	pingErr error
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]domain.Screenplay{}, version: map[string]int64{}}
}

func (m *memRepo) Ping(context.Context) error { return m.pingErr }

func (m *memRepo) ListScreenplays(context.Context) ([]Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Summary
	for id, sp := range m.items {
		out = append(out, Summary{StableID: id, Title: sp.Header.Title, Version: m.version[id]})
	}
	return out, nil
}

func (m *memRepo) LoadScreenplay(_ context.Context, id string) (domain.Screenplay, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.items[id]
	if !ok {
		return domain.Screenplay{}, 0, ErrNotFound
	}
	return sp, m.version[id], nil
}

func (m *memRepo) SaveScreenplay(_ context.Context, id string, sp domain.Screenplay) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = sp
	m.version[id]++
	return m.version[id], nil
}

func sampleScreenplay() domain.Screenplay {
	sp := domain.Screenplay{
		Header: domain.Header{Title: "Night Shift", Author: "K. Lee"},
		Blocks: []domain.Block{
			{ID: "s1", Type: domain.SceneHeading, Content: "INT. KITCHEN - NIGHT"},
			{ID: "a1", Type: domain.Action, Content: "Anna pours coffee."},
			{ID: "c1", Type: domain.Character, Content: "ANNA"},
			{ID: "d1", Type: domain.Dialogue, Content: "Where were you last night?"},
			{ID: "s2", Type: domain.SceneHeading, Content: "EXT. PIER - DAWN"},
			{ID: "a2", Type: domain.Action, Content: "Waves crash against the pier."},
		},
	}
	domain.Renumber(sp.Blocks)
	return sp
}

func newTestAPI(t *testing.T) (*memRepo, *Client) {
	t.Helper()
	repo := newMemRepo()
	srv := httptest.NewServer(NewHandler(repo, "test-secret"))
	t.Cleanup(srv.Close)
	return repo, NewClient(srv.URL+"/", "")
}

func TestClientPushFetchList(t *testing.T) {
	_, c := newTestAPI(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exp, err := c.RequestToken(ctx, "writer")
	if err != nil {
		t.Fatalf("RequestToken: %v", err)
	}
	if c.Token == "" || !exp.After(time.Now()) {
		t.Fatalf("unexpected token state: %q exp %v", c.Token, exp)
	}

	sp := sampleScreenplay()
	v, err := c.PushScreenplay(ctx, "night-shift", sp)
	if err != nil {
		t.Fatalf("PushScreenplay: %v", err)
	}
	if v != 1 {
		t.Fatalf("first push should be version 1, got %d", v)
	}
	if v, err = c.PushScreenplay(ctx, "night-shift", sp); err != nil || v != 2 {
		t.Fatalf("second push: v=%d err=%v", v, err)
	}

	env, err := c.FetchScreenplay(ctx, "night-shift")
	if err != nil {
		t.Fatalf("FetchScreenplay: %v", err)
	}
	if env.Version != 2 || !domain.SameBlocks(env.Screenplay.Blocks, sp.Blocks) {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	list, err := c.ListScreenplays(ctx)
	if err != nil {
		t.Fatalf("ListScreenplays: %v", err)
	}
	if len(list) != 1 || list[0].StableID != "night-shift" || list[0].Title != "Night Shift" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if _, err := c.FetchScreenplay(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	_, c := newTestAPI(t)
	ctx := context.Background()
	_, err := c.ListScreenplays(ctx)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	c.Token = "forged.token"
	if _, err := c.ListScreenplays(ctx); !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a forged token, got %v", err)
	}
}

func TestAPIRejectsInvalidManifest(t *testing.T) {
	repo, c := newTestAPI(t)
	ctx := context.Background()
	if _, err := c.RequestToken(ctx, "writer"); err != nil {
		t.Fatalf("RequestToken: %v", err)
	}
	body := `{"header":{},"blocks":[{"id":"x","type":"montage","content":"no"}]}`
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+"/api/screenplays/bad", strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if len(repo.items) != 0 {
		t.Fatalf("invalid manifest was stored")
	}
}

func TestAPIHealthEndpoints(t *testing.T) {
	repo, c := newTestAPI(t)
	get := func(path string) int {
		t.Helper()
		resp, err := http.Get(c.BaseURL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if code := get("/healthz"); code != http.StatusOK {
		t.Fatalf("healthz: %d", code)
	}
	if code := get("/version"); code != http.StatusOK {
		t.Fatalf("version: %d", code)
	}
	if code := get("/readyz"); code != http.StatusOK {
		t.Fatalf("readyz: %d", code)
	}
	repo.pingErr = errors.New("down")
	if code := get("/readyz"); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz with db down: %d", code)
	}
}

func TestNewClientFromConfig(t *testing.T) {
	c := NewClientFromConfig(config.BackendConfig{BaseURL: "https://example.test/", TimeoutMs: 250, TLSInsecure: true}, "tok")
	if c.BaseURL != "https://example.test" || c.Token != "tok" {
		t.Fatalf("unexpected client: %+v", c)
	}
	if c.client.Timeout != 250*time.Millisecond {
		t.Fatalf("timeout not applied: %v", c.client.Timeout)
	}
	if c.client.Transport == nil {
		t.Fatalf("expected custom transport for TLSInsecure")
	}
}
