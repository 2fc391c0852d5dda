/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"strings"
	"testing"
)

func indexedProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if _, err := InitProject(root, sampleScreenplay()); err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	return root
}

func blockIDs(res []SearchResult) string {
	ids := make([]string, 0, len(res))
	for _, r := range res {
		if r.BlockID == "" {
			ids = append(ids, r.Type)
			continue
		}
		ids = append(ids, r.BlockID)
	}
	return strings.Join(ids, ",")
}

func TestSearchText(t *testing.T) {
	root := indexedProject(t)
	ctx := context.Background()

	res, err := Search(ctx, root, SearchQuery{Text: "coffee"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res))
	}
	if !strings.Contains(res[0].Snippet, "[coffee]") {
		t.Fatalf("snippet should highlight the match: %q", res[0].Snippet)
	}
	if res[0].Type != "action" || res[0].Scene != 1 || res[0].Position != 1 {
		t.Fatalf("unexpected result: %+v", res[0])
	}

	// Header rows are searchable too.
	res, err = Search(ctx, root, SearchQuery{Text: "shift"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := blockIDs(res); got != "title" {
		t.Fatalf("expected the title row, got %s", got)
	}
}

func TestSearchFilters(t *testing.T) {
	root := indexedProject(t)
	ctx := context.Background()

	cases := []struct {
		name string
		q    SearchQuery
		want string
	}{
		{"types", SearchQuery{Types: []string{"dialogue"}}, "d1,d2"},
		{"character", SearchQuery{Character: "bob"}, "p1,d2"},
		{"character and text", SearchQuery{Character: "Anna", Text: "night"}, "d1"},
		{"scene from", SearchQuery{SceneFrom: 2}, "s2,a2"},
		{"scene range", SearchQuery{SceneFrom: 1, SceneTo: 1}, "s1,a1,c1,d1,c2,p1,d2,t1"},
		{"header types", SearchQuery{Types: []string{TypeTitle, TypeAuthor}}, "title,author"},
		{"page", SearchQuery{Limit: 2, Offset: 1}, "author,s1"},
		{"no match", SearchQuery{Text: "elephant"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Search(ctx, root, tc.q)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := blockIDs(res); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSearchWithoutTextReturnsFullText(t *testing.T) {
	root := indexedProject(t)
	res, err := Search(context.Background(), root, SearchQuery{Types: []string{"transition"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || res[0].Snippet != "CUT TO:" {
		t.Fatalf("unexpected transition result: %+v", res)
	}
}

func TestSceneOutline(t *testing.T) {
	root := indexedProject(t)
	res, err := SceneOutline(context.Background(), root)
	if err != nil {
		t.Fatalf("SceneOutline: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(res))
	}
	if res[0].Snippet != "INT. KITCHEN - NIGHT" || res[0].Scene != 1 {
		t.Fatalf("first scene wrong: %+v", res[0])
	}
	if res[1].Snippet != "EXT. PIER - DAWN" || res[1].Scene != 2 {
		t.Fatalf("second scene wrong: %+v", res[1])
	}
}

func TestSearchRequiresRoot(t *testing.T) {
	if _, err := Search(context.Background(), " ", SearchQuery{Text: "x"}); err == nil {
		t.Fatalf("expected error for empty root")
	}
	if placeholders(0) != "" || placeholders(3) != "?,?,?" {
		t.Fatalf("placeholders misbehave")
	}
}
