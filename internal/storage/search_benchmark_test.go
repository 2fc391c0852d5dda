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
	"fmt"
	"testing"
	"time"

	"goscreenwriter/internal/domain"
)

// benchScreenplay builds a screenplay of n scenes with a short exchange each.
func benchScreenplay(n int) domain.Screenplay {
	sp := domain.Screenplay{Header: domain.Header{Title: "Bench"}}
	for i := 0; i < n; i++ {
		sp.Blocks = append(sp.Blocks,
			domain.Block{ID: fmt.Sprintf("s%d", i), Type: domain.SceneHeading, Content: fmt.Sprintf("INT. ROOM %d - DAY", i)},
			domain.Block{ID: fmt.Sprintf("a%d", i), Type: domain.Action, Content: "Hello world benchmark"},
			domain.Block{ID: fmt.Sprintf("c%d", i), Type: domain.Character, Content: "ANNA"},
			domain.Block{ID: fmt.Sprintf("d%d", i), Type: domain.Dialogue, Content: "Nothing to report."},
		)
	}
	domain.Renumber(sp.Blocks)
	return sp
}

func BenchmarkSearchFTS(b *testing.B) {
	root := b.TempDir()
	sp := benchScreenplay(200)
	ph, err := InitProject(root, sp)
	if err != nil || ph == nil {
		b.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Search(ctx, root, SearchQuery{Text: "Hello", Limit: 20})
		if err != nil {
			b.Fatalf("Search: %v", err)
		}
	}
}

func BenchmarkRebuildIndex(b *testing.B) {
	root := b.TempDir()
	sp := benchScreenplay(200)
	ph, err := InitProject(root, sp)
	if err != nil || ph == nil {
		b.Fatalf("InitProject: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = RebuildIndex(ctx, root, sp)
		cancel()
	}
}
