/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import "testing"

func TestSplitAtGraphemes(t *testing.T) {
	cases := []struct {
		in            string
		k             int
		before, after string
	}{
		{"hello", 2, "he", "llo"},
		{"hello", 0, "", "hello"},
		{"hello", -3, "", "hello"},
		{"hello", 9, "hello", ""},
		{"👍🏽ok", 1, "👍🏽", "ok"},
		{"ét", 1, "é", "t"},
		{"", 1, "", ""},
	}
	for _, c := range cases {
		b, a := splitAt(c.in, c.k)
		if b != c.before || a != c.after {
			t.Errorf("splitAt(%q, %d) = %q, %q; want %q, %q", c.in, c.k, b, a, c.before, c.after)
		}
	}
	if n := textLen("a👍🏽é"); n != 3 {
		t.Errorf("textLen = %d, want 3", n)
	}
}

func TestRemapOffset(t *testing.T) {
	cases := []struct{ off, oldLen, newLen, want int }{
		{2, 4, 6, 3},
		{1, 4, 6, 2},
		{4, 4, 6, 6},
		{6, 6, 4, 4},
		{3, 0, 2, 2},
		{0, 0, 2, 0},
		{5, 10, 0, 0},
	}
	for _, c := range cases {
		if got := remapOffset(c.off, c.oldLen, c.newLen); got != c.want {
			t.Errorf("remapOffset(%d, %d, %d) = %d, want %d", c.off, c.oldLen, c.newLen, got, c.want)
		}
	}
}

func TestQueueDrainsEachContinuationOnce(t *testing.T) {
	var q Queue
	ran := 0
	q.Defer(func() {
		ran++
		q.Defer(func() { ran += 10 })
	})
	if n := q.Drain(); n != 1 || ran != 1 {
		t.Fatalf("first drain: n=%d ran=%d", n, ran)
	}
	if q.Len() != 1 {
		t.Fatalf("nested continuation should wait, Len=%d", q.Len())
	}
	if n := q.Drain(); n != 1 || ran != 11 {
		t.Fatalf("second drain: n=%d ran=%d", n, ran)
	}
	if n := q.Drain(); n != 0 {
		t.Fatalf("empty drain ran %d", n)
	}
}
