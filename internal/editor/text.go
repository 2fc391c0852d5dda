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

import (
	"math"

	"github.com/rivo/uniseg"
)

// textLen returns the length of s in grapheme clusters, the unit of every
// caret offset exchanged with the surface.
func textLen(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// splitAt splits s before the k-th grapheme cluster. k is clamped to [0, len].
func splitAt(s string, k int) (before, after string) {
	if k <= 0 {
		return "", s
	}
	g := uniseg.NewGraphemes(s)
	n := 0
	for g.Next() {
		if n == k {
			start, _ := g.Positions()
			return s[:start], s[start:]
		}
		n++
	}
	return s, ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// remapOffset moves an offset proportionally when content length changes:
// round(off*newLen/oldLen), clamped to [0, newLen]. With no old content the
// offset is only clamped.
func remapOffset(off, oldLen, newLen int) int {
	if oldLen <= 0 {
		return clamp(off, 0, newLen)
	}
	adj := int(math.Round(float64(off) * float64(newLen) / float64(oldLen)))
	return clamp(adj, 0, newLen)
}
