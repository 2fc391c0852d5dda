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

import "errors"

var (
	// ErrUnknownBlock is returned when an operation names a block id that is not in the list.
	ErrUnknownBlock = errors.New("unknown block")
	// ErrNoActiveBlock is returned by operations on the active block when none is set.
	ErrNoActiveBlock = errors.New("no active block")
	// ErrInvalidType is returned for block types outside the seven screenplay elements.
	ErrInvalidType = errors.New("invalid block type")
)
