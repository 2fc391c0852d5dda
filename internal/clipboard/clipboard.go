/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package clipboard is the host clipboard contract used by copy and cut.
// Only plain text crosses the clipboard; screenplay structure is not preserved.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads and writes plain text.
type Clipboard interface {
	WriteAll(text string) error
	ReadAll() (string, error)
}

// ErrUnsupported is returned by the system clipboard when no clipboard
// utility is available (headless Linux without xclip/xsel/wl-clipboard).
var ErrUnsupported = errors.New("system clipboard unsupported")

type system struct{}

// System returns the OS clipboard.
func System() Clipboard { return system{} }

func (system) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

func (system) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

// Memory is an in-process clipboard for tests and headless sessions.
// Setting Err makes every call fail with it.
type Memory struct {
	mu   sync.Mutex
	text string
	Err  error
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	return nil
}

func (m *Memory) ReadAll() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.text, nil
}
