/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goscreenwriter/internal/domain"
	"goscreenwriter/internal/storage"
)

// TestRecover_PanickingFunc ensures Recover handles a panic, writes a report,
// autosaves, and does not terminate the test process due to injected exitFn.
func TestRecover_PanickingFunc(t *testing.T) {
	var out bytes.Buffer
	oldStderr, oldExit := stderr, exitFn
	stderr = &out
	called := 0
	exitFn = func(code int) { called = code }
	t.Cleanup(func() { stderr, exitFn = oldStderr, oldExit })

	root := t.TempDir()
	ph, err := storage.InitProject(root, domain.Screenplay{
		Header: domain.Header{Title: "Crash"},
		Blocks: []domain.Block{{ID: "s1", Type: domain.SceneHeading, Content: "INT. LAB - DAY"}},
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	func() {
		defer Recover(ph)
		panic("boom")
	}()

	bdir := filepath.Join(root, storage.BackupsDirName)
	files, _ := os.ReadDir(bdir)
	var report string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			report = filepath.Join(bdir, f.Name())
		}
	}
	if report == "" {
		t.Fatalf("expected crash report file under backups dir")
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", b)
	}
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
	if !strings.Contains(out.String(), report) {
		t.Fatalf("stderr does not name the report: %q", out.String())
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	oldExit := exitFn
	called := false
	exitFn = func(int) { called = true }
	t.Cleanup(func() { exitFn = oldExit })

	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatalf("exit called without a panic")
	}
}

func TestReportUsesLateBoundHandle(t *testing.T) {
	var out bytes.Buffer
	oldStderr, oldExit := stderr, exitFn
	stderr = &out
	exitFn = func(int) {}
	t.Cleanup(func() { stderr, exitFn = oldStderr, oldExit })

	root := t.TempDir()
	var ph *storage.ProjectHandle
	func() {
		defer func() {
			if r := recover(); r != nil {
				Report(ph, r)
			}
		}()
		ph = &storage.ProjectHandle{Root: root, ManifestPath: filepath.Join(root, storage.ManifestFileName)}
		panic("late")
	}()
	files, _ := os.ReadDir(filepath.Join(root, storage.BackupsDirName))
	var crashes, autosaves int
	for _, f := range files {
		switch {
		case strings.HasPrefix(f.Name(), "crash-"):
			crashes++
		case strings.HasPrefix(f.Name(), "autosave-crash-"):
			autosaves++
		}
	}
	if crashes != 1 || autosaves != 1 {
		t.Fatalf("crash reports=%d autosaves=%d, want 1 and 1", crashes, autosaves)
	}
}
