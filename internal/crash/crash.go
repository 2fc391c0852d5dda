/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into a report file plus a best-effort autosave of
// the open screenplay, so a crash never costs more than the last few edits.
package crash

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"goscreenwriter/internal/domain"
	applog "goscreenwriter/internal/log"
	"goscreenwriter/internal/storage"
	"goscreenwriter/internal/telemetry"
	"goscreenwriter/internal/version"
)

// exitFn and stderr are swapped in tests.
var (
	exitFn           = os.Exit
	stderr io.Writer = os.Stderr
)

// Recover captures a panic, logs it with a stacktrace, writes a report file
// and autosaves the project manifest if ph is set. It then exits with code 2.
//
// Usage: defer crash.Recover(ph)
func Recover(ph *storage.ProjectHandle) {
	r := recover()
	if r == nil {
		return
	}
	handle(ph, r, debug.Stack())
}

// Report handles a value already taken from recover(). Hosts whose deferred
// function must do more than call Recover use it:
//
//	defer func() {
//		if r := recover(); r != nil {
//			crash.Report(current(), r)
//		}
//	}()
func Report(ph *storage.ProjectHandle, r any) { handle(ph, r, debug.Stack()) }

// Go runs fn on a new goroutine guarded by Recover.
func Go(ph *storage.ProjectHandle, fn func()) {
	go func() {
		defer Recover(ph)
		fn()
	}()
}

func handle(ph *storage.ProjectHandle, r any, stack []byte) {
	l := applog.WithComponent("crash")
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(ph, r, stack)
	if err != nil {
		l.Error("crash report write failed", slog.Any("err", err), slog.String("path", reportPath))
	}
	if ph != nil {
		if path, err := storage.AutosaveCrashSnapshot(ph); err != nil {
			l.Error("autosave crash snapshot failed", slog.Any("err", err))
		} else {
			l.Info("autosave crash snapshot written", slog.String("path", path))
		}
	}

	_, _ = fmt.Fprintf(stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

// report renders the crash report. Screenplay text is never included; only
// counts, so the report can be uploaded without leaking the script.
func report(ph *storage.ProjectHandle, panicVal any, stack []byte, now time.Time) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Go Screenwriter Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if ph != nil {
		scenes := 0
		for _, b := range ph.Screenplay.Blocks {
			if b.Type == domain.SceneHeading {
				scenes++
			}
		}
		fmt.Fprintf(&buf, "ProjectRoot: %s\n", ph.Root)
		fmt.Fprintf(&buf, "Manifest: %s\n", ph.ManifestPath)
		fmt.Fprintf(&buf, "Blocks: %d\nScenes: %d\n", len(ph.Screenplay.Blocks), scenes)
	}
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", stack)
	return buf.Bytes()
}

func writeReport(ph *storage.ProjectHandle, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if ph != nil && ph.Root != "" {
		dir = filepath.Join(ph.Root, storage.BackupsDirName)
		_ = os.MkdirAll(dir, 0o755)
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", now.Format("20060102-150405.000")))

	body := report(ph, panicVal, stack, now)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(body); err != nil {
		return path, err
	}
	_ = f.Sync()

	// opt-in only; a no-op unless GSW_TELEMETRY_OPT_IN and GSW_CRASH_UPLOAD_URL are set
	telemetry.UploadCrash(body)
	return path, nil
}
