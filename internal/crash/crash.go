/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into a crash report file with a short canvas
// summary, so a lost editing session at least leaves a diagnosable trace.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"invitestudio/internal/canvas"
	applog "invitestudio/internal/log"
	"invitestudio/internal/telemetry"
	"invitestudio/internal/version"
)

// ReportsDirName collects crash reports under the given root.
const ReportsDirName = "crash-reports"

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs an error with stacktrace and writes a
// report file. store may be nil; when present, a summary of the canvas is
// included so reports can be matched to what was on screen.
//
// Usage: defer func(){ crash.Recover(root, store) }()
func Recover(root string, store *canvas.Store) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(root, store, r, stack)

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

func writeReport(root string, store *canvas.Store, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if root != "" {
		dir = filepath.Join(root, ReportsDirName)
		_ = os.MkdirAll(dir, 0o755)
	}
	stamp := time.Now().Format("20060102-150405")
	fname := fmt.Sprintf("crash-%s.log", stamp)
	path := filepath.Join(dir, fname)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Invite Studio Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if store != nil {
		c := store.Snapshot()
		counts := map[canvas.Kind]int{}
		for i := range c.Elements {
			counts[c.Elements[i].Kind]++
		}
		_, _ = fmt.Fprintf(&buf, "Canvas: version=%d elements=%d", store.Version(), len(c.Elements))
		for _, k := range []canvas.Kind{canvas.KindText, canvas.KindShape, canvas.KindImage, canvas.KindIcon} {
			if counts[k] > 0 {
				_, _ = fmt.Fprintf(&buf, " %s=%d", k, counts[k])
			}
		}
		_, _ = fmt.Fprintf(&buf, "\n")
		if c.DesignID != "" {
			_, _ = fmt.Fprintf(&buf, "DesignID: %s\n", c.DesignID)
		}
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	// write to file
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()

	// optionally upload anonymized crash report (opt-in via env)
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
