/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerFormatsOneLine(t *testing.T) {
	var sb strings.Builder
	h := &consoleHandler{level: slog.LevelDebug, w: &sb}
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "element added", 0)
	r.AddAttrs(slog.String("kind", "text"), slog.Int("count", 3))
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "INF element added") {
		t.Fatalf("missing level/message: %q", out)
	}
	if !strings.Contains(out, "kind=text") || !strings.Contains(out, "count=3") {
		t.Fatalf("missing attrs: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected single line, got %q", out)
	}
}

func TestConsoleHandlerGroupsPrefixKeys(t *testing.T) {
	var sb strings.Builder
	var h slog.Handler = &consoleHandler{level: slog.LevelDebug, w: &sb}
	h = h.WithGroup("upload").WithAttrs([]slog.Attr{slog.String("file", "image.jpg")})
	r := slog.NewRecord(time.Time{}, slog.LevelWarn, "retrying", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(sb.String(), "upload.file=image.jpg") {
		t.Fatalf("expected grouped key, got %q", sb.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" info  ": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithComponentDoesNotPanic(t *testing.T) {
	Init(Options{Level: "debug", Format: "console"})
	l := WithComponent("canvas")
	WithOperation(l, "add").Debug("ok")
}
