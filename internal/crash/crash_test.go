package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"invitestudio/internal/canvas"
	"invitestudio/internal/vector"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport("", nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Invite Studio Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportIncludesCanvasSummary(t *testing.T) {
	root := t.TempDir()
	store := canvas.NewStore()
	if _, err := store.Add(canvas.KindText, canvas.Init{Text: canvas.TextAttrs{Content: "hi"}}.At(vector.Pt{X: 10, Y: 10})); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Add(canvas.KindShape, canvas.Init{Shape: canvas.ShapeAttrs{Shape: canvas.ShapeStar}}.At(vector.Pt{X: 40, Y: 40})); err != nil {
		t.Fatalf("add: %v", err)
	}

	path, err := writeReport(root, store, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if !strings.Contains(path, filepath.Join(root, ReportsDirName)) {
		t.Fatalf("expected crash report under reports dir, got %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "elements=2") || !strings.Contains(s, "text=1") || !strings.Contains(s, "shape=1") {
		t.Fatalf("canvas summary missing: %s", s)
	}
}
