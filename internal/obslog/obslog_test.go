package obslog

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestBuildJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := Build(Options{Level: "debug", Format: "json", Console: true}, &buf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l.Debug("grid_move", zap.String("input", "e2,e4"))
	_ = l.Sync()

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "grid_move" || rec["input"] != "e2,e4" || rec["level"] != "debug" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestBuildLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := Build(Options{Level: "warn", Format: "legacy", Console: true}, &buf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("level filter broken: %q", out)
	}
	if !strings.Contains(out, " | ") {
		t.Fatalf("legacy format uses the pipe separator: %q", out)
	}
}

func TestBuildFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "grid.log")
	l, err := Build(Options{Level: "info", Format: "console", File: path}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l.Info("to_file")
	_ = l.Sync()
}

func TestReplaceRestores(t *testing.T) {
	orig := L()
	l := zap.NewExample()
	restore := Replace(l)
	if L() != l {
		t.Fatalf("Replace did not install logger")
	}
	restore()
	if L() != orig {
		t.Fatalf("restore did not reinstate previous logger")
	}
}
