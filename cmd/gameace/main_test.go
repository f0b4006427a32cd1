package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chlorine05/GameAceSelection/internal/config"
	"github.com/chlorine05/GameAceSelection/internal/quiz"
)

func TestStatsConfigFromFlags(t *testing.T) {
	flags := historyFlags{mode: "Hard", since: "2026-03-01", last: 5, curveWindow: 3}
	cfg, err := flags.statsConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != "hard" || cfg.Last != 5 || cfg.CurveWindow != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Day() != 1 || cfg.Since.Month() != 3 {
		t.Fatalf("unexpected since %v", cfg.Since)
	}
}

func TestStatsConfigRejectsBadFlags(t *testing.T) {
	for _, flags := range []historyFlags{
		{mode: "extreme", curveWindow: 1},
		{since: "03/01/2026", curveWindow: 1},
		{last: -1, curveWindow: 1},
		{curveWindow: 0},
	} {
		if _, err := flags.statsConfig(); err == nil {
			t.Fatalf("expected error for %+v", flags)
		}
	}
}

func TestRenderModes(t *testing.T) {
	var buf bytes.Buffer
	if err := renderModes(&buf, quiz.DefaultRules()); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "easy") || !strings.Contains(lines[1], "10-30") {
		t.Fatalf("unexpected easy row %q", lines[1])
	}
	if !strings.HasPrefix(lines[3], "hard") || !strings.Contains(lines[3], "100-300") {
		t.Fatalf("unexpected hard row %q", lines[3])
	}
}

func TestEnsureConfigFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gameace", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("create: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != config.Template {
		t.Fatalf("expected template to be written")
	}
	if err := os.WriteFile(path, []byte("[play]\nmode = \"hard\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("second call: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "hard") {
		t.Fatalf("existing config was overwritten")
	}
}

func TestApplyPlayConfigRespectsFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("mode", "medium"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	mode := "hard"
	minutes := 3
	applyPlayConfig(cmd, config.PlayConfig{Mode: &mode, SessionMinutes: &minutes})
	if playMode != "medium" {
		t.Fatalf("flag should win over file, got %q", playMode)
	}
	if playSessionMinutes != 3 {
		t.Fatalf("file value should apply, got %d", playSessionMinutes)
	}
}
