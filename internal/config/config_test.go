package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/quiz"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be fine, got %v", err)
	}
	if cfg.Play.Mode != nil || len(cfg.Modes) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigParsesSections(t *testing.T) {
	path := writeConfig(t, `
[play]
mode = "hard"
session-minutes = 5
sound = false

[modes.easy]
questions = 4
a = [1, 9]

[rating]
three = 95.0
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Play.Mode == nil || *cfg.Play.Mode != "hard" {
		t.Fatalf("unexpected mode %+v", cfg.Play.Mode)
	}
	if cfg.Play.Sound == nil || *cfg.Play.Sound {
		t.Fatalf("expected sound=false")
	}
	if cfg.Play.QuestionSeconds != nil {
		t.Fatalf("expected absent key to stay nil")
	}
	easy := cfg.Modes["easy"]
	if easy.Questions == nil || *easy.Questions != 4 || len(easy.A) != 2 {
		t.Fatalf("unexpected easy override %+v", easy)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[play]\nwords = 3\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "play.words") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigTemplateIsValid(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, Template)); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
}

func TestBuildRulesAppliesOverrides(t *testing.T) {
	questions, reward, three := 4, 50, 95.0
	rules, err := BuildRules(model.Config{SessionMinutes: 3, QuestionSeconds: 20}, FileConfig{
		Modes:  map[string]ModeConfig{"Easy": {Questions: &questions, Reward: &reward, C: []int{1, 2}}},
		Rating: RatingConfig{Three: &three},
	})
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	if rules.SessionBudget != 3*time.Minute || rules.QuestionBudget != 20*time.Second {
		t.Fatalf("unexpected budgets %s %s", rules.SessionBudget, rules.QuestionBudget)
	}
	easy := rules.Rounds[quiz.Easy]
	if easy.QuestionCount != 4 || easy.RewardPerCorrect != 50 || easy.C != (quiz.Range{Min: 1, Max: 2}) {
		t.Fatalf("unexpected easy round %+v", easy)
	}
	if rules.Bands.Three != 95 || rules.Bands.Two != 70 {
		t.Fatalf("unexpected bands %+v", rules.Bands)
	}
	if rules.Rounds[quiz.Hard] != quiz.DefaultRules().Rounds[quiz.Hard] {
		t.Fatalf("expected hard untouched")
	}
}

func TestBuildRulesShortQuestionDisablesWarning(t *testing.T) {
	rules, err := BuildRules(model.Config{QuestionSeconds: 3}, FileConfig{})
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	if rules.WarningAt != 0 {
		t.Fatalf("expected warning disabled, got %s", rules.WarningAt)
	}
}

func TestBuildRulesRejectsInvalid(t *testing.T) {
	zero := 0
	if _, err := BuildRules(model.Config{}, FileConfig{Modes: map[string]ModeConfig{"hard": {Questions: &zero}}}); err == nil {
		t.Fatalf("expected zero questions to fail")
	}
	if _, err := BuildRules(model.Config{}, FileConfig{Modes: map[string]ModeConfig{"extreme": {}}}); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
	if _, err := BuildRules(model.Config{}, FileConfig{Modes: map[string]ModeConfig{"easy": {A: []int{1}}}}); err == nil {
		t.Fatalf("expected malformed range to fail")
	}
}

func TestPathsHonorOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	t.Setenv(EnvDataDir, "/tmp/gameace-data")
	if got := DefaultConfigPath(); got != "/tmp/custom.toml" {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/gameace-data", "gameace.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/gameace-data", "gameace.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}

func TestPathsUseXDG(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "gameace", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "gameace", "gameace.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestLoadEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GAMEACE_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)
	if err := LoadEnv(); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv(EnvLogLevel); got != "debug" {
		t.Fatalf("expected debug from .env, got %q", got)
	}
}

func TestLoadEnvWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())
	if err := LoadEnv(); err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
