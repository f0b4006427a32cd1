package statsui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/store"
)

func openStore(t *testing.T, modes ...string) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "gameace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	base := time.Now().Add(-time.Hour)
	for i, mode := range modes {
		end := base.Add(time.Duration(i) * time.Minute)
		_, err := st.InsertSession(context.Background(), model.SessionRecord{
			UUID:          fmt.Sprintf("s-%d", i),
			StartedAt:     end.Add(-time.Minute),
			EndedAt:       end,
			Mode:          mode,
			QuestionCount: 2,
			Solved:        2,
			Correct:       1,
			Wrong:         1,
			Points:        10 * (i + 1),
			Stars:         1,
			BestStreak:    1,
			AvgCorrectMs:  2000,
			DurationMs:    60000,
			EndReason:     "completed",
			Answers: []model.AnswerRecord{
				{Seq: 1, Prompt: "10 + 1 - 0", Expected: 11, TimedOut: true, ElapsedMs: 60000},
				{Seq: 2, Prompt: "10 + 2 - 0", Expected: 12, Correct: true, ElapsedMs: 2000},
			},
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return st
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *Model, s string) {
	switch s {
	case "enter":
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	case "tab":
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
	case "right":
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	default:
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

func TestEmptyHistory(t *testing.T) {
	m := sized(NewModel(openStore(t), model.StatsConfig{CurveWindow: 10}))
	view := m.View()
	if !strings.Contains(view, "No sessions found.") {
		t.Fatalf("expected empty message, got:\n%s", view)
	}
	if len(strings.Split(view, "\n")) != 40 {
		t.Fatalf("expected the view to fill the terminal height")
	}
}

func TestTabsShowHistory(t *testing.T) {
	m := sized(NewModel(openStore(t, "easy", "hard", "easy"), model.StatsConfig{CurveWindow: 10}))
	if !strings.Contains(m.View(), "Sessions") || !strings.Contains(m.View(), "Best Points") || !strings.Contains(m.View(), "Points trend") {
		t.Fatalf("expected overview cards:\n%s", m.View())
	}

	press(m, "right")
	if m.activeTab != tabSessions {
		t.Fatalf("expected sessions tab, got %d", m.activeTab)
	}
	rows := m.tables[tabSessions].table.Rows()
	if len(rows) != 3 || rows[0][6] != "30" {
		t.Fatalf("expected newest session first, got %v", rows)
	}

	press(m, "right")
	modes := m.tables[tabModes].table.Rows()
	if len(modes) != 2 || modes[0][0] != "easy" || modes[0][1] != "2" {
		t.Fatalf("unexpected mode rows %v", modes)
	}

	press(m, "right")
	if !strings.Contains(m.View(), "timeout") {
		t.Fatalf("expected slowest answers to list timeouts:\n%s", m.View())
	}
}

func TestFilterForm(t *testing.T) {
	m := sized(NewModel(openStore(t, "easy", "hard"), model.StatsConfig{CurveWindow: 10}))
	press(m, "/")
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	press(m, "extreme")
	press(m, "enter")
	if m.filterError == "" || !m.filterMode {
		t.Fatalf("expected invalid mode to be rejected")
	}

	m.filterInputs[0].SetValue("HARD")
	press(m, "enter")
	if m.filterMode || m.cfg.Mode != "hard" {
		t.Fatalf("expected hard filter applied, got %+v", m.cfg)
	}
	if len(m.report.Sessions) != 1 {
		t.Fatalf("expected one hard session, got %d", len(m.report.Sessions))
	}
	if !strings.Contains(m.renderFilterSummary(), "mode=hard") {
		t.Fatalf("unexpected summary %q", m.renderFilterSummary())
	}
}

func TestFilterRejectsBadWindow(t *testing.T) {
	m := sized(NewModel(openStore(t), model.StatsConfig{CurveWindow: 10}))
	press(m, "/")
	m.filterInputs[3].SetValue("0")
	press(m, "enter")
	if !strings.Contains(m.filterError, "curve window") {
		t.Fatalf("expected window error, got %q", m.filterError)
	}
	press(m, "tab")
	if m.filterIndex != 1 {
		t.Fatalf("expected focus on the next field")
	}
}

func TestCurveWindowKeys(t *testing.T) {
	m := sized(NewModel(openStore(t), model.StatsConfig{CurveWindow: 10}))
	press(m, "=")
	if m.cfg.CurveWindow != 15 {
		t.Fatalf("expected 15, got %d", m.cfg.CurveWindow)
	}
	press(m, "-")
	press(m, "-")
	press(m, "-")
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected 1, got %d", m.cfg.CurveWindow)
	}
	if nextCurveWindow(7) != 10 || prevCurveWindow(7) != 5 {
		t.Fatalf("unexpected window stepping")
	}
}

func TestFitLinesAndTruncate(t *testing.T) {
	out := fitLines("ab\ncd\nef", 4, 2)
	if out != "ab  \ncd  " {
		t.Fatalf("unexpected fit %q", out)
	}
	if truncateLine("abcdefgh", 6) != "abc..." || truncateLine("abc", 6) != "abc" {
		t.Fatalf("unexpected truncation")
	}
}
