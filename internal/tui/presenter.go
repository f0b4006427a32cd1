package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chlorine05/GameAceSelection/internal/quiz"
)

const (
	frameInterval = 80 * time.Millisecond
	sparkWidth    = 24
	sparksPer     = 5
	maxBursts     = 4
)

// Glyphs by burst age; the last frame is blank.
var sparkGlyphs = []string{"✸", "✶", "✦", "✧", "·", " "}

type frameMsg struct{}

type burst struct {
	label string
	cols  []int
	age   int
}

// ShowQuestion implements quiz.Presenter.
func (m *Model) ShowQuestion(text string) {
	m.question = text
	m.input.Reset()
}

// ShowProgress implements quiz.Presenter.
func (m *Model) ShowProgress(current, total int, mode quiz.Mode) {
	m.current = current
	m.total = total
	m.mode = mode
}

// ShowFeedback implements quiz.Presenter.
func (m *Model) ShowFeedback(message string, style quiz.FeedbackStyle) {
	m.feedback = message
	m.feedbackStyle = style
	if style == quiz.FeedbackNone {
		m.expected = nil
	}
}

// ShowExpectedAnswer implements quiz.Presenter.
func (m *Model) ShowExpectedAnswer(value int) {
	m.expected = &value
}

// UpdateSessionClock implements quiz.Presenter.
func (m *Model) UpdateSessionClock(remaining int) {
	m.sessionClock = remaining
}

// UpdateQuestionClock implements quiz.Presenter.
func (m *Model) UpdateQuestionClock(remaining int) {
	m.questionClock = remaining
}

// ShowResults implements quiz.Presenter.
func (m *Model) ShowResults(results quiz.Results) {
	m.results = &results
	fs := m.footer[results.Mode]
	fs.last = results.Points
	fs.hasLast = true
	if results.Points > fs.best {
		fs.best = results.Points
	}
	m.footer[results.Mode] = fs
}

// SpawnRewardEffect implements quiz.Animator.
func (m *Model) SpawnRewardEffect() {
	round, _ := m.rules.Round(m.mode)
	b := burst{label: fmt.Sprintf("+%d", round.RewardPerCorrect), cols: make([]int, sparksPer)}
	for i := range b.cols {
		b.cols[i] = m.rnd.Intn(sparkWidth)
	}
	m.bursts = append(m.bursts, b)
	if len(m.bursts) > maxBursts {
		m.bursts = m.bursts[len(m.bursts)-maxBursts:]
	}
}

// animate starts the frame ticker when bursts are live and none is running.
func (m *Model) animate() tea.Cmd {
	if len(m.bursts) == 0 || m.animating {
		return nil
	}
	m.animating = true
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) stepBursts() tea.Cmd {
	live := m.bursts[:0]
	for _, b := range m.bursts {
		b.age++
		if b.age < len(sparkGlyphs) {
			live = append(live, b)
		}
	}
	m.bursts = live
	if len(m.bursts) == 0 {
		m.animating = false
		return nil
	}
	return frameTick()
}

func (m *Model) renderBursts() string {
	row := []string{}
	for i := 0; i < sparkWidth; i++ {
		row = append(row, " ")
	}
	label := ""
	for _, b := range m.bursts {
		glyph := sparkGlyphs[b.age]
		for _, col := range b.cols {
			row[col] = glyph
		}
		if b.age < len(sparkGlyphs)/2 {
			label = b.label
		}
	}
	line := strings.Join(row, "")
	if label != "" {
		mid := (sparkWidth - len(label)) / 2
		line = strings.Join(row[:mid], "") + label + strings.Join(row[mid+len(label):], "")
	}
	return sparkStyle.Render(line)
}
