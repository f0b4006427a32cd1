// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/quiz"
	"github.com/chlorine05/GameAceSelection/internal/schedule"
	statsPkg "github.com/chlorine05/GameAceSelection/internal/stats"
)

// History is the persistence the play screen needs.
type History interface {
	quiz.Recorder
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	BestPoints(ctx context.Context, mode string) (int, error)
}

type footerStats struct {
	last    int
	hasLast bool
	best    int
}

// Model implements the Bubble Tea quiz UI. It is the controller's
// Presenter and Animator.
type Model struct {
	ctrl    *quiz.Controller
	rules   quiz.Rules
	history History
	loop    *Loop
	logger  zerolog.Logger
	rnd     *rand.Rand

	width  int
	height int

	input textinput.Model

	mode          quiz.Mode
	question      string
	current       int
	total         int
	sessionClock  int
	questionClock int
	feedback      string
	feedbackStyle quiz.FeedbackStyle
	expected      *int
	results       *quiz.Results

	bursts    []burst
	animating bool

	footer map[quiz.Mode]footerStats
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CFF7A")).Bold(true)
	modeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	activeModeSty  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0B0B0B")).Background(lipgloss.Color("#3CFF7A")).Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C8C8"))
	clockWarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CFF7A")).Bold(true)
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	timeoutStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	expectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	sparkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5D76E"))
	resultsBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#3CFF7A")).Padding(1, 3)
	logLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	logValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type settings struct {
	scheduler schedule.Scheduler
	clock     clockwork.Clock
	logger    zerolog.Logger
	rnd       *rand.Rand
}

// Option customizes a Model.
type Option func(*settings)

// WithScheduler replaces the real-time scheduler.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *settings) { o.scheduler = s }
}

// WithClock sets the clock used for timers and session timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(o *settings) { o.clock = clock }
}

// WithLogger sets the logger handed to the controller.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *settings) { o.logger = logger }
}

// NewModel constructs the quiz TUI model. history may be nil.
func NewModel(rules quiz.Rules, mode quiz.Mode, source quiz.QuestionSource, notifier quiz.Notifier, history History, opts ...Option) *Model {
	o := settings{
		clock:  clockwork.NewRealClock(),
		logger: zerolog.Nop(),
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Model{
		rules:   rules,
		history: history,
		loop:    &Loop{},
		logger:  o.logger,
		rnd:     o.rnd,
		footer:  map[quiz.Mode]footerStats{},
	}
	if o.scheduler == nil {
		o.scheduler = schedule.NewClock(o.clock, m.loop.Dispatch)
	}

	ctrlOpts := []quiz.Option{quiz.WithClock(o.clock), quiz.WithLogger(o.logger)}
	if history != nil {
		ctrlOpts = append(ctrlOpts, quiz.WithRecorder(history))
	}
	m.ctrl = quiz.NewController(quiz.NewMachine(rules, source), o.scheduler, m, notifier, m, ctrlOpts...)
	m.ctrl.SelectMode(mode)
	m.mode = m.ctrl.Mode()

	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Placeholder = "answer"
	m.input.CharLimit = 7
	m.input.Width = 10
	m.input.Focus()

	m.loadFooterStats()
	return m
}

// Attach connects timer callbacks to a running program.
func (m *Model) Attach(send func(tea.Msg)) {
	m.loop.Attach(send)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.input.Cursor.SetMode(cursor.CursorBlink)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case callbackMsg:
		msg()
		return m, m.animate()
	case frameMsg:
		return m, m.stepBursts()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.ctrl.Active() {
			m.ctrl.Finish()
		}
		return m, tea.Quit
	case tea.KeyEnter:
		m.handleEnter()
		return m, m.animate()
	case tea.KeyEsc:
		if m.ctrl.Active() {
			m.ctrl.Finish()
		}
		return m, nil
	}

	if m.ctrl.Active() {
		if msg.Type == tea.KeyRunes && !answerRunes(msg.Runes) {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.selectMode(m.shiftMode(-1))
	case "right", "l":
		m.selectMode(m.shiftMode(1))
	case "1", "2", "3":
		modes := quiz.Modes()
		m.selectMode(modes[int(msg.Runes[0]-'1')])
	}
	return m, nil
}

func (m *Model) handleEnter() {
	if !m.ctrl.Active() {
		m.results = nil
		m.bursts = nil
		m.input.Reset()
		m.ctrl.Trigger("")
		return
	}
	before := m.ctrl.State().Solved
	m.ctrl.Trigger(m.input.Value())
	if m.ctrl.State().Solved != before {
		m.input.Reset()
	}
}

func (m *Model) selectMode(mode quiz.Mode) {
	if m.ctrl.SelectMode(mode) {
		m.mode = mode
	}
}

func (m *Model) shiftMode(delta int) quiz.Mode {
	modes := quiz.Modes()
	idx := 0
	for i, mode := range modes {
		if mode == m.mode {
			idx = i
		}
	}
	idx = (idx + delta + len(modes)) % len(modes)
	return modes[idx]
}

func answerRunes(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch {
	case m.results != nil:
		content = m.renderResults()
	case m.ctrl.Active():
		content = m.renderPlay()
	default:
		content = m.renderMenu()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderModes() string {
	parts := make([]string, 0, len(quiz.Modes()))
	for i, mode := range quiz.Modes() {
		label := fmt.Sprintf(" %d %s ", i+1, strings.ToUpper(string(mode)))
		if mode == m.mode {
			parts = append(parts, activeModeSty.Render(label))
			continue
		}
		parts = append(parts, modeStyle.Render(label))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderMenu() string {
	round, _ := m.rules.Round(m.mode)
	lines := []string{
		titleStyle.Render("GAME ACE"),
		"",
		m.renderModes(),
		"",
		headerStyle.Render(fmt.Sprintf("%d questions · %d points each · %s session · %ds per question",
			round.QuestionCount, round.RewardPerCorrect, formatClock(int(m.rules.SessionBudget/time.Second)), int(m.rules.QuestionBudget/time.Second))),
		"",
		hintStyle.Render("←/→ or 1-3 choose mode · enter start · q quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderPlay() string {
	questionClock := fmt.Sprintf("QUESTION %ds", m.questionClock)
	if warn := int(m.rules.WarningAt / time.Second); warn > 0 && m.questionClock <= warn {
		questionClock = clockWarnStyle.Render(questionClock)
	} else {
		questionClock = headerStyle.Render(questionClock)
	}
	header := strings.Join([]string{
		activeModeSty.Render(" " + strings.ToUpper(string(m.mode)) + " "),
		headerStyle.Render(fmt.Sprintf("Q %d/%d", m.current, m.total)),
		headerStyle.Render("SESSION " + formatClock(m.sessionClock)),
		questionClock,
	}, "   ")

	lines := []string{
		header,
		"",
		m.renderBursts(),
		questionStyle.Render(m.question + " = ?"),
		"",
		m.input.View(),
		"",
		m.renderFeedback(),
		"",
		hintStyle.Render("enter submit · esc end session · ctrl+c quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderFeedback() string {
	var line string
	switch m.feedbackStyle {
	case quiz.FeedbackCorrect:
		line = correctStyle.Render(m.feedback)
	case quiz.FeedbackWrong:
		line = incorrectStyle.Render(m.feedback)
	case quiz.FeedbackTimeout:
		line = timeoutStyle.Render(m.feedback)
	default:
		return " "
	}
	if m.expected != nil {
		line += "  " + expectedStyle.Render(fmt.Sprintf("EXPECTED: %d", *m.expected))
	}
	return line
}

func (m *Model) renderResults() string {
	r := m.results
	title := "SESSION COMPLETE"
	switch r.Reason {
	case quiz.FinishSessionTimeout:
		title = "TIME UP"
	case quiz.FinishAborted:
		title = "SESSION ENDED"
	}

	logWidth := 48
	if m.width > 0 && m.width-12 < logWidth {
		logWidth = max(m.width-12, 12)
	}
	log := hintStyle.Render(emptyLogText)
	if len(r.Log) > 0 {
		log = wrapSegments(buildLogSegments(r.Log), logWidth)
	}

	lines := []string{
		titleStyle.Render(title),
		"",
		sparkStyle.Render(statsPkg.StarString(r.Stars)) + "  " + questionStyle.Render(fmt.Sprintf("%.1f%%", r.Accuracy)),
		headerStyle.Render(fmt.Sprintf("Correct %d   Wrong %d   of %d", r.Correct, r.Wrong, r.Total)),
		headerStyle.Render("Average time " + quiz.FormatSeconds(r.AvgDuration)),
		headerStyle.Render(fmt.Sprintf("Points %d   Best streak %d", r.Points, r.BestStreak)),
		"",
		log,
		"",
		m.renderModes(),
		hintStyle.Render("enter play again · ←/→ mode · q quit"),
	}
	return resultsBox.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m *Model) loadFooterStats() {
	if m.history == nil {
		return
	}
	ctx := context.Background()
	for _, mode := range quiz.Modes() {
		var fs footerStats
		sessions, err := m.history.ListSessions(ctx, model.StatsConfig{Mode: string(mode)})
		if err != nil {
			m.logger.Error().Err(err).Str("mode", string(mode)).Msg("failed to load session stats")
			continue
		}
		if len(sessions) > 0 {
			fs.last = sessions[len(sessions)-1].Points
			fs.hasLast = true
		}
		best, err := m.history.BestPoints(ctx, string(mode))
		if err != nil {
			m.logger.Error().Err(err).Str("mode", string(mode)).Msg("failed to load best points")
		}
		fs.best = best
		m.footer[mode] = fs
	}
}

func (m *Model) renderFooter() string {
	fs := m.footer[m.mode]
	segments := []string{strings.ToUpper(string(m.mode))}
	if fs.hasLast {
		segments = append(segments, fmt.Sprintf("Last %d pts", fs.last))
	}
	segments = append(segments, fmt.Sprintf("Best %d pts", fs.best))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
