package quiz

import (
	"strconv"
	"strings"
	"time"
)

// Phase is the round phase of a session.
type Phase int

// Round phases. PhaseResolved is the feedback interval between an answer
// and the next question.
const (
	PhaseIdle Phase = iota
	PhaseAwaiting
	PhaseResolved
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseResolved:
		return "resolved"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// FinishReason records why a session ended.
type FinishReason string

// Finish reasons.
const (
	FinishCompleted      FinishReason = "completed"
	FinishSessionTimeout FinishReason = "session_timeout"
	FinishAborted        FinishReason = "aborted"
)

// Answer is the resolution of one question.
type Answer struct {
	Question Question
	Given    *int
	Correct  bool
	TimedOut bool
	Elapsed  time.Duration
}

// State is the mutable state of one session.
type State struct {
	Mode              Mode
	Solved            int
	Correct           int
	Wrong             int
	Streak            int
	BestStreak        int
	Points            int
	Durations         []time.Duration
	SessionRemaining  int
	QuestionRemaining int
	Active            bool
	Finished          bool
	Phase             Phase
	Current           Question
	Reason            FinishReason
	Answers           []Answer

	warned bool
}

// Results summarizes a finished session.
type Results struct {
	Mode        Mode
	Correct     int
	Wrong       int
	Solved      int
	Total       int
	Points      int
	BestStreak  int
	Accuracy    float64
	Stars       int
	AvgDuration time.Duration
	Log         []time.Duration
	Reason      FinishReason
}

// Machine owns a session and turns events into effects. It performs no I/O.
type Machine struct {
	rules  Rules
	source QuestionSource
	mode   Mode
	state  *State
}

// NewMachine constructs an idle machine in easy mode.
func NewMachine(rules Rules, source QuestionSource) *Machine {
	return &Machine{
		rules:  rules,
		source: source,
		mode:   Easy,
		state:  &State{Mode: Easy},
	}
}

// Mode returns the mode for the current or next session.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Rules returns the machine's rule set.
func (m *Machine) Rules() Rules {
	return m.rules
}

// State returns a snapshot of the session state.
func (m *Machine) State() State {
	s := *m.state
	s.Durations = append([]time.Duration(nil), m.state.Durations...)
	s.Answers = append([]Answer(nil), m.state.Answers...)
	return s
}

// SelectMode sets the mode for the next session. It is rejected while a
// session is active or when the mode is unknown.
func (m *Machine) SelectMode(mode Mode) bool {
	if m.state.Active {
		return false
	}
	if _, ok := m.rules.Round(mode); !ok {
		return false
	}
	m.mode = mode
	return true
}

// Start begins a new session with a fresh state.
func (m *Machine) Start() []Effect {
	if m.state.Active {
		return nil
	}
	m.state = &State{
		Mode:             m.mode,
		SessionRemaining: m.rules.sessionSeconds(),
		Active:           true,
		Phase:            PhaseIdle,
	}
	effects := []Effect{
		PlayCue{Cue: CueStart},
		UpdateSessionClock{Remaining: m.state.SessionRemaining},
		StartSessionTimer{},
	}
	return append(effects, m.advance()...)
}

// Advance handles a scheduled advance. Stale advances are ignored.
func (m *Machine) Advance() []Effect {
	s := m.state
	if !s.Active || s.Finished || s.Phase != PhaseResolved {
		return nil
	}
	return m.advance()
}

// Submit handles a raw answer. Input that is not an integer is ignored.
func (m *Machine) Submit(raw string) []Effect {
	s := m.state
	if !s.Active || s.Finished || s.Phase != PhaseAwaiting {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	effects := []Effect{StopQuestionTimer{}}
	if value == s.Current.Answer {
		return append(effects, m.markCorrect(value)...)
	}
	return append(effects, m.markWrong(&value, false)...)
}

// TickSession handles one second of the session clock.
func (m *Machine) TickSession() []Effect {
	s := m.state
	if !s.Active || s.Finished {
		return nil
	}
	if s.SessionRemaining > 0 {
		s.SessionRemaining--
	}
	effects := []Effect{UpdateSessionClock{Remaining: s.SessionRemaining}}
	if s.SessionRemaining <= 0 {
		effects = append(effects, m.finish(FinishSessionTimeout)...)
	}
	return effects
}

// TickQuestion handles one second of the question clock.
func (m *Machine) TickQuestion() []Effect {
	s := m.state
	if !s.Active || s.Finished || s.Phase != PhaseAwaiting {
		return nil
	}
	if s.QuestionRemaining > 0 {
		s.QuestionRemaining--
	}
	effects := []Effect{UpdateQuestionClock{Remaining: s.QuestionRemaining}}
	if !s.warned && s.QuestionRemaining == m.rules.warningSeconds() && s.QuestionRemaining > 0 {
		s.warned = true
		effects = append(effects, PlayCue{Cue: CueWarning})
	}
	if s.QuestionRemaining <= 0 {
		effects = append(effects, StopQuestionTimer{})
		effects = append(effects, m.markWrong(nil, true)...)
	}
	return effects
}

// Finish ends the active session. It is a no-op when no session is active,
// including after the session already finished.
func (m *Machine) Finish() []Effect {
	return m.finish(FinishAborted)
}

// Results computes the results of the current state.
func (m *Machine) Results() Results {
	s := m.state
	round, _ := m.rules.Round(s.Mode)
	accuracy := Accuracy(s.Correct, s.Solved)
	return Results{
		Mode:        s.Mode,
		Correct:     s.Correct,
		Wrong:       s.Wrong,
		Solved:      s.Solved,
		Total:       round.QuestionCount,
		Points:      s.Points,
		BestStreak:  s.BestStreak,
		Accuracy:    accuracy,
		Stars:       Stars(accuracy, m.rules.Bands),
		AvgDuration: AverageDuration(s.Durations),
		Log:         append([]time.Duration(nil), s.Durations...),
		Reason:      s.Reason,
	}
}

func (m *Machine) advance() []Effect {
	s := m.state
	round, _ := m.rules.Round(s.Mode)
	if s.Solved >= round.QuestionCount {
		return m.finish(FinishCompleted)
	}
	s.Current = m.source.Next(round)
	s.QuestionRemaining = m.rules.questionSeconds()
	s.Phase = PhaseAwaiting
	s.warned = false
	return []Effect{
		ShowFeedback{Style: FeedbackNone},
		ShowQuestion{Text: s.Current.Prompt},
		ShowProgress{Current: s.Solved + 1, Total: round.QuestionCount, Mode: s.Mode},
		UpdateQuestionClock{Remaining: s.QuestionRemaining},
		StartQuestionTimer{},
	}
}

func (m *Machine) markCorrect(value int) []Effect {
	s := m.state
	round, _ := m.rules.Round(s.Mode)
	elapsed := m.elapsed()
	s.Correct++
	s.Streak++
	if s.Streak > s.BestStreak {
		s.BestStreak = s.Streak
	}
	s.Points += round.RewardPerCorrect
	s.Durations = append(s.Durations, elapsed)
	s.Answers = append(s.Answers, Answer{
		Question: s.Current,
		Given:    &value,
		Correct:  true,
		Elapsed:  elapsed,
	})
	s.Solved++
	s.Phase = PhaseResolved
	effects := []Effect{
		ShowFeedback{Message: MessageCorrect, Style: FeedbackCorrect},
		PlayCue{Cue: CueCorrect},
		SpawnReward{},
	}
	return append(effects, m.next(m.rules.CorrectDelay)...)
}

func (m *Machine) markWrong(value *int, timedOut bool) []Effect {
	s := m.state
	s.Wrong++
	s.Streak = 0
	s.Answers = append(s.Answers, Answer{
		Question: s.Current,
		Given:    value,
		TimedOut: timedOut,
		Elapsed:  m.elapsed(),
	})
	s.Solved++
	s.Phase = PhaseResolved
	feedback := ShowFeedback{Message: MessageWrong, Style: FeedbackWrong}
	if timedOut {
		feedback = ShowFeedback{Message: MessageTimeout, Style: FeedbackTimeout}
	}
	effects := []Effect{
		feedback,
		ShowExpectedAnswer{Value: s.Current.Answer},
		PlayCue{Cue: CueWrong},
	}
	return append(effects, m.next(m.rules.WrongDelay)...)
}

// next finishes right away once the last question is resolved, otherwise
// schedules the next question.
func (m *Machine) next(delay time.Duration) []Effect {
	round, _ := m.rules.Round(m.state.Mode)
	if m.state.Solved >= round.QuestionCount {
		return m.finish(FinishCompleted)
	}
	return []Effect{ScheduleAdvance{After: delay}}
}

func (m *Machine) finish(reason FinishReason) []Effect {
	s := m.state
	if !s.Active || s.Finished {
		return nil
	}
	s.Finished = true
	s.Active = false
	s.Phase = PhaseFinished
	s.Reason = reason
	results := m.Results()
	return []Effect{
		StopTimers{},
		PlayCue{Cue: CueFinish},
		ShowResults{Results: results},
		SessionEnded{Results: results, Answers: append([]Answer(nil), s.Answers...)},
	}
}

func (m *Machine) elapsed() time.Duration {
	spent := m.rules.questionSeconds() - m.state.QuestionRemaining
	if spent < 0 {
		spent = 0
	}
	return time.Duration(spent) * time.Second
}
