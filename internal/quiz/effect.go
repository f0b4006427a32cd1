package quiz

import "time"

// Cue names a short audio cue.
type Cue int

// Audio cues.
const (
	CueStart Cue = iota
	CueCorrect
	CueWrong
	CueWarning
	CueFinish
)

func (c Cue) String() string {
	switch c {
	case CueStart:
		return "start"
	case CueCorrect:
		return "correct"
	case CueWrong:
		return "wrong"
	case CueWarning:
		return "warning"
	case CueFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// FeedbackStyle selects how feedback is rendered.
type FeedbackStyle int

// Feedback styles. FeedbackNone clears the feedback area.
const (
	FeedbackNone FeedbackStyle = iota
	FeedbackCorrect
	FeedbackWrong
	FeedbackTimeout
)

// Feedback messages.
const (
	MessageCorrect = "ACCESS GRANTED"
	MessageWrong   = "ACCESS DENIED"
	MessageTimeout = "TIME OUT"
)

// Effect is a side effect requested by a state transition.
type Effect interface {
	effect()
}

// ShowQuestion presents a new prompt.
type ShowQuestion struct{ Text string }

// ShowProgress presents "current of total" for the mode.
type ShowProgress struct {
	Current int
	Total   int
	Mode    Mode
}

// ShowFeedback presents a feedback message. An empty message with
// FeedbackNone clears feedback and the expected-answer reveal.
type ShowFeedback struct {
	Message string
	Style   FeedbackStyle
}

// ShowExpectedAnswer reveals the answer after a miss.
type ShowExpectedAnswer struct{ Value int }

// UpdateSessionClock presents the remaining session seconds.
type UpdateSessionClock struct{ Remaining int }

// UpdateQuestionClock presents the remaining question seconds.
type UpdateQuestionClock struct{ Remaining int }

// ShowResults presents the final results.
type ShowResults struct{ Results Results }

// PlayCue plays an audio cue.
type PlayCue struct{ Cue Cue }

// SpawnReward spawns the reward animation.
type SpawnReward struct{}

// StartSessionTimer starts the one-second session ticker.
type StartSessionTimer struct{}

// StartQuestionTimer starts the one-second question ticker.
type StartQuestionTimer struct{}

// StopQuestionTimer cancels the question ticker.
type StopQuestionTimer struct{}

// ScheduleAdvance schedules the next question after a delay.
type ScheduleAdvance struct{ After time.Duration }

// StopTimers cancels the session ticker, the question ticker and any pending advance.
type StopTimers struct{}

// SessionEnded carries the finished session for recording.
type SessionEnded struct {
	Results Results
	Answers []Answer
}

func (ShowQuestion) effect()        {}
func (ShowProgress) effect()        {}
func (ShowFeedback) effect()        {}
func (ShowExpectedAnswer) effect()  {}
func (UpdateSessionClock) effect()  {}
func (UpdateQuestionClock) effect() {}
func (ShowResults) effect()         {}
func (PlayCue) effect()             {}
func (SpawnReward) effect()         {}
func (StartSessionTimer) effect()   {}
func (StartQuestionTimer) effect()  {}
func (StopQuestionTimer) effect()   {}
func (ScheduleAdvance) effect()     {}
func (StopTimers) effect()          {}
func (SessionEnded) effect()        {}
