package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/schedule"
)

const tickInterval = time.Second

// Presenter renders quiz state.
type Presenter interface {
	ShowQuestion(text string)
	ShowProgress(current, total int, mode Mode)
	ShowFeedback(message string, style FeedbackStyle)
	ShowExpectedAnswer(value int)
	UpdateSessionClock(remaining int)
	UpdateQuestionClock(remaining int)
	ShowResults(results Results)
}

// Notifier plays audio cues.
type Notifier interface {
	Play(cue Cue) error
}

// Animator spawns cosmetic effects.
type Animator interface {
	SpawnRewardEffect()
}

// Recorder persists finished sessions.
type Recorder interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
}

// Controller executes the machine's effects against its collaborators.
// All methods must be called from a single goroutine, the same one the
// scheduler dispatches callbacks on.
type Controller struct {
	machine   *Machine
	scheduler schedule.Scheduler
	presenter Presenter
	notifier  Notifier
	animator  Animator
	recorder  Recorder
	clock     clockwork.Clock
	logger    zerolog.Logger

	sessionTimer  schedule.Handle
	questionTimer schedule.Handle
	advances      map[int]schedule.Handle
	advanceSeq    int

	sessionID uuid.UUID
	startedAt time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder persists finished sessions.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithClock sets the clock used for session timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController wires a machine to its collaborators.
func NewController(machine *Machine, scheduler schedule.Scheduler, presenter Presenter, notifier Notifier, animator Animator, opts ...Option) *Controller {
	c := &Controller{
		machine:   machine,
		scheduler: scheduler,
		presenter: presenter,
		notifier:  notifier,
		animator:  animator,
		clock:     clockwork.NewRealClock(),
		logger:    zerolog.Nop(),
		advances:  map[int]schedule.Handle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the selected mode.
func (c *Controller) Mode() Mode {
	return c.machine.Mode()
}

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	return c.machine.State()
}

// Active reports whether a session is running.
func (c *Controller) Active() bool {
	return c.machine.State().Active
}

// SelectMode selects the mode for the next session.
func (c *Controller) SelectMode(mode Mode) bool {
	ok := c.machine.SelectMode(mode)
	if !ok {
		c.logger.Debug().Str("mode", string(mode)).Msg("mode change rejected")
	}
	return ok
}

// Start begins a session.
func (c *Controller) Start() {
	if c.Active() {
		return
	}
	c.sessionID = uuid.New()
	c.startedAt = c.clock.Now()
	c.logger.Info().
		Str("session_id", c.sessionID.String()).
		Str("mode", string(c.machine.Mode())).
		Msg("session started")
	c.apply(c.machine.Start())
}

// Submit submits a raw answer.
func (c *Controller) Submit(raw string) {
	c.apply(c.machine.Submit(raw))
}

// Trigger is the input surface: it starts a session when none is active
// and submits the answer otherwise.
func (c *Controller) Trigger(raw string) {
	if !c.Active() {
		c.Start()
		return
	}
	c.Submit(raw)
}

// Finish ends the active session early.
func (c *Controller) Finish() {
	c.apply(c.machine.Finish())
}

func (c *Controller) apply(effects []Effect) {
	for _, e := range effects {
		c.execute(e)
	}
}

func (c *Controller) execute(e Effect) {
	switch e := e.(type) {
	case ShowQuestion:
		c.presenter.ShowQuestion(e.Text)
	case ShowProgress:
		c.presenter.ShowProgress(e.Current, e.Total, e.Mode)
	case ShowFeedback:
		c.presenter.ShowFeedback(e.Message, e.Style)
	case ShowExpectedAnswer:
		c.presenter.ShowExpectedAnswer(e.Value)
	case UpdateSessionClock:
		c.presenter.UpdateSessionClock(e.Remaining)
	case UpdateQuestionClock:
		c.presenter.UpdateQuestionClock(e.Remaining)
	case ShowResults:
		c.presenter.ShowResults(e.Results)
	case PlayCue:
		if c.notifier == nil {
			return
		}
		if err := c.notifier.Play(e.Cue); err != nil {
			c.logger.Debug().Err(err).Str("cue", e.Cue.String()).Msg("cue playback failed")
		}
	case SpawnReward:
		if c.animator != nil {
			c.animator.SpawnRewardEffect()
		}
	case StartSessionTimer:
		cancelHandle(c.sessionTimer)
		c.sessionTimer = c.scheduler.Every(tickInterval, func() {
			c.apply(c.machine.TickSession())
		})
	case StartQuestionTimer:
		cancelHandle(c.questionTimer)
		c.questionTimer = c.scheduler.Every(tickInterval, func() {
			c.apply(c.machine.TickQuestion())
		})
	case StopQuestionTimer:
		cancelHandle(c.questionTimer)
		c.questionTimer = nil
	case ScheduleAdvance:
		c.scheduleAdvance(e.After)
	case StopTimers:
		c.stopTimers()
	case SessionEnded:
		c.record(e)
	default:
		c.logger.Warn().Msgf("unhandled effect %T", e)
	}
}

func (c *Controller) scheduleAdvance(delay time.Duration) {
	c.advanceSeq++
	id := c.advanceSeq
	c.advances[id] = c.scheduler.After(delay, func() {
		delete(c.advances, id)
		c.apply(c.machine.Advance())
	})
}

func (c *Controller) stopTimers() {
	cancelHandle(c.sessionTimer)
	cancelHandle(c.questionTimer)
	c.sessionTimer = nil
	c.questionTimer = nil
	for id, h := range c.advances {
		h.Cancel()
		delete(c.advances, id)
	}
}

func (c *Controller) record(e SessionEnded) {
	endedAt := c.clock.Now()
	rec := buildRecord(c.sessionID, c.startedAt, endedAt, e)
	c.logger.Info().
		Str("session_id", rec.UUID).
		Str("mode", rec.Mode).
		Int("correct", rec.Correct).
		Int("wrong", rec.Wrong).
		Int("points", rec.Points).
		Str("reason", rec.EndReason).
		Msg("session finished")
	if c.recorder == nil {
		return
	}
	if _, err := c.recorder.InsertSession(context.Background(), rec); err != nil {
		c.logger.Error().Err(err).Str("session_id", rec.UUID).Msg("failed to save session")
	}
}

func buildRecord(id uuid.UUID, startedAt, endedAt time.Time, e SessionEnded) model.SessionRecord {
	r := e.Results
	answers := make([]model.AnswerRecord, 0, len(e.Answers))
	for i, a := range e.Answers {
		answers = append(answers, model.AnswerRecord{
			Seq:       i + 1,
			Prompt:    a.Question.Prompt,
			Expected:  a.Question.Answer,
			Given:     a.Given,
			Correct:   a.Correct,
			TimedOut:  a.TimedOut,
			ElapsedMs: a.Elapsed.Milliseconds(),
		})
	}
	return model.SessionRecord{
		UUID:          id.String(),
		StartedAt:     startedAt,
		EndedAt:       endedAt,
		Mode:          string(r.Mode),
		QuestionCount: r.Total,
		Solved:        r.Solved,
		Correct:       r.Correct,
		Wrong:         r.Wrong,
		Points:        r.Points,
		Stars:         r.Stars,
		BestStreak:    r.BestStreak,
		AvgCorrectMs:  r.AvgDuration.Milliseconds(),
		DurationMs:    endedAt.Sub(startedAt).Milliseconds(),
		EndReason:     string(r.Reason),
		Answers:       answers,
	}
}

func cancelHandle(h schedule.Handle) {
	if h != nil {
		h.Cancel()
	}
}
