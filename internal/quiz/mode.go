// Package quiz implements the arithmetic quiz round state machine.
package quiz

import (
	"fmt"
	"strings"
	"time"
)

// Mode is a difficulty mode.
type Mode string

// Difficulty modes.
const (
	Easy   Mode = "easy"
	Medium Mode = "medium"
	Hard   Mode = "hard"
)

// Modes returns all modes in ascending difficulty.
func Modes() []Mode {
	return []Mode{Easy, Medium, Hard}
}

// ParseMode resolves a mode name case-insensitively.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case Easy:
		return Easy, nil
	case Medium:
		return Medium, nil
	case Hard:
		return Hard, nil
	default:
		return "", fmt.Errorf("unknown mode %q (available: easy, medium, hard)", name)
	}
}

// Range is an inclusive integer range.
type Range struct {
	Min int
	Max int
}

// RoundConfig holds the per-mode session constants.
type RoundConfig struct {
	QuestionCount    int
	RewardPerCorrect int
	A                Range
	B                Range
	C                Range
}

// StarBands are the accuracy percentages needed for one, two and three stars.
type StarBands struct {
	One   float64
	Two   float64
	Three float64
}

// Rules is the full rule set of a quiz.
type Rules struct {
	Rounds         map[Mode]RoundConfig
	SessionBudget  time.Duration
	QuestionBudget time.Duration
	WarningAt      time.Duration
	CorrectDelay   time.Duration
	WrongDelay     time.Duration
	Bands          StarBands
}

// DefaultRules returns the canonical rule set.
func DefaultRules() Rules {
	return Rules{
		Rounds: map[Mode]RoundConfig{
			Easy: {
				QuestionCount:    10,
				RewardPerCorrect: 10,
				A:                Range{Min: 10, Max: 30},
				B:                Range{Min: 1, Max: 20},
				C:                Range{Min: 0, Max: 10},
			},
			Medium: {
				QuestionCount:    15,
				RewardPerCorrect: 20,
				A:                Range{Min: 30, Max: 80},
				B:                Range{Min: 10, Max: 50},
				C:                Range{Min: 5, Max: 30},
			},
			Hard: {
				QuestionCount:    20,
				RewardPerCorrect: 30,
				A:                Range{Min: 100, Max: 300},
				B:                Range{Min: 50, Max: 150},
				C:                Range{Min: 10, Max: 80},
			},
		},
		SessionBudget:  10 * time.Minute,
		QuestionBudget: 60 * time.Second,
		WarningAt:      5 * time.Second,
		CorrectDelay:   600 * time.Millisecond,
		WrongDelay:     1500 * time.Millisecond,
		Bands:          StarBands{One: 40, Two: 70, Three: 90},
	}
}

// Round returns the config for a mode.
func (r Rules) Round(mode Mode) (RoundConfig, bool) {
	cfg, ok := r.Rounds[mode]
	return cfg, ok
}

// Validate checks the rule set for values the state machine cannot run with.
func (r Rules) Validate() error {
	for _, mode := range Modes() {
		cfg, ok := r.Rounds[mode]
		if !ok {
			return fmt.Errorf("missing round config for %s", mode)
		}
		if cfg.QuestionCount <= 0 {
			return fmt.Errorf("%s: question count must be > 0", mode)
		}
		if cfg.RewardPerCorrect < 0 {
			return fmt.Errorf("%s: reward must be >= 0", mode)
		}
		for name, rng := range map[string]Range{"a": cfg.A, "b": cfg.B, "c": cfg.C} {
			if rng.Min > rng.Max {
				return fmt.Errorf("%s: %s range %d-%d is inverted", mode, name, rng.Min, rng.Max)
			}
		}
	}
	if r.SessionBudget < time.Second {
		return fmt.Errorf("session budget must be at least 1s")
	}
	if r.QuestionBudget < time.Second {
		return fmt.Errorf("question budget must be at least 1s")
	}
	if r.WarningAt < 0 || r.WarningAt >= r.QuestionBudget {
		return fmt.Errorf("warning threshold must be within the question budget")
	}
	if r.CorrectDelay < 0 || r.WrongDelay < 0 {
		return fmt.Errorf("advance delays must be >= 0")
	}
	b := r.Bands
	if b.One < 0 || b.One > b.Two || b.Two > b.Three || b.Three > 100 {
		return fmt.Errorf("star bands must be ascending within 0-100")
	}
	return nil
}

func (r Rules) sessionSeconds() int {
	return int(r.SessionBudget / time.Second)
}

func (r Rules) questionSeconds() int {
	return int(r.QuestionBudget / time.Second)
}

func (r Rules) warningSeconds() int {
	return int(r.WarningAt / time.Second)
}
