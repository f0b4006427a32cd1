// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/quiz"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play   PlayConfig            `toml:"play"`
	Modes  map[string]ModeConfig `toml:"modes"`
	Rating RatingConfig          `toml:"rating"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Mode            *string `toml:"mode"`
	SessionMinutes  *int    `toml:"session-minutes"`
	QuestionSeconds *int    `toml:"question-seconds"`
	Sound           *bool   `toml:"sound"`
	Seed            *int64  `toml:"seed"`
}

// ModeConfig overrides one mode's round settings. Ranges are [min, max].
type ModeConfig struct {
	Questions *int  `toml:"questions"`
	Reward    *int  `toml:"reward"`
	A         []int `toml:"a"`
	B         []int `toml:"b"`
	C         []int `toml:"c"`
}

// RatingConfig overrides the accuracy percentages for stars.
type RatingConfig struct {
	One   *float64 `toml:"one"`
	Two   *float64 `toml:"two"`
	Three *float64 `toml:"three"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// BuildRules applies play settings and file overrides to the default rules.
func BuildRules(play model.Config, file FileConfig) (quiz.Rules, error) {
	rules := quiz.DefaultRules()
	if play.SessionMinutes > 0 {
		rules.SessionBudget = time.Duration(play.SessionMinutes) * time.Minute
	}
	if play.QuestionSeconds > 0 {
		rules.QuestionBudget = time.Duration(play.QuestionSeconds) * time.Second
		if rules.WarningAt >= rules.QuestionBudget {
			rules.WarningAt = 0
		}
	}

	for name, override := range file.Modes {
		mode, err := quiz.ParseMode(name)
		if err != nil {
			return quiz.Rules{}, fmt.Errorf("modes.%s: %w", name, err)
		}
		round := rules.Rounds[mode]
		if override.Questions != nil {
			round.QuestionCount = *override.Questions
		}
		if override.Reward != nil {
			round.RewardPerCorrect = *override.Reward
		}
		for _, r := range []struct {
			key    string
			values []int
			target *quiz.Range
		}{
			{"a", override.A, &round.A},
			{"b", override.B, &round.B},
			{"c", override.C, &round.C},
		} {
			if r.values == nil {
				continue
			}
			if len(r.values) != 2 {
				return quiz.Rules{}, fmt.Errorf("modes.%s.%s must be [min, max]", name, r.key)
			}
			*r.target = quiz.Range{Min: r.values[0], Max: r.values[1]}
		}
		rules.Rounds[mode] = round
	}

	if file.Rating.One != nil {
		rules.Bands.One = *file.Rating.One
	}
	if file.Rating.Two != nil {
		rules.Bands.Two = *file.Rating.Two
	}
	if file.Rating.Three != nil {
		rules.Bands.Three = *file.Rating.Three
	}

	if err := rules.Validate(); err != nil {
		return quiz.Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}

// Template is written by the config command when no file exists yet.
const Template = `# gameace configuration

[play]
# mode = "easy"            # easy, medium or hard
# session-minutes = 10
# question-seconds = 60
# sound = true
# seed = 0                 # 0 picks a random seed

# [modes.easy]
# questions = 10
# reward = 10
# a = [10, 30]
# b = [1, 20]
# c = [0, 10]

# [rating]
# one = 40
# two = 70
# three = 90
`
