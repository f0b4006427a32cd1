// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Mode            string
	SessionMinutes  int
	QuestionSeconds int
	Sound           bool
	Seed            int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a finished quiz session.
type SessionRecord struct {
	UUID          string
	StartedAt     time.Time
	EndedAt       time.Time
	Mode          string
	QuestionCount int
	Solved        int
	Correct       int
	Wrong         int
	Points        int
	Stars         int
	BestStreak    int
	AvgCorrectMs  int64
	DurationMs    int64
	EndReason     string
	Answers       []AnswerRecord
}

// AnswerRecord stores the resolution of one question. Given is nil when
// the question timed out.
type AnswerRecord struct {
	Seq       int
	Prompt    string
	Expected  int
	Given     *int
	Correct   bool
	TimedOut  bool
	ElapsedMs int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID    int64
	UUID         string
	EndedAt      time.Time
	Mode         string
	Solved       int
	Correct      int
	Wrong        int
	Points       int
	Stars        int
	BestStreak   int
	AvgCorrectMs int64
	DurationMs   int64
	EndReason    string
}

// ModeAggregate aggregates sessions per mode.
type ModeAggregate struct {
	Mode         string
	Sessions     int
	Solved       int
	Correct      int
	Wrong        int
	Points       int
	BestPoints   int
	AvgCorrectMs float64
}

// SessionAnswer is an answer tagged with its session.
type SessionAnswer struct {
	SessionID int64
	Mode      string
	AnswerRecord
}
