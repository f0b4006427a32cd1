package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/store"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// HistoryExport is the top-level structure for history export.
type HistoryExport struct {
	ExportID    string          `json:"export_id" yaml:"export_id"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Filter      ExportFilter    `json:"filter" yaml:"filter"`
	Sessions    []SessionExport `json:"sessions" yaml:"sessions"`
}

// ExportFilter records the filters the export was built with.
type ExportFilter struct {
	Mode  string     `json:"mode,omitempty" yaml:"mode,omitempty"`
	Since *time.Time `json:"since,omitempty" yaml:"since,omitempty"`
	Last  int        `json:"last,omitempty" yaml:"last,omitempty"`
}

// SessionExport holds one finished session for export.
type SessionExport struct {
	UUID         string         `json:"uuid" yaml:"uuid"`
	EndedAt      time.Time      `json:"ended_at" yaml:"ended_at"`
	Mode         string         `json:"mode" yaml:"mode"`
	Solved       int            `json:"solved" yaml:"solved"`
	Correct      int            `json:"correct" yaml:"correct"`
	Wrong        int            `json:"wrong" yaml:"wrong"`
	Accuracy     float64        `json:"accuracy" yaml:"accuracy"`
	Stars        int            `json:"stars" yaml:"stars"`
	Points       int            `json:"points" yaml:"points"`
	BestStreak   int            `json:"best_streak" yaml:"best_streak"`
	AvgCorrectMs int64          `json:"avg_correct_ms" yaml:"avg_correct_ms"`
	DurationMs   int64          `json:"duration_ms" yaml:"duration_ms"`
	EndReason    string         `json:"end_reason" yaml:"end_reason"`
	Answers      []AnswerExport `json:"answers" yaml:"answers"`
}

// AnswerExport holds one answered question for export.
type AnswerExport struct {
	Seq       int    `json:"seq" yaml:"seq"`
	Prompt    string `json:"prompt" yaml:"prompt"`
	Expected  int    `json:"expected" yaml:"expected"`
	Given     *int   `json:"given,omitempty" yaml:"given,omitempty"`
	Correct   bool   `json:"correct" yaml:"correct"`
	TimedOut  bool   `json:"timed_out,omitempty" yaml:"timed_out,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// BuildExport loads filtered sessions with their answers.
func BuildExport(ctx context.Context, st *store.Store, cfg model.StatsConfig, now time.Time) (HistoryExport, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return HistoryExport{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	answers, err := st.ListAnswersForSessions(ctx, sessionIDs(sessions))
	if err != nil {
		return HistoryExport{}, fmt.Errorf("failed to list answers: %w", err)
	}
	return NewExport(sessions, answers, cfg, now), nil
}

// NewExport assembles an export from already loaded rows.
func NewExport(sessions []model.SessionAggregate, answers []model.SessionAnswer, cfg model.StatsConfig, now time.Time) HistoryExport {
	bySession := map[int64][]AnswerExport{}
	for _, a := range answers {
		bySession[a.SessionID] = append(bySession[a.SessionID], AnswerExport{
			Seq:       a.Seq,
			Prompt:    a.Prompt,
			Expected:  a.Expected,
			Given:     a.Given,
			Correct:   a.Correct,
			TimedOut:  a.TimedOut,
			ElapsedMs: a.ElapsedMs,
		})
	}
	out := HistoryExport{
		ExportID:    uuid.NewString(),
		GeneratedAt: now.UTC(),
		Filter:      ExportFilter{Mode: cfg.Mode, Since: cfg.Since, Last: cfg.Last},
		Sessions:    make([]SessionExport, 0, len(sessions)),
	}
	for _, s := range sessions {
		rows := bySession[s.SessionID]
		if rows == nil {
			rows = []AnswerExport{}
		}
		out.Sessions = append(out.Sessions, SessionExport{
			UUID:         s.UUID,
			EndedAt:      s.EndedAt.UTC(),
			Mode:         s.Mode,
			Solved:       s.Solved,
			Correct:      s.Correct,
			Wrong:        s.Wrong,
			Accuracy:     Accuracy(s.Correct, s.Solved),
			Stars:        s.Stars,
			Points:       s.Points,
			BestStreak:   s.BestStreak,
			AvgCorrectMs: s.AvgCorrectMs,
			DurationMs:   s.DurationMs,
			EndReason:    s.EndReason,
			Answers:      rows,
		})
	}
	return out
}

// WriteExport encodes the export in the requested format.
func WriteExport(w io.Writer, export HistoryExport, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(export)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(export); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
