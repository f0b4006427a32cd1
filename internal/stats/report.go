package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/store"
)

const (
	bestSessionsShown   = 5
	slowestAnswersShown = 10
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	ModeAggs         []model.ModeAggregate
	WindowAnswers    []model.SessionAnswer
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	modeAggs, err := st.ListModeAggregates(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate modes: %w", err)
	}
	answers, err := st.ListAnswersForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list answers: %w", err)
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		ModeAggs:         modeAggs,
		WindowAnswers:    answers,
	}, nil
}

// RenderReport writes the plain-text stats report.
func RenderReport(w io.Writer, report Report, window int) error {
	if err := RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := RenderCurves(w, report.Sessions, window); err != nil {
		return err
	}
	if err := RenderModeTable(w, report.ModeAggs); err != nil {
		return err
	}
	if err := RenderSessions(w, BestSessions(report.Sessions, bestSessionsShown)); err != nil {
		return err
	}
	return RenderSlowest(w, SlowestAnswers(report.WindowAnswers, slowestAnswersShown), len(report.WindowSessionIDs))
}

// RenderSlowest prints the slowest answers of the curve window.
func RenderSlowest(w io.Writer, answers []model.SessionAnswer, windowSessions int) error {
	if len(answers) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Slowest answers (last %d sessions)\n", windowSessions); err != nil {
		return err
	}
	headers := []string{"Question", "Expected", "Given", "Time", "Mode"}
	return RenderTable(w, headers, SlowestRows(answers), map[int]bool{1: true, 2: true, 3: true})
}

// SlowestRows formats answers as table cells.
func SlowestRows(answers []model.SessionAnswer) [][]string {
	rows := make([][]string, 0, len(answers))
	for _, a := range answers {
		given := "-"
		if a.Given != nil {
			given = fmt.Sprintf("%d", *a.Given)
		}
		elapsed := fmt.Sprintf("%.2fs", float64(a.ElapsedMs)/1000)
		if a.TimedOut {
			elapsed = "timeout"
		}
		rows = append(rows, []string{a.Prompt, fmt.Sprintf("%d", a.Expected), given, elapsed, a.Mode})
	}
	return rows
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
