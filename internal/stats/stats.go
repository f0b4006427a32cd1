// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/chlorine05/GameAceSelection/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Accuracy returns the correct percentage of solved questions.
func Accuracy(correct, solved int) float64 {
	if solved <= 0 {
		return 0
	}
	return float64(correct) * 100 / float64(solved)
}

// SessionMetrics computes accuracy percent and average correct-answer
// seconds for a session.
func SessionMetrics(s model.SessionAggregate) (accuracy, avgSeconds float64) {
	return Accuracy(s.Correct, s.Solved), float64(s.AvgCorrectMs) / 1000
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	top := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(top)))
		b.WriteByte(sparkChars[clamp(idx, 0, top)])
	}
	return b.String()
}

// PointsTrend renders session points, oldest first, as a sparkline.
func PointsTrend(sessions []model.SessionAggregate) string {
	points := make([]float64, len(sessions))
	for i, s := range sessions {
		points[i] = float64(s.Points)
	}
	return Sparkline(points)
}

// Summary holds headline numbers over a set of sessions.
type Summary struct {
	Sessions    int
	Solved      int
	Correct     int
	Points      int
	BestPoints  int
	BestStreak  int
	Accuracy    float64
	AvgSeconds  float64
	TotalPlayed time.Duration
}

// Summarize computes the headline numbers for sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	var sum Summary
	var weightedMs int64
	for _, s := range sessions {
		sum.Sessions++
		sum.Solved += s.Solved
		sum.Correct += s.Correct
		sum.Points += s.Points
		sum.TotalPlayed += time.Duration(s.DurationMs) * time.Millisecond
		weightedMs += s.AvgCorrectMs * int64(s.Correct)
		if s.Points > sum.BestPoints {
			sum.BestPoints = s.Points
		}
		if s.BestStreak > sum.BestStreak {
			sum.BestStreak = s.BestStreak
		}
	}
	sum.Accuracy = Accuracy(sum.Correct, sum.Solved)
	if sum.Correct > 0 {
		sum.AvgSeconds = float64(weightedMs) / float64(sum.Correct) / 1000
	}
	return sum
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.Sessions),
		fmt.Sprintf("Questions: %d", sum.Solved),
		fmt.Sprintf("Accuracy: %.2f%%", sum.Accuracy),
		fmt.Sprintf("Avg correct time: %.2fs", sum.AvgSeconds),
		fmt.Sprintf("Best points: %d", sum.BestPoints),
		fmt.Sprintf("Best streak: %d", sum.BestStreak),
		fmt.Sprintf("Time played: %s", sum.TotalPlayed.Round(time.Second)),
		"Points trend: " + PointsTrend(sessions),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for accuracy and answer time.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	times := make([]float64, len(sessions))
	for i, s := range sessions {
		accs[i], times[i] = SessionMetrics(s)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "Accuracy %", Values: MovingAverage(accs, window)},
		{Name: "Avg time s", Values: MovingAverage(times, window)},
	}, width, height, useColor)
}

// RenderModeTable prints per-mode aggregates.
func RenderModeTable(w io.Writer, aggs []model.ModeAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No mode stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Mode"); err != nil {
		return err
	}
	headers := []string{"Mode", "Sessions", "Accuracy", "Avg Time", "Points", "Best"}
	if err := RenderTable(w, headers, ModeRows(aggs), map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// ModeRows formats mode aggregates as table cells.
func ModeRows(aggs []model.ModeAggregate) [][]string {
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			agg.Mode,
			fmt.Sprintf("%d", agg.Sessions),
			fmt.Sprintf("%.2f%%", Accuracy(agg.Correct, agg.Solved)),
			fmt.Sprintf("%.2fs", agg.AvgCorrectMs/1000),
			fmt.Sprintf("%d", agg.Points),
			fmt.Sprintf("%d", agg.BestPoints),
		})
	}
	return rows
}

// RenderSessions prints one row per session, newest last.
func RenderSessions(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	headers := []string{"Ended", "Mode", "Score", "Accuracy", "Stars", "Avg Time", "Points", "End"}
	if err := RenderTable(w, headers, SessionRows(sessions), map[int]bool{2: true, 3: true, 5: true, 6: true}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// SessionRows formats sessions as table cells.
func SessionRows(sessions []model.SessionAggregate) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		acc, avg := SessionMetrics(s)
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Mode,
			fmt.Sprintf("%d/%d", s.Correct, s.Solved),
			fmt.Sprintf("%.1f%%", acc),
			StarString(s.Stars),
			fmt.Sprintf("%.2fs", avg),
			fmt.Sprintf("%d", s.Points),
			s.EndReason,
		})
	}
	return rows
}

// StarString renders a 0-3 rating as filled and empty stars.
func StarString(stars int) string {
	stars = clamp(stars, 0, 3)
	return strings.Repeat("★", stars) + strings.Repeat("☆", 3-stars)
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
