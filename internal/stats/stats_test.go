package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/chlorine05/GameAceSelection/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %.2f, got %.2f", i, want[i], got[i])
		}
	}
	if same := MovingAverage([]float64{3, 1}, 0); same[0] != 3 || same[1] != 1 {
		t.Fatalf("expected passthrough for window 0, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestRenderSummaryShowsPointsTrend(t *testing.T) {
	sessions := []model.SessionAggregate{
		{Points: 10, Correct: 1, Solved: 2},
		{Points: 30, Correct: 3, Solved: 3},
	}
	if got := PointsTrend(sessions); got != " @" {
		t.Fatalf("unexpected trend %q", got)
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Points trend:  @") {
		t.Fatalf("expected points trend in summary:\n%s", buf.String())
	}
}

func TestAccuracyHandlesZero(t *testing.T) {
	if Accuracy(0, 0) != 0 {
		t.Fatalf("expected zero accuracy without answers")
	}
	if Accuracy(9, 10) != 90 {
		t.Fatalf("expected 90%%, got %.2f", Accuracy(9, 10))
	}
}

func TestSummarizeWeightsAverageByCorrect(t *testing.T) {
	sum := Summarize([]model.SessionAggregate{
		{Solved: 10, Correct: 10, Points: 100, BestStreak: 10, AvgCorrectMs: 1000, DurationMs: 30000},
		{Solved: 10, Correct: 0, Points: 0, BestStreak: 0, AvgCorrectMs: 0, DurationMs: 30000},
		{Solved: 20, Correct: 10, Points: 300, BestStreak: 4, AvgCorrectMs: 3000, DurationMs: 60000},
	})
	if sum.Sessions != 3 || sum.Solved != 40 || sum.Correct != 20 {
		t.Fatalf("unexpected totals %+v", sum)
	}
	if sum.Accuracy != 50 || sum.AvgSeconds != 2 {
		t.Fatalf("unexpected rates %+v", sum)
	}
	if sum.BestPoints != 300 || sum.BestStreak != 10 || sum.TotalPlayed != 2*time.Minute {
		t.Fatalf("unexpected bests %+v", sum)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestBestSessions(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions := []model.SessionAggregate{
		{UUID: "a", Points: 80, Correct: 8, Solved: 10, EndedAt: base},
		{UUID: "b", Points: 100, Correct: 10, Solved: 10, EndedAt: base.Add(time.Hour)},
		{UUID: "c", Points: 80, Correct: 8, Solved: 8, EndedAt: base.Add(2 * time.Hour)},
		{UUID: "d", Points: 80, Correct: 8, Solved: 10, EndedAt: base.Add(3 * time.Hour)},
	}
	best := BestSessions(sessions, 3)
	if len(best) != 3 || best[0].UUID != "b" || best[1].UUID != "c" || best[2].UUID != "a" {
		t.Fatalf("unexpected order %+v", best)
	}
	if sessions[0].UUID != "a" {
		t.Fatalf("expected input left untouched")
	}
	if BestSessions(sessions, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}

func TestSlowestAnswersPutsTimeoutsFirst(t *testing.T) {
	answers := []model.SessionAnswer{
		{SessionID: 1, AnswerRecord: model.AnswerRecord{Seq: 1, ElapsedMs: 4000, Correct: true}},
		{SessionID: 1, AnswerRecord: model.AnswerRecord{Seq: 2, ElapsedMs: 60000, TimedOut: true}},
		{SessionID: 2, AnswerRecord: model.AnswerRecord{Seq: 1, ElapsedMs: 9000}},
		{SessionID: 2, AnswerRecord: model.AnswerRecord{Seq: 2, ElapsedMs: 2000, Correct: true}},
	}
	slow := SlowestAnswers(answers, 3)
	if len(slow) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(slow))
	}
	if !slow[0].TimedOut || slow[1].ElapsedMs != 9000 || slow[2].ElapsedMs != 4000 {
		t.Fatalf("unexpected order %+v", slow)
	}
	if got := AverageDuration(answers); got != 3*time.Second {
		t.Fatalf("expected 3s average of correct answers, got %s", got)
	}
}

func TestSessionRowsFormatsStars(t *testing.T) {
	rows := SessionRows([]model.SessionAggregate{{
		EndedAt: time.Now(), Mode: "hard", Correct: 18, Solved: 20, Stars: 3, AvgCorrectMs: 2500, Points: 540, EndReason: "completed",
	}})
	row := rows[0]
	if row[1] != "hard" || row[2] != "18/20" || row[3] != "90.0%" || row[4] != "★★★" || row[5] != "2.50s" || row[6] != "540" {
		t.Fatalf("unexpected row %v", row)
	}
	if StarString(1) != "★☆☆" || StarString(7) != "★★★" {
		t.Fatalf("unexpected star strings")
	}
}
