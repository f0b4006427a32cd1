package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/chlorine05/GameAceSelection/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "gameace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleRecord(uuid, mode string, endedAt time.Time, correct, wrong, points int) model.SessionRecord {
	given := 7
	return model.SessionRecord{
		UUID:          uuid,
		StartedAt:     endedAt.Add(-time.Minute),
		EndedAt:       endedAt,
		Mode:          mode,
		QuestionCount: correct + wrong,
		Solved:        correct + wrong,
		Correct:       correct,
		Wrong:         wrong,
		Points:        points,
		Stars:         2,
		BestStreak:    correct,
		AvgCorrectMs:  1500,
		DurationMs:    60000,
		EndReason:     "completed",
		Answers: []model.AnswerRecord{
			{Seq: 1, Prompt: "20 + 10 - 5", Expected: 25, Given: &given, Correct: false, ElapsedMs: 3000},
			{Seq: 2, Prompt: "11 + 2 - 3", Expected: 10, Given: nil, TimedOut: true, ElapsedMs: 60000},
		},
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	if _, err := st.InsertSession(ctx, sampleRecord("a", "easy", base, 8, 2, 80)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertSession(ctx, sampleRecord("b", "hard", base.Add(time.Hour), 10, 10, 300)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertSession(ctx, sampleRecord("c", "easy", base.Add(48*time.Hour), 10, 0, 100)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].UUID != "a" || all[2].UUID != "c" {
		t.Fatalf("unexpected sessions %+v", all)
	}
	if !all[1].EndedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected ended_at %s", all[1].EndedAt)
	}

	easy, err := st.ListSessions(ctx, model.StatsConfig{Mode: "easy"})
	if err != nil {
		t.Fatalf("list easy: %v", err)
	}
	if len(easy) != 2 {
		t.Fatalf("expected 2 easy sessions, got %d", len(easy))
	}

	since := base.Add(24 * time.Hour)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 || recent[0].UUID != "c" {
		t.Fatalf("unexpected recent sessions %+v", recent)
	}
}

func TestListAnswersKeepsTimeouts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, err := st.InsertSession(ctx, sampleRecord("a", "medium", time.Now(), 1, 1, 20))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	answers, err := st.ListAnswersForSessions(ctx, []int64{id})
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[0].Given == nil || *answers[0].Given != 7 || answers[0].Mode != "medium" {
		t.Fatalf("unexpected first answer %+v", answers[0])
	}
	if answers[1].Given != nil || !answers[1].TimedOut {
		t.Fatalf("expected timed-out answer without a value, got %+v", answers[1])
	}
}

func TestModeAggregatesAndBestPoints(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	var ids []int64
	for i, rec := range []model.SessionRecord{
		sampleRecord("a", "easy", now, 8, 2, 80),
		sampleRecord("b", "easy", now.Add(time.Second), 10, 0, 100),
		sampleRecord("c", "hard", now.Add(2*time.Second), 5, 15, 150),
	} {
		id, err := st.InsertSession(ctx, rec)
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	aggs, err := st.ListModeAggregates(ctx, ids)
	if err != nil {
		t.Fatalf("mode aggregates: %v", err)
	}
	if len(aggs) != 2 || aggs[0].Mode != "easy" || aggs[1].Mode != "hard" {
		t.Fatalf("unexpected aggregates %+v", aggs)
	}
	if aggs[0].Sessions != 2 || aggs[0].Correct != 18 || aggs[0].BestPoints != 100 {
		t.Fatalf("unexpected easy aggregate %+v", aggs[0])
	}
	if aggs[0].AvgCorrectMs != 1500 {
		t.Fatalf("expected weighted average 1500, got %.1f", aggs[0].AvgCorrectMs)
	}

	best, err := st.BestPoints(ctx, "easy")
	if err != nil || best != 100 {
		t.Fatalf("expected best 100, got %d (%v)", best, err)
	}
	none, err := st.BestPoints(ctx, "medium")
	if err != nil || none != 0 {
		t.Fatalf("expected 0 for unplayed mode, got %d (%v)", none, err)
	}
}

func TestInsertDuplicateUUIDRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := sampleRecord("dup", "easy", time.Now(), 1, 1, 10)
	if _, err := st.InsertSession(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertSession(ctx, rec); err == nil {
		t.Fatalf("expected duplicate uuid to fail")
	}
	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected a single session after rollback, got %d", len(sessions))
	}
}

func TestListSessionsOrdersAcrossOffsets(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	plusOne := time.FixedZone("UTC+1", 60*60)
	for _, rec := range []model.SessionRecord{
		sampleRecord("half-second", "easy", time.Date(2026, 3, 29, 8, 30, 0, 500_000_000, time.UTC), 1, 0, 10),
		sampleRecord("whole-second", "easy", time.Date(2026, 3, 29, 8, 30, 0, 0, time.UTC), 1, 0, 10),
		sampleRecord("offset", "easy", time.Date(2026, 3, 29, 10, 0, 0, 0, plusTwo), 1, 0, 10),
	} {
		if _, err := st.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", rec.UUID, err)
		}
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].UUID != "offset" || all[1].UUID != "whole-second" || all[2].UUID != "half-second" {
		t.Fatalf("unexpected order %+v", all)
	}
	if !all[0].EndedAt.Equal(time.Date(2026, 3, 29, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected ended_at %s", all[0].EndedAt)
	}

	since := time.Date(2026, 3, 29, 9, 30, 0, 0, plusOne)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 || recent[0].UUID != "whole-second" {
		t.Fatalf("unexpected sessions since %s: %+v", since, recent)
	}
}
