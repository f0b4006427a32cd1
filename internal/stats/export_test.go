package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chlorine05/GameAceSelection/internal/model"
)

func TestWriteExportJSON(t *testing.T) {
	st, _ := seedStore(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	export, err := BuildExport(context.Background(), st, model.StatsConfig{Mode: "easy"}, now)
	if err != nil {
		t.Fatalf("build export: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteExport(&buf, export, FormatJSON); err != nil {
		t.Fatalf("write export: %v", err)
	}
	var decoded HistoryExport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.ExportID == "" || !decoded.GeneratedAt.Equal(now) || decoded.Filter.Mode != "easy" {
		t.Fatalf("unexpected header %+v", decoded)
	}
	if len(decoded.Sessions) != 2 {
		t.Fatalf("expected 2 easy sessions, got %d", len(decoded.Sessions))
	}
	first := decoded.Sessions[0]
	if len(first.Answers) != 2 || first.Answers[0].Given == nil || *first.Answers[0].Given != 3 {
		t.Fatalf("unexpected answers %+v", first.Answers)
	}
	if first.Accuracy != 50 {
		t.Fatalf("expected 50%% accuracy, got %.2f", first.Accuracy)
	}
}

func TestWriteExportYAML(t *testing.T) {
	export := NewExport([]model.SessionAggregate{{SessionID: 7, UUID: "x", Mode: "hard", Solved: 1, Correct: 0, Wrong: 1}},
		[]model.SessionAnswer{{SessionID: 7, AnswerRecord: model.AnswerRecord{Seq: 1, Prompt: "5 + 5 - 5", Expected: 5, TimedOut: true, ElapsedMs: 60000}}},
		model.StatsConfig{}, time.Now())
	var buf bytes.Buffer
	if err := WriteExport(&buf, export, FormatYAML); err != nil {
		t.Fatalf("write export: %v", err)
	}
	var decoded HistoryExport
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(decoded.Sessions) != 1 || decoded.Sessions[0].UUID != "x" {
		t.Fatalf("unexpected sessions %+v", decoded.Sessions)
	}
	answer := decoded.Sessions[0].Answers[0]
	if !answer.TimedOut || answer.Given != nil {
		t.Fatalf("expected timeout without a given value, got %+v", answer)
	}
}

func TestWriteExportRejectsUnknownFormat(t *testing.T) {
	if err := WriteExport(&bytes.Buffer{}, HistoryExport{}, "csv"); err == nil {
		t.Fatalf("expected error for csv")
	}
}
