package stats

import (
	"bytes"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Mode", "Accuracy", "Points"}
	rows := [][]string{
		{"easy", "97.50%", "90"},
		{"medium", "8.00%", "140"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Mode   Accuracy Points" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "easy     97.50%     90" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "medium    8.00%    140" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableUsesDisplayWidth(t *testing.T) {
	lines := FormatTable([]string{"Mode", "Points"}, [][]string{
		{"数学", "80"},
		{"easy", "150"},
	}, map[int]bool{1: true})
	if lines[1] != "数学     80" {
		t.Fatalf("expected wide runes to count double, got %q", lines[1])
	}
	if lines[2] != "easy    150" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderTableWritesLines(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTable(&buf, []string{"A"}, [][]string{{"1"}}, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "A\n1\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
