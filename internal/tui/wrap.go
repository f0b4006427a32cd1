package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/chlorine05/GameAceSelection/internal/quiz"
)

// emptyLogText replaces the answer log when no answer was correct.
const emptyLogText = "NO SUCCESS DATA RECORDED"

// styledSegment is a pre-rendered piece of text with its display width.
type styledSegment struct {
	s       string
	width   int
	isSpace bool
}

func textSegment(plain string, render func(...string) string) styledSegment {
	return styledSegment{s: render(plain), width: runewidth.StringWidth(plain)}
}

func spaceSegment() styledSegment {
	return styledSegment{s: "  ", width: 2, isSpace: true}
}

// buildLogSegments renders one entry per correct answer, separated by
// breakable spaces.
func buildLogSegments(log []time.Duration) []styledSegment {
	out := make([]styledSegment, 0, len(log)*2)
	for i, d := range log {
		if i > 0 {
			out = append(out, spaceSegment())
		}
		label := textSegment(fmt.Sprintf("LOG_REF_%d: ", i+1), logLabelStyle.Render)
		value := textSegment(quiz.FormatSeconds(d), logValueStyle.Render)
		out = append(out, styledSegment{s: label.s + value.s, width: label.width + value.width})
	}
	return out
}

func renderSegments(segments []styledSegment) string {
	var b strings.Builder
	for _, item := range segments {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapSegments breaks the line at the last space that keeps it within width.
// A single segment wider than width gets a line of its own.
func wrapSegments(segments []styledSegment, width int) string {
	if width <= 0 {
		return renderSegments(segments)
	}
	var out strings.Builder
	line := make([]styledSegment, 0, len(segments))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(segments); {
		item := segments[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				out.WriteString(renderSegments(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
				continue
			}
			if lastSpaceIdx >= 0 {
				out.WriteString(renderSegments(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledSegment{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderSegments(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		if item.isSpace && len(line) == 0 {
			i++
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderSegments(line))
	return out.String()
}

func lineWidthOf(line []styledSegment) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledSegment) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
