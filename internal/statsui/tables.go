package statsui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/chlorine05/GameAceSelection/internal/model"
	"github.com/chlorine05/GameAceSelection/internal/stats"
)

type tableLayout struct {
	width  int
	height int
}

// tableTab is a scrollable table with its last applied size.
type tableTab struct {
	table  table.Model
	layout tableLayout
}

func newTableTab(columns []table.Column) *tableTab {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return &tableTab{table: t}
}

func sessionColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Mode", Width: 6},
		{Title: "Score", Width: 7},
		{Title: "Accuracy", Width: 8},
		{Title: "Stars", Width: 5},
		{Title: "Avg Time", Width: 8},
		{Title: "Points", Width: 6},
		{Title: "End", Width: 15},
	}
}

func modeColumns() []table.Column {
	return []table.Column{
		{Title: "Mode", Width: 6},
		{Title: "Sessions", Width: 8},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Time", Width: 8},
		{Title: "Points", Width: 7},
		{Title: "Best", Width: 6},
	}
}

// sessionRows lists sessions newest first.
func sessionRows(sessions []model.SessionAggregate) []table.Row {
	cells := stats.SessionRows(sessions)
	rows := make([]table.Row, 0, len(cells))
	for i := len(cells) - 1; i >= 0; i-- {
		rows = append(rows, table.Row(cells[i]))
	}
	return rows
}

func modeRows(aggs []model.ModeAggregate) []table.Row {
	cells := stats.ModeRows(aggs)
	rows := make([]table.Row, 0, len(cells))
	for _, row := range cells {
		rows = append(rows, table.Row(row))
	}
	return rows
}

func (t *tableTab) setRows(rows []table.Row) {
	t.table.SetRows(rows)
	t.table.GotoTop()
}

func (t *tableTab) setSize(width, height int) {
	viewportHeight := max(1, height-1)
	if t.layout.width == width && t.layout.height == viewportHeight {
		return
	}
	t.layout.width = width
	t.layout.height = viewportHeight
	t.table.SetWidth(width)
	t.table.SetHeight(viewportHeight)
	viewportHeight = t.adjustHeight(height)
	if t.layout.height != viewportHeight {
		t.layout.height = viewportHeight
		t.table.SetHeight(viewportHeight)
	}
}

// adjustHeight corrects the table height so the rendered view, header
// included, fills exactly bodyHeight lines.
func (t *tableTab) adjustHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := t.table.Height()
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(t.table.View())
		if viewHeight == target {
			return height
		}
		height = max(1, height+target-viewHeight)
		t.table.SetHeight(height)
	}
	return height
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
