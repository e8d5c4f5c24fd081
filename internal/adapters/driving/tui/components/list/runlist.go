// Package list provides scrollable list components for the TUI.
package list

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// TimeLayout is the run timestamp format shown in lists.
const TimeLayout = "2006-01-02 15:04"

// RunList displays recorded runs with keyboard selection.
type RunList struct {
	styles   *styles.Styles
	runs     []domain.RunRecord
	selected int
	offset   int
	width    int
	height   int
}

// NewRunList creates an empty run list.
func NewRunList(s *styles.Styles) *RunList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &RunList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *RunList) Init() tea.Cmd {
	return nil
}

// Update moves the selection on navigation keys.
func (l *RunList) Update(msg tea.Msg) (*RunList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
			l.offset = 0
		case "end", "G":
			if len(l.runs) > 0 {
				l.selected = len(l.runs) - 1
				l.adjustOffset()
			}
		}
	}
	return l, nil
}

// View renders the visible window of runs.
func (l *RunList) View() string {
	if len(l.runs) == 0 {
		return l.styles.Muted.Render("No runs recorded. Run `nerstat analyze` first.")
	}

	var b strings.Builder
	b.WriteString(l.styles.Header.Render(
		fmt.Sprintf("  %-16s  %-24s  %5s  %7s  %6s", "started", "input", "docs", "entities", "conf"),
	))
	b.WriteString("\n")

	end := l.offset + l.visibleRows()
	if end > len(l.runs) {
		end = len(l.runs)
	}
	for i := l.offset; i < end; i++ {
		line := l.renderRow(l.runs[i])
		if i == l.selected {
			b.WriteString(l.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(l.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(l.runs) > l.visibleRows() {
		b.WriteString(l.styles.Muted.Render(fmt.Sprintf("%d/%d", l.selected+1, len(l.runs))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (l *RunList) renderRow(r domain.RunRecord) string {
	input := r.InputPath
	if input != "demo" {
		input = filepath.Base(input)
	}
	return fmt.Sprintf("%-16s  %-24s  %5d  %8d  %6.3f",
		r.StartedAt.Local().Format(TimeLayout),
		truncate(input, 24),
		r.TotalDocuments,
		r.TotalEntities,
		r.MeanConfidence,
	)
}

func (l *RunList) visibleRows() int {
	// Header and position footer take two lines.
	rows := l.height - 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (l *RunList) adjustOffset() {
	rows := l.visibleRows()
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+rows {
		l.offset = l.selected - rows + 1
	}
}

// MoveUp selects the previous run.
func (l *RunList) MoveUp() {
	if l.selected > 0 {
		l.selected--
		l.adjustOffset()
	}
}

// MoveDown selects the next run.
func (l *RunList) MoveDown() {
	if l.selected < len(l.runs)-1 {
		l.selected++
		l.adjustOffset()
	}
}

// SetRuns replaces the runs, keeping the selection in range.
func (l *RunList) SetRuns(runs []domain.RunRecord) {
	l.runs = runs
	if l.selected >= len(runs) {
		l.selected = len(runs) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.offset = 0
	l.adjustOffset()
}

// Runs returns the listed runs.
func (l *RunList) Runs() []domain.RunRecord {
	return l.runs
}

// Selected returns the selected run, or nil when the list is empty.
func (l *RunList) Selected() *domain.RunRecord {
	if len(l.runs) == 0 {
		return nil
	}
	return &l.runs[l.selected]
}

// SelectedIndex returns the selected position.
func (l *RunList) SelectedIndex() int {
	return l.selected
}

// SetSize sets the list dimensions.
func (l *RunList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.adjustOffset()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
