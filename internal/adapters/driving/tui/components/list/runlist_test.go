package list

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

func testRuns(n int) []domain.RunRecord {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	runs := make([]domain.RunRecord, n)
	for i := range runs {
		runs[i] = domain.RunRecord{
			ID:             fmt.Sprintf("run-%d", i),
			InputPath:      "/data/corpus",
			StartedAt:      base.Add(time.Duration(i) * time.Hour),
			TotalDocuments: 8,
			TotalEntities:  40 + i,
			MeanConfidence: 0.91,
		}
	}
	return runs
}

func TestRunList_Empty(t *testing.T) {
	l := NewRunList(nil)

	assert.Nil(t, l.Selected())
	assert.Contains(t, l.View(), "No runs recorded")
}

func TestRunList_Navigation(t *testing.T) {
	l := NewRunList(nil)
	l.SetRuns(testRuns(3))

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, l.SelectedIndex())

	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, l.SelectedIndex())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, l.SelectedIndex())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	require.NotNil(t, l.Selected())
	assert.Equal(t, "run-2", l.Selected().ID)
}

func TestRunList_SetRuns_ClampsSelection(t *testing.T) {
	l := NewRunList(nil)
	l.SetRuns(testRuns(3))
	l.MoveDown()
	l.MoveDown()

	l.SetRuns(testRuns(1))

	assert.Equal(t, 0, l.SelectedIndex())
}

func TestRunList_View(t *testing.T) {
	l := NewRunList(nil)
	l.SetSize(100, 20)
	l.SetRuns(testRuns(2))

	view := l.View()

	assert.Contains(t, view, "corpus")
	assert.Contains(t, view, "0.910")
	assert.Contains(t, view, "> ")
}

func TestRunList_Scrolls(t *testing.T) {
	l := NewRunList(nil)
	l.SetSize(100, 4)
	l.SetRuns(testRuns(10))

	for i := 0; i < 5; i++ {
		l.MoveDown()
	}

	assert.Equal(t, 5, l.SelectedIndex())
	assert.Contains(t, l.View(), "6/10")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "東京", truncate("東京", 5))
	assert.Equal(t, "東京都…", truncate("東京都庁舎", 4))
	assert.Equal(t, "東", truncate("東京", 1))
}
