package runs

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/nerstat/internal/core/domain"
)

type mockHistory struct {
	runs      []domain.RunRecord
	listErr   error
	deleteErr error
	deleted   []string
	lastLimit int
}

func (m *mockHistory) List(_ context.Context, filter domain.RunFilter) ([]domain.RunRecord, error) {
	m.lastLimit = filter.Limit
	return m.runs, m.listErr
}

func (m *mockHistory) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistory) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func testRuns() []domain.RunRecord {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return []domain.RunRecord{
		{ID: "aaaaaaaa-1111", InputPath: "demo", StartedAt: now, TotalDocuments: 8, TotalEntities: 31},
		{ID: "bbbbbbbb-2222", InputPath: "/tmp/news", StartedAt: now.Add(-time.Hour), TotalDocuments: 3},
	}
}

func newLoadedView(t *testing.T, h *mockHistory) *View {
	t.Helper()
	v := NewView(nil, h)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func TestView_Init_LoadsRuns(t *testing.T) {
	h := &mockHistory{runs: testRuns()}

	v := newLoadedView(t, h)

	assert.Len(t, v.Runs(), 2)
	assert.Equal(t, PageSize, h.lastLimit)
	assert.NoError(t, v.Err())
	assert.Contains(t, v.View(), "demo")
}

func TestView_Init_NilService(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(80, 24)

	v.Update(v.Init()())

	assert.ErrorIs(t, v.Err(), errNoHistory)
}

func TestView_LoadError(t *testing.T) {
	h := &mockHistory{listErr: errors.New("db closed")}

	v := newLoadedView(t, h)

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "db closed")
}

func TestView_Select(t *testing.T) {
	v := newLoadedView(t, &mockHistory{runs: testRuns()})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.RunSelected)
	require.True(t, ok)
	assert.Equal(t, "bbbbbbbb-2222", msg.Run.ID)
}

func TestView_Back(t *testing.T) {
	v := newLoadedView(t, &mockHistory{runs: testRuns()})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Delete_Confirmed(t *testing.T) {
	h := &mockHistory{runs: testRuns()}
	v := newLoadedView(t, h)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Nil(t, cmd)
	assert.True(t, v.Confirming())
	assert.Contains(t, v.View(), "Delete run aaaaaaaa?")

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	deleted := cmd()
	assert.Equal(t, messages.RunDeleted{ID: "aaaaaaaa-1111"}, deleted)
	assert.Equal(t, []string{"aaaaaaaa-1111"}, h.deleted)

	_, reload := v.Update(deleted)
	require.NotNil(t, reload)
	assert.IsType(t, messages.RunsLoaded{}, reload())
}

func TestView_Delete_Cancelled(t *testing.T) {
	h := &mockHistory{runs: testRuns()}
	v := newLoadedView(t, h)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	assert.Nil(t, cmd)
	assert.False(t, v.Confirming())
	assert.Empty(t, h.deleted)
}

func TestView_Delete_Error(t *testing.T) {
	v := newLoadedView(t, &mockHistory{runs: testRuns()})

	_, cmd := v.Update(messages.RunDeleted{ID: "x", Err: domain.ErrNotFound})

	assert.Nil(t, cmd)
	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
}

func TestView_Reload(t *testing.T) {
	v := newLoadedView(t, &mockHistory{runs: testRuns()})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	require.NotNil(t, cmd)
	assert.Contains(t, v.View(), "Loading runs...")
}

func TestView_NotReady(t *testing.T) {
	v := NewView(nil, &mockHistory{})

	assert.Equal(t, "Initialising...", v.View())
}
