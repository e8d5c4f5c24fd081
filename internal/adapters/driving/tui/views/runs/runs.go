// Package runs provides the run history view for the TUI.
package runs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

// PageSize is the number of runs loaded into the view.
const PageSize = 200

var errNoHistory = errors.New("history service not available")

// View lists recorded runs and lets the user open or delete them.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	history driving.HistoryService

	list   *list.RunList
	bar    *status.Bar
	width  int
	height int
	ready  bool

	loading bool
	err     error

	// confirming holds the ID of a run awaiting delete confirmation.
	confirming string
}

// NewView creates a new run history view.
func NewView(s *styles.Styles, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.RunsHelp())
	return &View{
		styles:  s,
		keymap:  km,
		history: history,
		list:    list.NewRunList(s),
		bar:     bar,
		width:   80,
		height:  24,
	}
}

// Init loads the run history.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.confirming = ""
	v.bar.SetState(status.StateLoading)
	return v.loadRuns()
}

func (v *View) loadRuns() tea.Cmd {
	history := v.history
	return func() tea.Msg {
		if history == nil {
			return messages.RunsLoaded{Err: errNoHistory}
		}
		runs, err := history.List(context.Background(), domain.RunFilter{Limit: PageSize})
		return messages.RunsLoaded{Runs: runs, Err: err}
	}
}

func (v *View) deleteRun(id string) tea.Cmd {
	history := v.history
	return func() tea.Msg {
		if history == nil {
			return messages.RunDeleted{ID: id, Err: errNoHistory}
		}
		return messages.RunDeleted{ID: id, Err: history.Delete(context.Background(), id)}
	}
}

// Update handles messages for the run history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.RunsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.list.SetRuns(msg.Runs)
		v.bar.SetState(status.StateReady)
		v.bar.SetRunCount(len(msg.Runs))
		return v, nil

	case messages.RunDeleted:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.bar.SetMessage(fmt.Sprintf("deleted %s", shortID(msg.ID)))
		return v, v.loadRuns()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirming != "" {
		id := v.confirming
		v.confirming = ""
		if msg.String() == "y" || msg.String() == "Y" {
			return v, v.deleteRun(id)
		}
		v.bar.SetMessage("")
		return v, nil
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Select):
		if run := v.list.Selected(); run != nil {
			selected := *run
			return v, func() tea.Msg {
				return messages.RunSelected{Run: selected}
			}
		}
	case keymap.Matches(msg.String(), v.keymap.Delete):
		if run := v.list.Selected(); run != nil {
			v.confirming = run.ID
		}
	case keymap.Matches(msg.String(), v.keymap.Reload):
		v.bar.SetMessage("")
		return v, v.Init()
	default:
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

func (v *View) setError(err error) {
	v.err = err
	v.bar.SetState(status.StateError)
	v.bar.SetMessage(err.Error())
}

// View renders the run history.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Runs"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading runs..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	if v.confirming != "" {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete run %s? [y/N]", shortID(v.confirming))))
		b.WriteString("\n")
	}
	b.WriteString(v.bar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
	// Title, spacing, prompt and status bar.
	v.list.SetSize(width, height-6)
}

// Runs returns the listed runs.
func (v *View) Runs() []domain.RunRecord {
	return v.list.Runs()
}

// Err returns the last load or delete error.
func (v *View) Err() error {
	return v.err
}

// Confirming reports whether a delete is awaiting confirmation.
func (v *View) Confirming() bool {
	return v.confirming != ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
