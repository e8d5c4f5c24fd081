// Package settings provides a read-only view of the effective configuration.
package settings

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

var errNoSettings = errors.New("settings service not available")

// View lists every setting key with its effective value.
// Values are edited with `nerstat config set`.
type View struct {
	styles   *styles.Styles
	service  driving.SettingsService
	entries  []messages.Setting
	selected int
	width    int
	height   int
	ready    bool
	err      error
}

// NewView creates a settings view.
func NewView(s *styles.Styles, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, service: service}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: errNoSettings}
		}
		keys := service.Keys()
		entries := make([]messages.Setting, 0, len(keys))
		for _, k := range keys {
			val, err := service.GetValue(k)
			if err != nil {
				return messages.SettingsLoaded{Err: fmt.Errorf("%s: %w", k, err)}
			}
			entries = append(entries, messages.Setting{Key: k, Value: mask(k, val)})
		}
		return messages.SettingsLoaded{Settings: entries}
	}
}

// Reset clears loaded state before re-entering the view.
func (v *View) Reset() {
	v.entries = nil
	v.selected = 0
	v.err = nil
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case messages.SettingsLoaded:
		v.err = msg.Err
		v.entries = msg.Settings
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.entries)-1 {
				v.selected++
			}
		case "r":
			v.Reset()
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the settings table.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}

	width := 0
	for _, e := range v.entries {
		if len(e.Key) > width {
			width = len(e.Key)
		}
	}
	for i, e := range v.entries {
		line := fmt.Sprintf("%-*s  %s", width, e.Key, e.Value)
		if e.Value == "" {
			line = fmt.Sprintf("%-*s  %s", width, e.Key, v.styles.Muted.Render("(unset)"))
		}
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [r] Reload  [esc] Back  ·  edit with `nerstat config set`"))
	return b.String()
}

// Entries returns the loaded settings.
func (v *View) Entries() []messages.Setting {
	return v.entries
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

func mask(key, value string) string {
	if value == "" || !strings.HasSuffix(key, "token") {
		return value
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
