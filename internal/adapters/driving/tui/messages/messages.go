// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewRuns lists recorded analysis runs.
	ViewRuns
	// ViewRunDetail shows the statistics of one run.
	ViewRunDetail
	// ViewSettings lists effective settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewRuns:
		return "runs"
	case ViewRunDetail:
		return "run_detail"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// RunsLoaded carries recorded runs from the history service.
type RunsLoaded struct {
	Runs []domain.RunRecord
	Err  error
}

// RunSelected opens the detail view for a run.
type RunSelected struct {
	Run domain.RunRecord
}

// RunLoaded carries a single run fetched by ID.
type RunLoaded struct {
	Run *domain.RunRecord
	Err error
}

// RunDeleted signals a run was removed from history.
type RunDeleted struct {
	ID  string
	Err error
}

// Setting is one effective configuration value.
type Setting struct {
	Key   string
	Value string
}

// SettingsLoaded carries the effective settings.
type SettingsLoaded struct {
	Settings []Setting
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
