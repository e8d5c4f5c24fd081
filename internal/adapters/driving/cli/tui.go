package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui"
)

var tuiLatest bool

var tuiCmd = &cobra.Command{
	Use:   "tui [run-id]",
	Short: "Browse recorded runs in the terminal UI",
	Long: `Launch the interactive terminal UI for browsing recorded runs.

With a run ID (or --latest) the UI opens straight on that run.

Controls:
  ↑/k, ↓/j   Navigate
  Enter      Open run
  Tab/←/→    Switch statistics tab
  d          Delete run
  r          Reload
  Esc        Back
  q          Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiLatest, "latest", false, "open the latest run")
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the app for the given arguments.
func newTUIApp(args []string) (*tui.App, error) {
	if historyService == nil || settingsService == nil {
		return nil, errors.New("tui services not configured")
	}

	ports := tui.NewPorts(historyService, settingsService)
	ports.Vocabulary = vocabulary

	app, err := tui.NewApp(ports)
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	switch {
	case len(args) > 0:
		app.WithRun(args[0])
	case tuiLatest:
		app.WithRun("")
	}
	return app, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newTUIApp(args)
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
