package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var reportRaw bool

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Show the Markdown report of a recorded run",
	Long: `Render the analysis report of a recorded run in the terminal.
Without a run ID the latest run is shown. Use --raw to print plain Markdown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "print Markdown without terminal rendering")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	if reportRenderer == nil {
		return errors.New("report renderer not configured")
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	rec, err := historyService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}

	md, err := reportRenderer(*rec)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if reportRaw {
		cmd.Print(md)
		return nil
	}

	out, err := renderMarkdown(md, terminalWidth(), isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	cmd.Print(out)
	return nil
}

// renderMarkdown styles md for the terminal; without a TTY it uses the
// colourless style so pipes and files stay readable.
func renderMarkdown(md string, width int, tty bool) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
