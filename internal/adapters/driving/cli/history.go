package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

var (
	historySince string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	Long: `List recorded analysis runs, newest first.

--since accepts a date (2026-01-31), an RFC 3339 timestamp or a natural
expression such as "yesterday", "3 days ago" or "last monday".`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.Flags().StringVar(&historySince, "since", "", "only runs started after this time")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output runs as JSON")
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	filter := domain.RunFilter{Limit: historyLimit}
	if historySince != "" {
		since, err := parseSince(historySince, time.Now())
		if err != nil {
			return err
		}
		filter.Since = since
	}

	runs, err := historyService.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if historyJSON {
		return outputHistoryJSON(cmd, runs)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for i := range runs {
		r := &runs[i]
		input := r.InputPath
		if input != DemoPath {
			input = filepath.Base(input)
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			input,
			r.Extractor,
			strconv.Itoa(r.TotalDocuments),
			strconv.Itoa(r.TotalEntities),
			fmt.Sprintf("%.3f", r.MeanConfidence),
		})
	}
	cmd.Println(renderTable(
		[]string{"id", "started", "input", "extractor", "docs", "entities", "confidence"},
		rows,
	))
	return nil
}

type historyEntry struct {
	ID             string    `json:"id"`
	InputPath      string    `json:"input_path"`
	Extractor      string    `json:"extractor"`
	Model          string    `json:"model"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	TotalDocuments int       `json:"total_documents"`
	TotalEntities  int       `json:"total_entities"`
	MeanConfidence float64   `json:"mean_confidence"`
	OutputFiles    []string  `json:"output_files"`
}

func outputHistoryJSON(cmd *cobra.Command, runs []domain.RunRecord) error {
	entries := make([]historyEntry, len(runs))
	for i := range runs {
		r := &runs[i]
		entries[i] = historyEntry{
			ID:             r.ID,
			InputPath:      r.InputPath,
			Extractor:      r.Extractor,
			Model:          r.Model,
			StartedAt:      r.StartedAt,
			CompletedAt:    r.CompletedAt,
			TotalDocuments: r.TotalDocuments,
			TotalEntities:  r.TotalEntities,
			MeanConfidence: r.MeanConfidence,
			OutputFiles:    r.OutputFiles,
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal runs: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	if err := historyService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	cmd.Printf("Deleted run %s\n", args[0])
	return nil
}

// parseSince resolves an absolute or natural-language time relative to now.
func parseSince(expr string, now time.Time) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(expr, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --since %q: %w", domain.ErrInvalidInput, expr, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: --since %q is not a recognised time", domain.ErrInvalidInput, expr)
	}
	return r.Time, nil
}
