package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
	"github.com/custodia-labs/nerstat/internal/logger"
)

// DemoPath selects the built-in sample corpus.
const DemoPath = "demo"

var (
	analyzeWatch    bool
	analyzeNoReport bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Extract entities and report corpus statistics",
	Long: `Analyze a .txt file, a .json file or a directory of .txt files.
Without a path the built-in demo corpus is analysed.

Reports are written to the output directory (CSV, Markdown and JSON by
default) and the run is recorded in history.

Flags override stored settings for this run only. The same keys can be
set through NERSTAT_* environment variables, e.g. NERSTAT_OUTPUT_DIR.`,
	Example: `  nerstat analyze
  nerstat analyze ./news -o reports --format csv,markdown
  nerstat analyze article.txt --extractor ollama -m qwen2.5:7b
  nerstat analyze ./news --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringP("output", "o", "", "output directory")
	f.StringP("model", "m", "", "extraction model name")
	f.String("extractor", "", "extractor provider (huggingface, ollama, dictionary)")
	f.String("format", "", "comma-separated report formats (csv, markdown, json)")
	f.Int("parallelism", 0, "documents extracted concurrently")
	f.Int("context-window", 0, "characters kept around each entity occurrence")
	f.BoolVarP(&analyzeWatch, "watch", "w", false, "re-run when the input changes")
	f.BoolVar(&analyzeNoReport, "no-report", false, "record the run without writing report files")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisFactory == nil {
		return errors.New("analysis service not configured")
	}

	path := DemoPath
	if len(args) > 0 {
		path = args[0]
	}
	if analyzeWatch && path == DemoPath {
		return fmt.Errorf("%w: --watch needs a file or directory", domain.ErrInvalidInput)
	}

	svc, err := analysisFactory()
	if err != nil {
		return fmt.Errorf("analysis setup failed: %w", err)
	}

	req := driving.AnalyzeRequest{
		Path:        path,
		SkipReports: analyzeNoReport,
	}
	if isTerminal(os.Stderr) {
		req.OnProgress = progressPrinter(cmd.ErrOrStderr())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := svc.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	printRunSummary(cmd.OutOrStdout(), run)

	if !analyzeWatch {
		return nil
	}
	return watchAndAnalyze(ctx, cmd, svc, req)
}

func watchAndAnalyze(ctx context.Context, cmd *cobra.Command, svc driving.AnalysisService, req driving.AnalyzeRequest) error {
	if changeNotifier == nil {
		return errors.New("watch not configured")
	}
	changes, err := changeNotifier(ctx, req.Path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", req.Path, err)
	}

	cmd.Printf("Watching %s for changes (ctrl+c to stop)\n", req.Path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("%d change(s) under %s", n, req.Path)
			run, err := svc.Analyze(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// Keep watching: a half-written file is fixed by the next save.
				cmd.PrintErrf("analysis failed: %v\n", err)
				continue
			}
			printRunSummary(cmd.OutOrStdout(), run)
		}
	}
}

func progressPrinter(w io.Writer) func(done, total int) {
	return func(done, total int) {
		fmt.Fprintf(w, "\rextracting %d/%d", done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

func printRunSummary(w io.Writer, run *domain.AnalysisRun) {
	stats := run.Statistics
	if stats == nil {
		stats = &domain.CorpusStatistics{}
	}

	fmt.Fprintln(w, labelStyle.Render("Run "+run.ID))
	fmt.Fprintf(w, "  input      %s\n", run.InputPath)
	fmt.Fprintf(w, "  extractor  %s (%s)\n", run.Extractor, run.Model)
	fmt.Fprintf(w, "  documents  %d\n", stats.TotalDocuments)
	fmt.Fprintf(w, "  entities   %d (%.2f per document)\n", stats.TotalEntities, stats.AvgEntitiesPerDoc)
	if stats.Quality != nil {
		fmt.Fprintf(w, "  confidence %.3f mean, %d low\n", stats.Quality.Mean, stats.Quality.LowConfidenceCount)
	}
	fmt.Fprintf(w, "  duration   %s\n", run.Duration().Round(time.Millisecond))

	if stats.EntityTypeCounts.Len() > 0 {
		fmt.Fprintln(w, renderTable(
			[]string{"type", "description", "count", "share"},
			typeRows(stats),
		))
	}

	if len(stats.MostCommonEntities) > 0 {
		top := stats.MostCommonEntities
		if len(top) > 5 {
			top = top[:5]
		}
		words := make([]string, len(top))
		for i, e := range top {
			words[i] = fmt.Sprintf("%s (%d)", e.Key, e.Count)
		}
		fmt.Fprintf(w, "  top        %s\n", strings.Join(words, ", "))
	}

	if len(run.OutputFiles) > 0 {
		fmt.Fprintln(w, "  reports")
		for _, f := range run.OutputFiles {
			fmt.Fprintf(w, "    %s\n", f)
		}
	}
}

func typeRows(stats *domain.CorpusStatistics) [][]string {
	entries := stats.EntityTypeCounts.Entries()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Key,
			vocabulary.Describe(e.Key),
			strconv.Itoa(e.Count),
			fmt.Sprintf("%.1f%%", stats.EntityTypeDistribution[e.Key]),
		})
	}
	return rows
}
