// Package cli implements the nerstat command line.
// Commands reach core services through package-level driving ports that the
// binary wires with Configure before Execute.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
	"github.com/custodia-labs/nerstat/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=".
var version = "dev"

// AnalysisFactory builds an analysis service from the effective settings.
// It runs per invocation so flag and environment overrides apply.
type AnalysisFactory func() (driving.AnalysisService, error)

// ReportRenderer renders a recorded run as Markdown.
type ReportRenderer func(rec domain.RunRecord) (string, error)

// ChangeNotifier streams batched change counts under path until ctx ends.
type ChangeNotifier func(ctx context.Context, path string) (<-chan int, error)

// Services groups the collaborators the commands need.
type Services struct {
	Settings   driving.SettingsService
	History    driving.HistoryService
	Analysis   AnalysisFactory
	Renderer   ReportRenderer
	Watch      ChangeNotifier
	Vocabulary *domain.EntityVocabulary
}

var (
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	analysisFactory AnalysisFactory
	reportRenderer  ReportRenderer
	changeNotifier  ChangeNotifier
	vocabulary      = domain.DefaultEntityVocabulary()
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nerstat",
	Short: "Japanese named-entity corpus analytics",
	Long: `nerstat extracts named entities from Japanese documents and reports
corpus statistics: type distributions, TF-IDF relevance, confidence
profiles, co-occurrence and generated insights.

Runs are recorded so reports can be re-rendered and browsed later.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress to stderr")
}

// Configure installs the services used by the commands.
func Configure(s Services) {
	settingsService = s.Settings
	historyService = s.History
	analysisFactory = s.Analysis
	reportRenderer = s.Renderer
	changeNotifier = s.Watch
	if s.Vocabulary != nil {
		vocabulary = s.Vocabulary
	}
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// flagKeys maps command flags onto configuration keys.
func flagKeys() map[string]*pflag.Flag {
	f := analyzeCmd.Flags()
	return map[string]*pflag.Flag{
		"output.dir":              f.Lookup("output"),
		"output.formats":          f.Lookup("format"),
		"extractor.model":         f.Lookup("model"),
		"extractor.provider":      f.Lookup("extractor"),
		"analysis.parallelism":    f.Lookup("parallelism"),
		"analysis.context_window": f.Lookup("context-window"),
	}
}

// BindFlags binds command flags to configuration keys so they override
// stored settings for one invocation. Unset flags do not override.
func BindFlags(v *viper.Viper) error {
	for key, flag := range flagKeys() {
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}
