package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

// analyzeFunc adapts a function to driving.AnalysisService.
type analyzeFunc func(req driving.AnalyzeRequest) (*domain.AnalysisRun, error)

func (f analyzeFunc) Analyze(_ context.Context, req driving.AnalyzeRequest) (*domain.AnalysisRun, error) {
	return f(req)
}

func resetAnalyzeFlags() {
	analyzeWatch = false
	analyzeNoReport = false
}

func TestAnalyzeCmd_Use(t *testing.T) {
	assert.Equal(t, "analyze [path]", analyzeCmd.Use)
	assert.Equal(t, "Extract entities and report corpus statistics", analyzeCmd.Short)
}

func TestAnalyzeCmd_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"output", "o"},
		{"model", "m"},
		{"extractor", ""},
		{"format", ""},
		{"parallelism", ""},
		{"context-window", ""},
		{"watch", "w"},
		{"no-report", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := analyzeCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestAnalyzeCmd_DefaultsToDemo(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetAnalyzeFlags()
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	require.Len(t, env.analysis.calls, 1)
	assert.Equal(t, DemoPath, env.analysis.calls[0].Path)

	out := buf.String()
	assert.Contains(t, out, "Run 3f1c9a7e")
	assert.Contains(t, out, "documents  2")
	assert.Contains(t, out, "1.50 per document")
	assert.Contains(t, out, "場所・地名")
	assert.Contains(t, out, "東京 (2)")
	assert.Contains(t, out, "output/ner_results.csv")
	assert.Contains(t, out, "250ms")
}

func TestAnalyzeCmd_NoReport(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "corpus", "--no-report"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetAnalyzeFlags()
	}()

	require.NoError(t, rootCmd.Execute())
	require.Len(t, env.analysis.calls, 1)
	assert.True(t, env.analysis.calls[0].SkipReports)
	assert.Equal(t, "corpus", env.analysis.calls[0].Path)
}

func TestAnalyzeCmd_PropagatesErrors(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.analysis.err = domain.ErrAnalysisInProgress

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyze", "corpus"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetAnalyzeFlags()
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrAnalysisInProgress)
}

func TestAnalyzeCmd_FactoryError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	analysisFactory = func() (driving.AnalysisService, error) {
		return nil, errors.New("extractor not configured")
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyze"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetAnalyzeFlags()
	}()

	err := rootCmd.Execute()

	assert.ErrorContains(t, err, "analysis setup failed: extractor not configured")
}

func TestAnalyzeCmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	analysisFactory = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyze"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.EqualError(t, err, "analysis service not configured")
}

func TestAnalyzeCmd_WatchRejectsDemo(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyze", "--watch"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetAnalyzeFlags()
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalyzeCmd_WatchReanalyzesOnChange(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.changes <- 2
	env.changes <- 1
	close(env.changes)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "corpus", "--watch"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetAnalyzeFlags()
	}()

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, 3, env.analysis.Calls())
	assert.Contains(t, buf.String(), "Watching corpus for changes")
}

func TestAnalyzeCmd_WatchSurvivesFailedRerun(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.changes <- 1
	close(env.changes)

	analysis := env.analysis
	first := true
	analysisFactory = func() (driving.AnalysisService, error) {
		return analyzeFunc(func(req driving.AnalyzeRequest) (*domain.AnalysisRun, error) {
			if first {
				first = false
				return analysis.Analyze(context.Background(), req)
			}
			return nil, errors.New("half-written file")
		}), nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"analyze", "corpus", "-w"})
	defer func() {
		rootCmd.SetArgs(nil)
		resetAnalyzeFlags()
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "analysis failed: half-written file")
}

func TestProgressPrinter(t *testing.T) {
	buf := new(bytes.Buffer)
	progress := progressPrinter(buf)

	progress(1, 2)
	progress(2, 2)

	assert.Equal(t, "\rextracting 1/2\rextracting 2/2\n", buf.String())
}

func TestTypeRows_OrderedByCount(t *testing.T) {
	rows := typeRows(testStatistics())

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"LOC", "場所・地名", "2", "66.7%"}, rows[0])
	assert.Equal(t, "PER", rows[1][0])
}
