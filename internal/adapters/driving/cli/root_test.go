package cli

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

// mockAnalysisService implements driving.AnalysisService.
type mockAnalysisService struct {
	mu    sync.Mutex
	run   *domain.AnalysisRun
	err   error
	calls []driving.AnalyzeRequest
}

func (m *mockAnalysisService) Analyze(_ context.Context, req driving.AnalyzeRequest) (*domain.AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	run := *m.run
	run.InputPath = req.Path
	return &run, nil
}

func (m *mockAnalysisService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockHistoryService implements driving.HistoryService.
type mockHistoryService struct {
	runs       []domain.RunRecord
	err        error
	lastFilter domain.RunFilter
	deleted    []string
}

func (m *mockHistoryService) List(_ context.Context, filter domain.RunFilter) ([]domain.RunRecord, error) {
	m.lastFilter = filter
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if id == "" && len(m.runs) > 0 {
		return &m.runs[0], nil
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Delete(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return fmt.Errorf("run %s: %w", id, err)
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockSettingsService implements driving.SettingsService over a map.
type mockSettingsService struct {
	values      map[string]string
	setErr      error
	validateErr error
	pingErr     error
	extractor   []string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettingsService) Save(*domain.AppSettings) error { return nil }

func (m *mockSettingsService) SetValue(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) GetValue(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown key %s", domain.ErrInvalidInput, key)
	}
	return v, nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"extractor.provider", "extractor.api_token", "output.dir"}
}

func (m *mockSettingsService) SetExtractor(p domain.ExtractorProvider, model, baseURL string) error {
	m.extractor = []string{p.String(), model, baseURL}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) ValidateExtractorConfig() error { return m.pingErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

type testEnv struct {
	analysis *mockAnalysisService
	history  *mockHistoryService
	settings *mockSettingsService
	changes  chan int
}

func testStatistics() *domain.CorpusStatistics {
	types := domain.NewOrderedCounts()
	types.Add("PER", 1)
	types.Add("LOC", 2)
	words := domain.NewOrderedCounts()
	words.Add("東京", 2)
	words.Add("田中", 1)
	return &domain.CorpusStatistics{
		TotalDocuments:         2,
		TotalEntities:          3,
		AvgEntitiesPerDoc:      1.5,
		EntityTypeCounts:       types,
		EntityWordCounts:       words,
		MostCommonEntities:     words.Entries(),
		EntityTypeDistribution: map[string]float64{"PER": 33.33, "LOC": 66.67},
		Quality:                &domain.QualityProfile{Count: 3, Mean: 0.93},
	}
}

// setupTestServices swaps the package services for mocks.
func setupTestServices() (*testEnv, func()) {
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	env := &testEnv{
		analysis: &mockAnalysisService{run: &domain.AnalysisRun{
			ID:          "3f1c9a7e-0000-4000-8000-000000000001",
			Extractor:   "dictionary",
			Model:       "builtin",
			StartedAt:   start,
			CompletedAt: start.Add(250 * time.Millisecond),
			Statistics:  testStatistics(),
			OutputFiles: []string{"output/ner_results.csv"},
		}},
		history: &mockHistoryService{runs: []domain.RunRecord{
			{
				ID: "3f1c9a7e-0000-4000-8000-000000000001", InputPath: "demo", Extractor: "dictionary",
				StartedAt: start, TotalDocuments: 8, TotalEntities: 31, MeanConfidence: 0.95,
			},
			{
				ID: "77aa0000-0000-4000-8000-000000000002", InputPath: "/data/news", Extractor: "huggingface",
				StartedAt: start.Add(-24 * time.Hour), TotalDocuments: 3, TotalEntities: 12, MeanConfidence: 0.88,
			},
		}},
		settings: &mockSettingsService{values: map[string]string{
			"extractor.provider":  "huggingface",
			"extractor.api_token": "hf_0123456789abcd",
			"output.dir":          "output",
		}},
		changes: make(chan int, 4),
	}

	old := Services{
		Settings:   settingsService,
		History:    historyService,
		Analysis:   analysisFactory,
		Renderer:   reportRenderer,
		Watch:      changeNotifier,
		Vocabulary: vocabulary,
	}
	Configure(Services{
		Settings: env.settings,
		History:  env.history,
		Analysis: func() (driving.AnalysisService, error) { return env.analysis, nil },
		Renderer: func(rec domain.RunRecord) (string, error) {
			return "# 固有表現分析レポート\n\n## 分析概要\n\n- 実行ID: " + rec.ID + "\n", nil
		},
		Watch: func(context.Context, string) (<-chan int, error) { return env.changes, nil },
	})

	return env, func() {
		settingsService = old.Settings
		historyService = old.History
		analysisFactory = old.Analysis
		reportRenderer = old.Renderer
		changeNotifier = old.Watch
		vocabulary = old.Vocabulary
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "nerstat", rootCmd.Use)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"analyze", "report", "history", "config", "tui", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestConfigure_KeepsVocabularyWhenNil(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	assert.Equal(t, "場所・地名", vocabulary.Describe("LOC"))
}

func TestBindFlags(t *testing.T) {
	v := viper.New()
	require.NoError(t, BindFlags(v))

	assert.False(t, v.IsSet("output.dir"))

	require.NoError(t, analyzeCmd.Flags().Set("output", "reports"))
	require.NoError(t, analyzeCmd.Flags().Set("parallelism", "8"))
	defer func() {
		_ = analyzeCmd.Flags().Set("output", "")
		_ = analyzeCmd.Flags().Set("parallelism", "0")
	}()

	assert.True(t, v.IsSet("output.dir"))
	assert.Equal(t, "reports", v.GetString("output.dir"))
	assert.Equal(t, 8, v.GetInt("analysis.parallelism"))
}

func TestFlagKeys_AllFlagsExist(t *testing.T) {
	for key, flag := range flagKeys() {
		assert.NotNil(t, flag, key)
	}
}
