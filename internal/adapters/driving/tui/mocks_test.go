package tui

import (
	"context"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

type MockHistoryService struct {
	runs []domain.RunRecord
}

func (m *MockHistoryService) List(context.Context, domain.RunFilter) ([]domain.RunRecord, error) {
	return m.runs, nil
}

func (m *MockHistoryService) Get(_ context.Context, id string) (*domain.RunRecord, error) {
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

func (m *MockHistoryService) Delete(context.Context, string) error {
	return nil
}

type MockSettingsService struct{}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *MockSettingsService) Save(*domain.AppSettings) error { return nil }

func (m *MockSettingsService) SetValue(string, string) error { return nil }

func (m *MockSettingsService) GetValue(string) (string, error) { return "value", nil }

func (m *MockSettingsService) Keys() []string { return []string{"output.dir"} }

func (m *MockSettingsService) Validate() error { return nil }

func (m *MockSettingsService) ValidateExtractorConfig() error { return nil }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *MockSettingsService) SetExtractor(domain.ExtractorProvider, string, string) error {
	return nil
}
