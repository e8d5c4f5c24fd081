package driving

import "github.com/custodia-labs/nerstat/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetValue parses and stores a single setting by key.
	SetValue(key, value string) error

	// GetValue returns the effective value of a setting by key.
	GetValue(key string) (string, error)

	// Keys returns the supported setting keys in display order.
	Keys() []string

	// SetExtractor configures the extraction provider.
	SetExtractor(provider domain.ExtractorProvider, model, baseURL string) error

	// Validate checks if current settings can drive an analysis.
	Validate() error

	// ValidateExtractorConfig builds the configured backend and pings it.
	ValidateExtractorConfig() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
