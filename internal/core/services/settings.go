package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyExtractorProvider  = "extractor.provider"
	KeyExtractorModel     = "extractor.model"
	KeyExtractorBaseURL   = "extractor.base_url"
	KeyExtractorAPIToken  = "extractor.api_token"
	KeyExtractorRateLimit = "extractor.rate_limit"
	KeyExtractorTimeout   = "extractor.timeout"
	KeyExtractorDict      = "extractor.dictionary"
	KeyChunkMaxTokens     = "chunking.max_tokens"
	KeyChunkOverlap       = "chunking.overlap"
	KeyChunkTokenizer     = "chunking.tokenizer"
	KeyAnalysisParallel   = "analysis.parallelism"
	KeyAnalysisContext    = "analysis.context_window"
	KeyOutputDir          = "output.dir"
	KeyOutputFormats      = "output.formats"
	KeyLogDir             = "log.dir"
	KeyVocabularyPath     = "vocabulary.path"
	KeyCacheSize          = "cache.size"
)

// settingKeys is the display order of supported keys.
var settingKeys = []string{
	KeyExtractorProvider,
	KeyExtractorModel,
	KeyExtractorBaseURL,
	KeyExtractorAPIToken,
	KeyExtractorRateLimit,
	KeyExtractorTimeout,
	KeyExtractorDict,
	KeyChunkMaxTokens,
	KeyChunkOverlap,
	KeyChunkTokenizer,
	KeyAnalysisParallel,
	KeyAnalysisContext,
	KeyOutputDir,
	KeyOutputFormats,
	KeyLogDir,
	KeyVocabularyPath,
	KeyCacheSize,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.ExtractorValidator
}

// NewSettingsService creates a new settings service.
// The validator may be nil, in which case connectivity checks are skipped.
func NewSettingsService(configStore driven.ConfigStore, validator driven.ExtractorValidator) *SettingsService {
	return &SettingsService{configStore: configStore, validator: validator}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Extractor: domain.ExtractorSettings{
			Provider:       s.getProvider(defaults.Extractor.Provider),
			Model:          s.getString(KeyExtractorModel, defaults.Extractor.Model),
			BaseURL:        s.getString(KeyExtractorBaseURL, defaults.Extractor.BaseURL),
			APIToken:       s.configStore.GetString(KeyExtractorAPIToken),
			RateLimit:      s.getFloat(KeyExtractorRateLimit, defaults.Extractor.RateLimit),
			Timeout:        s.getDuration(KeyExtractorTimeout, defaults.Extractor.Timeout),
			DictionaryPath: s.configStore.GetString(KeyExtractorDict),
			CacheSize:      s.getInt(KeyCacheSize, defaults.Extractor.CacheSize),
		},
		Chunking: domain.ChunkSettings{
			MaxTokens:     s.getInt(KeyChunkMaxTokens, defaults.Chunking.MaxTokens),
			Overlap:       s.getInt(KeyChunkOverlap, defaults.Chunking.Overlap),
			MergeDistance: defaults.Chunking.MergeDistance,
			MergeRatio:    defaults.Chunking.MergeRatio,
			Tokenizer:     s.getTokenizer(defaults.Chunking.Tokenizer),
			Encoding:      defaults.Chunking.Encoding,
		},
		Analysis: domain.AnalysisSettings{
			Parallelism:   s.getInt(KeyAnalysisParallel, defaults.Analysis.Parallelism),
			ContextWindow: s.getInt(KeyAnalysisContext, defaults.Analysis.ContextWindow),
		},
		Output: domain.OutputSettings{
			Dir:     s.getString(KeyOutputDir, defaults.Output.Dir),
			Formats: s.getFormats(defaults.Output.Formats),
		},
		Log: domain.LogSettings{
			Dir:        s.getString(KeyLogDir, defaults.Log.Dir),
			MaxSizeMB:  defaults.Log.MaxSizeMB,
			MaxBackups: defaults.Log.MaxBackups,
		},
		VocabularyPath: s.configStore.GetString(KeyVocabularyPath),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	formats := make([]string, len(settings.Output.Formats))
	for i, f := range settings.Output.Formats {
		formats[i] = f.String()
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyExtractorProvider, settings.Extractor.Provider.String()},
		{KeyExtractorModel, settings.Extractor.Model},
		{KeyExtractorBaseURL, settings.Extractor.BaseURL},
		{KeyExtractorRateLimit, settings.Extractor.RateLimit},
		{KeyExtractorTimeout, settings.Extractor.Timeout.String()},
		{KeyExtractorDict, settings.Extractor.DictionaryPath},
		{KeyCacheSize, settings.Extractor.CacheSize},
		{KeyChunkMaxTokens, settings.Chunking.MaxTokens},
		{KeyChunkOverlap, settings.Chunking.Overlap},
		{KeyChunkTokenizer, settings.Chunking.Tokenizer.String()},
		{KeyAnalysisParallel, settings.Analysis.Parallelism},
		{KeyAnalysisContext, settings.Analysis.ContextWindow},
		{KeyOutputDir, settings.Output.Dir},
		{KeyOutputFormats, formats},
		{KeyLogDir, settings.Log.Dir},
		{KeyVocabularyPath, settings.VocabularyPath},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Extractor.APIToken != "" {
		if err := s.configStore.Set(KeyExtractorAPIToken, settings.Extractor.APIToken); err != nil {
			return fmt.Errorf("save %s: %w", KeyExtractorAPIToken, err)
		}
	}

	return nil
}

// SetValue parses and stores a single setting by key.
//
//nolint:gocyclo // One case per supported key.
func (s *SettingsService) SetValue(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case KeyExtractorProvider:
		p := domain.ExtractorProvider(value)
		if !p.IsValid() {
			return fmt.Errorf("%w: extractor provider %q", domain.ErrUnsupportedType, value)
		}
		stored = value
	case KeyChunkTokenizer:
		k := domain.TokenizerKind(value)
		if !k.IsValid() {
			return fmt.Errorf("%w: tokenizer %q", domain.ErrUnsupportedType, value)
		}
		stored = value
	case KeyChunkMaxTokens, KeyChunkOverlap, KeyAnalysisParallel, KeyAnalysisContext, KeyCacheSize:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case KeyExtractorRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		stored = f
	case KeyExtractorTimeout:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s must be a duration: %w", domain.ErrInvalidInput, key, err)
		}
		stored = value
	case KeyOutputFormats:
		formats, err := ParseReportFormats(value)
		if err != nil {
			return err
		}
		list := make([]string, len(formats))
		for i, f := range formats {
			list[i] = f.String()
		}
		stored = list
	case KeyExtractorModel, KeyExtractorBaseURL, KeyExtractorAPIToken, KeyExtractorDict,
		KeyOutputDir, KeyLogDir, KeyVocabularyPath:
		stored = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// GetValue returns the effective value of a setting by key.
func (s *SettingsService) GetValue(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeyExtractorProvider:
		return settings.Extractor.Provider.String(), nil
	case KeyExtractorModel:
		return settings.Extractor.Model, nil
	case KeyExtractorBaseURL:
		return settings.Extractor.BaseURL, nil
	case KeyExtractorAPIToken:
		return maskSecret(settings.Extractor.APIToken), nil
	case KeyExtractorRateLimit:
		return strconv.FormatFloat(settings.Extractor.RateLimit, 'g', -1, 64), nil
	case KeyExtractorTimeout:
		return settings.Extractor.Timeout.String(), nil
	case KeyExtractorDict:
		return settings.Extractor.DictionaryPath, nil
	case KeyChunkMaxTokens:
		return strconv.Itoa(settings.Chunking.MaxTokens), nil
	case KeyChunkOverlap:
		return strconv.Itoa(settings.Chunking.Overlap), nil
	case KeyChunkTokenizer:
		return settings.Chunking.Tokenizer.String(), nil
	case KeyAnalysisParallel:
		return strconv.Itoa(settings.Analysis.Parallelism), nil
	case KeyAnalysisContext:
		return strconv.Itoa(settings.Analysis.ContextWindow), nil
	case KeyOutputDir:
		return settings.Output.Dir, nil
	case KeyOutputFormats:
		parts := make([]string, len(settings.Output.Formats))
		for i, f := range settings.Output.Formats {
			parts[i] = f.String()
		}
		return strings.Join(parts, ","), nil
	case KeyLogDir:
		return settings.Log.Dir, nil
	case KeyVocabularyPath:
		return settings.VocabularyPath, nil
	case KeyCacheSize:
		return strconv.Itoa(settings.Extractor.CacheSize), nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Keys returns the supported setting keys in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// SetExtractor configures the extraction provider.
func (s *SettingsService) SetExtractor(provider domain.ExtractorProvider, model, baseURL string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid extractor provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Extractor.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Extractor.Model = model
	} else if defaultModel, ok := domain.DefaultExtractorModels()[provider]; ok {
		settings.Extractor.Model = defaultModel
	}

	if baseURL != "" {
		settings.Extractor.BaseURL = baseURL
	} else if defaultURL, ok := domain.DefaultExtractorURLs()[provider]; ok {
		settings.Extractor.BaseURL = defaultURL
	}

	return s.Save(settings)
}

// Validate checks if current settings can drive an analysis.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Extractor.IsConfigured() {
		return fmt.Errorf("extractor %q requires a model to be configured", settings.Extractor.Provider)
	}
	if settings.Extractor.Provider == domain.ExtractorDictionary && settings.Extractor.DictionaryPath != "" {
		if _, err := os.Stat(settings.Extractor.DictionaryPath); err != nil {
			return fmt.Errorf("dictionary %s: %w", settings.Extractor.DictionaryPath, err)
		}
	}
	if settings.Chunking.Overlap >= settings.Chunking.MaxTokens {
		return fmt.Errorf("chunking overlap (%d) must be smaller than max tokens (%d)",
			settings.Chunking.Overlap, settings.Chunking.MaxTokens)
	}

	return nil
}

// ValidateExtractorConfig checks that the configured backend is reachable.
func (s *SettingsService) ValidateExtractorConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateExtractor(&settings.Extractor)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ParseReportFormats parses a comma-separated format list.
func ParseReportFormats(value string) ([]domain.ReportFormat, error) {
	var formats []domain.ReportFormat
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		f := domain.ReportFormat(part)
		if !f.IsValid() {
			return nil, fmt.Errorf("%w: report format %q", domain.ErrUnsupportedType, part)
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no report formats given", domain.ErrInvalidInput)
	}
	return formats, nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s.configStore.GetString(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(defaultVal domain.ExtractorProvider) domain.ExtractorProvider {
	provider := domain.ExtractorProvider(s.configStore.GetString(KeyExtractorProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getTokenizer(defaultVal domain.TokenizerKind) domain.TokenizerKind {
	kind := domain.TokenizerKind(s.configStore.GetString(KeyChunkTokenizer))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func (s *SettingsService) getFormats(defaultVal []domain.ReportFormat) []domain.ReportFormat {
	raw := s.configStore.GetStringSlice(KeyOutputFormats)
	if len(raw) == 0 {
		return defaultVal
	}
	formats, err := ParseReportFormats(strings.Join(raw, ","))
	if err != nil {
		return defaultVal
	}
	return formats
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
