package domain

import "time"

const unknownLabel = "Unknown"

// ExtractorProvider identifies an entity extraction backend.
type ExtractorProvider string

// Available extractor providers.
const (
	// ExtractorHuggingFace calls a token-classification inference endpoint.
	ExtractorHuggingFace ExtractorProvider = "huggingface"

	// ExtractorOllama prompts a local LLM through Ollama.
	ExtractorOllama ExtractorProvider = "ollama"

	// ExtractorDictionary matches surface forms from a YAML dictionary.
	ExtractorDictionary ExtractorProvider = "dictionary"
)

// IsValid returns true if the provider is recognised.
func (p ExtractorProvider) IsValid() bool {
	switch p {
	case ExtractorHuggingFace, ExtractorOllama, ExtractorDictionary:
		return true
	default:
		return false
	}
}

// IsRemote returns true if the provider needs a network endpoint.
func (p ExtractorProvider) IsRemote() bool {
	return p == ExtractorHuggingFace || p == ExtractorOllama
}

// String returns the string representation.
func (p ExtractorProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p ExtractorProvider) Description() string {
	switch p {
	case ExtractorHuggingFace:
		return "Hugging Face (token classification)"
	case ExtractorOllama:
		return "Ollama (local LLM)"
	case ExtractorDictionary:
		return "Dictionary (offline matching)"
	default:
		return unknownLabel
	}
}

// TokenizerKind selects how text length is measured for chunking.
type TokenizerKind string

// Available tokenizers.
const (
	// TokenizerTiktoken counts BPE tokens.
	TokenizerTiktoken TokenizerKind = "tiktoken"

	// TokenizerRune counts one token per character.
	TokenizerRune TokenizerKind = "rune"
)

// IsValid returns true if the tokenizer is recognised.
func (k TokenizerKind) IsValid() bool {
	return k == TokenizerTiktoken || k == TokenizerRune
}

// String returns the string representation.
func (k TokenizerKind) String() string {
	return string(k)
}

// ReportFormat identifies an output writer.
type ReportFormat string

// Available report formats.
const (
	ReportFormatCSV      ReportFormat = "csv"
	ReportFormatMarkdown ReportFormat = "markdown"
	ReportFormatJSON     ReportFormat = "json"
)

// IsValid returns true if the format is recognised.
func (f ReportFormat) IsValid() bool {
	switch f {
	case ReportFormatCSV, ReportFormatMarkdown, ReportFormatJSON:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f ReportFormat) String() string {
	return string(f)
}

// ExtractorSettings configures the entity source.
type ExtractorSettings struct {
	// Provider is the extraction backend.
	Provider ExtractorProvider

	// Model is the model name (HF repository or Ollama tag).
	Model string

	// BaseURL is the inference endpoint.
	BaseURL string

	// APIToken authenticates against Hugging Face.
	APIToken string

	// RateLimit is the maximum requests per second; 0 disables limiting.
	RateLimit float64

	// Timeout bounds a single request.
	Timeout time.Duration

	// DictionaryPath is the YAML dictionary for the dictionary provider.
	DictionaryPath string

	// CacheSize is the number of cached extraction results; 0 disables caching.
	CacheSize int
}

// IsConfigured returns true if the extractor can be built.
func (e ExtractorSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.IsRemote() && e.Model == "" {
		return false
	}
	return true
}

// ChunkSettings configures the long-text window strategy.
type ChunkSettings struct {
	// MaxTokens is the window size and the single-pass threshold.
	MaxTokens int

	// Overlap is the number of tokens shared by consecutive windows.
	Overlap int

	// MergeDistance is the character tolerance for merging spans across windows.
	MergeDistance int

	// MergeRatio scales the shorter word length into a start-offset tolerance.
	MergeRatio float64

	// Tokenizer selects how tokens are counted.
	Tokenizer TokenizerKind

	// Encoding is the tiktoken encoding name.
	Encoding string
}

// AnalysisSettings configures the aggregation run.
type AnalysisSettings struct {
	// Parallelism bounds concurrent document extraction.
	Parallelism int

	// ContextWindow is the number of characters kept around each occurrence.
	ContextWindow int
}

// OutputSettings configures report output.
type OutputSettings struct {
	// Dir is the output directory.
	Dir string

	// Formats are the report writers to run.
	Formats []ReportFormat
}

// LogSettings configures the rotating log file.
type LogSettings struct {
	// Dir holds the log file; empty disables file logging.
	Dir string

	// MaxSizeMB is the size at which the file rotates.
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Extractor ExtractorSettings
	Chunking  ChunkSettings
	Analysis  AnalysisSettings
	Output    OutputSettings
	Log       LogSettings

	// VocabularyPath is an optional YAML file overriding entity descriptions.
	VocabularyPath string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Extractor: ExtractorSettings{
			Provider:  ExtractorHuggingFace,
			Model:     "tsmatz/xlm-roberta-ner-japanese",
			BaseURL:   "https://api-inference.huggingface.co",
			RateLimit: 5,
			Timeout:   60 * time.Second,
			CacheSize: 256,
		},
		Chunking: ChunkSettings{
			MaxTokens:     400,
			Overlap:       50,
			MergeDistance: 5,
			MergeRatio:    0.5,
			Tokenizer:     TokenizerTiktoken,
			Encoding:      "o200k_base",
		},
		Analysis: AnalysisSettings{
			Parallelism:   4,
			ContextWindow: 50,
		},
		Output: OutputSettings{
			Dir:     "output",
			Formats: AllReportFormats(),
		},
		Log: LogSettings{
			Dir:        "logs",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// AllExtractorProviders returns all available providers.
func AllExtractorProviders() []ExtractorProvider {
	return []ExtractorProvider{
		ExtractorHuggingFace,
		ExtractorOllama,
		ExtractorDictionary,
	}
}

// AllReportFormats returns all available report formats.
func AllReportFormats() []ReportFormat {
	return []ReportFormat{
		ReportFormatCSV,
		ReportFormatMarkdown,
		ReportFormatJSON,
	}
}

// DefaultExtractorModels returns default models for each remote provider.
func DefaultExtractorModels() map[ExtractorProvider]string {
	return map[ExtractorProvider]string{
		ExtractorHuggingFace: "tsmatz/xlm-roberta-ner-japanese",
		ExtractorOllama:      "llama3.2",
	}
}

// DefaultExtractorURLs returns default endpoints for each remote provider.
func DefaultExtractorURLs() map[ExtractorProvider]string {
	return map[ExtractorProvider]string{
		ExtractorHuggingFace: "https://api-inference.huggingface.co",
		ExtractorOllama:      "http://localhost:11434",
	}
}
