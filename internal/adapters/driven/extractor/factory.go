package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/nerstat/internal/adapters/driven/extractor/cache"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/extractor/chunked"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/extractor/dictionary"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/extractor/huggingface"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/extractor/ollama"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/tokenizer/runes"
	"github.com/custodia-labs/nerstat/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/logger"
	"github.com/custodia-labs/nerstat/internal/postprocessors"
	"github.com/custodia-labs/nerstat/internal/postprocessors/chunker"
)

// pingTimeout is the maximum time to wait for backend connectivity validation.
const pingTimeout = 5 * time.Second

// Options carries collaborators shared by the backends.
type Options struct {
	// Prompts supplies the LLM extraction prompt.
	Prompts driven.PromptStore

	// Vocabulary lists entity types offered to the LLM.
	Vocabulary *domain.EntityVocabulary
}

// pinger is implemented by backends that can check connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

// Create builds the configured extractor: the backend, wrapped in window
// chunking for model backends and in a result cache when enabled.
func Create(settings domain.AppSettings, opts Options) (driven.EntityExtractor, error) {
	backend, err := CreateBackend(settings.Extractor, opts)
	if err != nil {
		return nil, err
	}

	extractor := backend
	// Dictionary matching has no input limit.
	if settings.Extractor.Provider != domain.ExtractorDictionary {
		tokenizer, err := CreateTokenizer(settings.Chunking)
		if err != nil {
			return nil, err
		}
		pipeline, err := postprocessors.DefaultPipeline(settings.Chunking)
		if err != nil {
			return nil, err
		}
		splitter := chunker.New(tokenizer,
			chunker.WithMaxTokens(settings.Chunking.MaxTokens),
			chunker.WithOverlap(settings.Chunking.Overlap),
		)
		extractor = chunked.New(backend, splitter, pipeline)
	}

	return cache.Wrap(extractor, settings.Extractor.CacheSize, cache.DefaultTTL), nil
}

// CreateBackend creates the extraction backend named by settings.Provider.
func CreateBackend(settings domain.ExtractorSettings, opts Options) (driven.EntityExtractor, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: extractor provider %q", domain.ErrUnsupportedType, settings.Provider)
	}

	switch settings.Provider {
	case domain.ExtractorHuggingFace:
		return huggingface.New(huggingface.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			APIToken:          settings.APIToken,
			RequestsPerSecond: settings.RateLimit,
			Timeout:           settings.Timeout,
		}), nil

	case domain.ExtractorOllama:
		return ollama.New(ollama.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    settings.Timeout,
			Vocabulary: opts.Vocabulary,
			Prompts:    opts.Prompts,
		})

	case domain.ExtractorDictionary:
		return dictionary.New(settings.DictionaryPath)

	default:
		return nil, fmt.Errorf("%w: extractor provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateTokenizer creates the tokenizer used to size extraction windows.
func CreateTokenizer(settings domain.ChunkSettings) (driven.Tokenizer, error) {
	switch settings.Tokenizer {
	case domain.TokenizerRune:
		return runes.New(), nil
	case domain.TokenizerTiktoken, "":
		tok, err := tiktoken.New(settings.Encoding)
		if err != nil {
			// The BPE ranks may be unavailable offline; rune windows still work.
			logger.Warn("tiktoken unavailable, falling back to rune tokenizer: %v", err)
			return runes.New(), nil
		}
		return tok, nil
	default:
		return nil, fmt.Errorf("%w: tokenizer %q", domain.ErrUnsupportedType, settings.Tokenizer)
	}
}

// ValidateExtractorConfig creates the backend and pings it when it supports pinging.
// This is intended for the setup wizard to validate credentials on configuration.
func ValidateExtractorConfig(settings *domain.ExtractorSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: no extractor settings", domain.ErrInvalidInput)
	}

	backend, err := CreateBackend(*settings, Options{})
	if err != nil {
		return err
	}

	p, ok := backend.(pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w). Run 'nerstat config init' to fix",
			domain.ErrExtractorUnavailable, err)
	}
	return nil
}
