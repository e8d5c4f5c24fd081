// Package ollama provides an entity extractor that prompts a local LLM
// through the Ollama API and parses its JSON answer.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ollama/ollama/api"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.EntityExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second

	// DefaultConfidence is assigned when the model omits a score.
	DefaultConfidence = 0.8
)

// Config holds configuration for the Ollama extractor.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Vocabulary lists the entity types offered to the model.
	Vocabulary *domain.EntityVocabulary

	// Prompts supplies the extraction template; nil uses the built-in one.
	Prompts driven.PromptStore
}

// Extractor recognises entities by prompting an LLM for JSON.
type Extractor struct {
	client  *api.Client
	model   string
	vocab   *domain.EntityVocabulary
	prompts driven.PromptStore
}

// llmResponse is the JSON object the prompt asks for.
type llmResponse struct {
	Entities []struct {
		Word  string   `json:"word"`
		Type  string   `json:"type"`
		Score *float64 `json:"score"`
	} `json:"entities"`
}

// defaultExtractPrompt is the fallback prompt when no PromptStore is configured.
const defaultExtractPrompt = `Extract the named entities from the Japanese text below.
Allowed types:
%s

Return ONLY JSON: {"entities": [{"word": "...", "type": "...", "score": 0.0}]}

Text:
%s`

// New creates a new Ollama extractor.
func New(cfg Config) (*Extractor, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Vocabulary == nil {
		cfg.Vocabulary = domain.DefaultEntityVocabulary()
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama base url %q: %w", domain.ErrInvalidInput, cfg.BaseURL, err)
	}

	return &Extractor{
		client:  api.NewClient(base, &http.Client{Timeout: cfg.Timeout}),
		model:   cfg.Model,
		vocab:   cfg.Vocabulary,
		prompts: cfg.Prompts,
	}, nil
}

// Name returns "ollama".
func (e *Extractor) Name() string {
	return domain.ExtractorOllama.String()
}

// ModelName returns the name of the LLM model being used.
func (e *Extractor) ModelName() string {
	return e.model
}

// Extract prompts the model and locates each returned word in text.
// Offsets are rune offsets of the first occurrence at or after the previous
// match of the same word; words not found in text get offsets 0.
func (e *Extractor) Extract(ctx context.Context, text string) ([]domain.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	prompt := fmt.Sprintf(e.loadPrompt(), e.typeList(), text)
	stream := false
	req := &api.GenerateRequest{
		Model:  e.model,
		Prompt: prompt,
		Format: json.RawMessage(`"json"`),
		Stream: &stream,
		Options: map[string]any{
			"temperature": 0,
		},
	}

	var out strings.Builder
	err := e.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama generate: %w", domain.ErrExtractorUnavailable, err)
	}

	return e.parse(text, out.String())
}

// Ping validates the service is reachable by listing local models.
func (e *Extractor) Ping(ctx context.Context) error {
	if _, err := e.client.List(ctx); err != nil {
		return fmt.Errorf("%w: ollama: %w", domain.ErrExtractorUnavailable, err)
	}
	return nil
}

func (e *Extractor) parse(text, raw string) ([]domain.Entity, error) {
	var parsed llmResponse
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse ollama json: %w (response: %s)", err, raw)
	}

	// searchFrom keeps repeated words pointing at successive occurrences.
	searchFrom := make(map[string]int)
	entities := make([]domain.Entity, 0, len(parsed.Entities))
	for _, p := range parsed.Entities {
		word := strings.TrimSpace(p.Word)
		typ := strings.ToUpper(strings.TrimSpace(p.Type))
		score := DefaultConfidence
		if p.Score != nil {
			score = *p.Score
		}

		start, end := 0, 0
		if idx := strings.Index(text[searchFrom[word]:], word); word != "" && idx >= 0 {
			byteStart := searchFrom[word] + idx
			start = utf8.RuneCountInString(text[:byteStart])
			end = start + utf8.RuneCountInString(word)
			searchFrom[word] = byteStart + len(word)
		}

		ent, err := domain.NewEntity(word, typ, score, start, end)
		if err != nil {
			logger.Debug("ollama: skipping entity: %v", err)
			continue
		}
		entities = append(entities, ent)
	}
	return entities, nil
}

func (e *Extractor) typeList() string {
	var b strings.Builder
	for _, entry := range e.vocab.Entries() {
		fmt.Fprintf(&b, "- %s: %s\n", entry.Code, entry.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// loadPrompt loads the prompt from the store, falling back to the default if unavailable.
func (e *Extractor) loadPrompt() string {
	if e.prompts == nil {
		return defaultExtractPrompt
	}
	prompt, err := e.prompts.Load(driven.PromptExtractEntities)
	if err != nil {
		return defaultExtractPrompt
	}
	return prompt
}

func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
