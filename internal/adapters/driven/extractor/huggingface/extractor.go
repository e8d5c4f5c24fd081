// Package huggingface provides an entity extractor backed by the Hugging Face
// inference API for token-classification models.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
	"github.com/custodia-labs/nerstat/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.EntityExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api-inference.huggingface.co"
	DefaultModel      = "tsmatz/xlm-roberta-ner-japanese"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
)

// Config holds configuration for the Hugging Face extractor.
type Config struct {
	// BaseURL is the inference API base URL.
	BaseURL string

	// Model is the repository id of the token-classification model.
	Model string

	// APIToken is sent as a bearer token when set.
	APIToken string

	// RequestsPerSecond throttles requests; 0 disables throttling.
	RequestsPerSecond float64

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// MaxRetries bounds retries after 429 and 503 responses (default: 3).
	MaxRetries int

	// RetryDelay is the wait before retrying a 503 model-loading response.
	RetryDelay time.Duration
}

// Extractor recognises entities by calling the inference API.
type Extractor struct {
	client     *http.Client
	baseURL    string
	model      string
	token      string
	limiter    *RateLimiter
	maxRetries int
	retryDelay time.Duration
}

// inferenceRequest is the token-classification request body.
type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

// inferenceEntity is one aggregated entity in the response.
type inferenceEntity struct {
	EntityGroup string  `json:"entity_group"`
	Entity      string  `json:"entity"`
	Score       float64 `json:"score"`
	Word        string  `json:"word"`
	Start       *int    `json:"start"`
	End         *int    `json:"end"`
}

// errorResponse is returned with non-200 statuses.
type errorResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// New creates a new Hugging Face extractor.
func New(cfg Config) *Extractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	return &Extractor{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		token:      cfg.APIToken,
		limiter:    NewRateLimiter(cfg.RequestsPerSecond),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Name returns "huggingface".
func (e *Extractor) Name() string {
	return domain.ExtractorHuggingFace.String()
}

// ModelName returns the configured model id.
func (e *Extractor) ModelName() string {
	return e.model
}

// Extract returns the entities the model recognises in text.
// Offsets the API omits default to 0.
func (e *Extractor) Extract(ctx context.Context, text string) ([]domain.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs:     text,
		Parameters: inferenceParameters{AggregationStrategy: "simple"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		raw, retryAfter, err := e.post(ctx, body)
		if err == nil {
			return toEntities(raw), nil
		}
		lastErr = err

		switch {
		case errors.Is(err, domain.ErrRateLimited):
			e.limiter.RecordRateLimitError(retryAfter)
		case errors.Is(err, errModelLoading):
			if err := sleep(ctx, max(retryAfter, e.retryDelay)); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
		logger.Debug("huggingface: attempt %d failed: %v", attempt+1, err)
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrExtractorUnavailable, lastErr)
}

// errModelLoading marks a 503 while the hosted model warms up.
var errModelLoading = errors.New("model loading")

// post sends one inference request. retryAfter is the server-suggested wait.
func (e *Extractor) post(ctx context.Context, body []byte) ([]inferenceEntity, time.Duration, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		e.baseURL+"/models/"+e.model,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: send request: %w", domain.ErrExtractorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, retryAfterHeader(resp), statusError(resp.StatusCode, data)
	}

	var entities []inferenceEntity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}
	return entities, 0, nil
}

// Ping checks the model endpoint answers a one-word request.
func (e *Extractor) Ping(ctx context.Context) error {
	_, err := e.Extract(ctx, "東京")
	return err
}

func statusError(status int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	msg := er.Error
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: huggingface (status %d): %s", domain.ErrRateLimited, status, msg)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: huggingface (status %d): %s", errModelLoading, status, msg)
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return fmt.Errorf("%w: huggingface (status %d): %s", domain.ErrExtractorUnavailable, status, msg)
	default:
		return fmt.Errorf("huggingface error (status %d): %s", status, msg)
	}
}

func retryAfterHeader(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func toEntities(raw []inferenceEntity) []domain.Entity {
	entities := make([]domain.Entity, 0, len(raw))
	for _, r := range raw {
		typ := r.EntityGroup
		if typ == "" {
			// Non-aggregated responses tag tokens as B-PER / I-PER.
			typ = strings.TrimPrefix(strings.TrimPrefix(r.Entity, "B-"), "I-")
		}
		var start, end int
		if r.Start != nil {
			start = *r.Start
		}
		if r.End != nil {
			end = *r.End
		}
		if r.Start != nil && (r.End == nil || end < start) {
			end = start + utf8.RuneCountInString(r.Word)
		}
		ent, err := domain.NewEntity(r.Word, typ, r.Score, start, end)
		if err != nil {
			logger.Debug("huggingface: skipping entity: %v", err)
			continue
		}
		entities = append(entities, ent)
	}
	return entities
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
