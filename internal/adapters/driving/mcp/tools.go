package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driving"
)

const (
	defaultRunLimit = 10
	topEntities     = 10
	topScores       = 10
)

// AnalyzeInput is the input schema for the analyze_corpus tool.
type AnalyzeInput struct {
	Path        string   `json:"path" jsonschema:"file, directory of .txt files, or demo for the built-in corpus"`
	OutputDir   string   `json:"output_dir,omitempty" jsonschema:"report directory; defaults to the configured one"`
	Formats     []string `json:"formats,omitempty" jsonschema:"report formats: csv, markdown, json"`
	SkipReports bool     `json:"skip_reports,omitempty" jsonschema:"record the run without writing report files"`
}

// ListRunsInput is the input schema for the list_runs tool.
type ListRunsInput struct {
	Since string `json:"since,omitempty" jsonschema:"RFC 3339 timestamp; only runs started after it"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 10)"`
}

// GetRunInput is the input schema for the get_run tool.
type GetRunInput struct {
	RunID string `json:"run_id,omitempty" jsonschema:"run identifier; empty for the latest run"`
}

// RunSummary describes one recorded run.
type RunSummary struct {
	RunID          string   `json:"run_id"`
	InputPath      string   `json:"input_path"`
	Extractor      string   `json:"extractor"`
	Model          string   `json:"model"`
	StartedAt      string   `json:"started_at"`
	Documents      int      `json:"documents"`
	Entities       int      `json:"entities"`
	MeanConfidence float64  `json:"mean_confidence"`
	OutputFiles    []string `json:"output_files,omitempty"`
}

// Count is a key with its occurrence count.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// RunDetail is a run summary with its main aggregates.
type RunDetail struct {
	Run             RunSummary                `json:"run"`
	EntityTypes     []Count                   `json:"entity_types"`
	TopEntities     []Count                   `json:"top_entities"`
	TopTFIDF        []domain.TFIDFScore       `json:"top_tfidf,omitempty"`
	Pairs           []domain.CooccurrencePair `json:"pairs,omitempty"`
	Observations    []string                  `json:"observations,omitempty"`
	Recommendations []string                  `json:"recommendations,omitempty"`
}

// ListRunsOutput is the output schema for the list_runs tool.
type ListRunsOutput struct {
	Runs  []RunSummary `json:"runs"`
	Count int          `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	if s.ports.Analysis != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "analyze_corpus",
			Description: "Extract named entities from Japanese documents and compute corpus statistics",
		}, s.handleAnalyze)
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_runs",
		Description: "List recorded analysis runs, newest first",
	}, s.handleListRuns)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_run",
		Description: "Get entity statistics, TF-IDF ranking, co-occurrences and insights of a run",
	}, s.handleGetRun)
}

func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, RunDetail, error) {
	if s.ports.Analysis == nil {
		return nil, RunDetail{}, ErrAnalysisUnavailable
	}
	if input.Path == "" {
		return nil, RunDetail{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	req := driving.AnalyzeRequest{
		Path:        input.Path,
		OutputDir:   input.OutputDir,
		SkipReports: input.SkipReports,
	}
	for _, f := range input.Formats {
		format := domain.ReportFormat(f)
		if !format.IsValid() {
			return nil, RunDetail{}, fmt.Errorf("%w: report format %q", domain.ErrInvalidInput, f)
		}
		req.Formats = append(req.Formats, format)
	}

	run, err := s.ports.Analysis.Analyze(ctx, req)
	if err != nil {
		return nil, RunDetail{}, err
	}
	return nil, toDetail(domain.NewRunRecord(run)), nil
}

func (s *Server) handleListRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	filter := domain.RunFilter{Limit: input.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultRunLimit
	}
	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, ListRunsOutput{}, fmt.Errorf("%w: since: %w", domain.ErrInvalidInput, err)
		}
		filter.Since = since
	}

	runs, err := s.ports.History.List(ctx, filter)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}

	output := ListRunsOutput{
		Runs:  make([]RunSummary, len(runs)),
		Count: len(runs),
	}
	for i := range runs {
		output.Runs[i] = toSummary(runs[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetRun(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetRunInput,
) (*mcp.CallToolResult, RunDetail, error) {
	rec, err := s.ports.History.Get(ctx, input.RunID)
	if err != nil {
		return nil, RunDetail{}, err
	}
	return nil, toDetail(*rec), nil
}

func toSummary(r domain.RunRecord) RunSummary {
	return RunSummary{
		RunID:          r.ID,
		InputPath:      r.InputPath,
		Extractor:      r.Extractor,
		Model:          r.Model,
		StartedAt:      r.StartedAt.Format(time.RFC3339),
		Documents:      r.TotalDocuments,
		Entities:       r.TotalEntities,
		MeanConfidence: r.MeanConfidence,
		OutputFiles:    r.OutputFiles,
	}
}

func toDetail(r domain.RunRecord) RunDetail {
	d := RunDetail{
		Run:         toSummary(r),
		EntityTypes: []Count{},
		TopEntities: []Count{},
	}
	stats := r.Statistics
	if stats == nil {
		return d
	}

	for _, e := range stats.EntityTypeCounts.Entries() {
		d.EntityTypes = append(d.EntityTypes, Count{Key: e.Key, Count: e.Count})
	}
	for i, e := range stats.MostCommonEntities {
		if i == topEntities {
			break
		}
		d.TopEntities = append(d.TopEntities, Count{Key: e.Key, Count: e.Count})
	}
	if len(stats.TFIDFRanking) > topScores {
		d.TopTFIDF = stats.TFIDFRanking[:topScores]
	} else {
		d.TopTFIDF = stats.TFIDFRanking
	}
	if stats.Relationships != nil {
		d.Pairs = stats.Relationships.Pairs
	}
	if stats.Insights != nil {
		d.Observations = stats.Insights.Observations
		d.Recommendations = stats.Insights.Recommendations
	}
	return d
}
