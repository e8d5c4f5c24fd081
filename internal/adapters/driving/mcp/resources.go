package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for nerstat resources.
	uriScheme = "nerstat://"

	// latestRun addresses the most recent run in resource URIs.
	latestRun = "latest"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recorded analysis runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	if s.ports.Render != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "runs/{runId}/report",
			Name:        "run-report",
			Description: "Markdown analysis report of a run; use latest for the newest run",
			MIMEType:    "text/markdown",
		}, s.handleReportResource)
	}
}

func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runs, err := s.ports.History.List(ctx, domain.RunFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	summaries := make([]RunSummary, len(runs))
	for i := range runs {
		summaries[i] = toSummary(runs[i])
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := extractRunID(req.Params.URI)
	if !ok || s.ports.Render == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if id == latestRun {
		id = ""
	}

	rec, err := s.ports.History.Get(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	md, err := s.ports.Render(*rec)
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     md,
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like nerstat://runs/{runId}/report.
func extractRunID(uri string) (string, bool) {
	const prefix = uriScheme + "runs/"
	const suffix = "/report"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
