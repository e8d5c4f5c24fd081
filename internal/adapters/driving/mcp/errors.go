// Package mcp provides an MCP (Model Context Protocol) server adapter for nerstat.
// It lets AI assistants run corpus analyses and read recorded runs.
package mcp

import "errors"

// ErrMissingHistoryService is returned when the history service is not provided.
var ErrMissingHistoryService = errors.New("mcp: history service is required")

// ErrAnalysisUnavailable is returned by analyze_corpus when no analysis service is wired.
var ErrAnalysisUnavailable = errors.New("mcp: analysis is not available")
