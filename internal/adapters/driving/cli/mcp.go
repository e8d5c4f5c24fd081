package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nerstat/internal/adapters/driving/mcp"
	"github.com/custodia-labs/nerstat/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools:
  analyze_corpus  run an analysis and return its statistics
  list_runs       list recorded runs
  get_run         statistics, TF-IDF, co-occurrence and insights of a run

Resources:
  nerstat://runs                     recorded runs as JSON
  nerstat://runs/{runId}/report      Markdown report (runId "latest" allowed)

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  nerstat mcp serve
  nerstat mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if historyService == nil {
		return errors.New("history service not configured")
	}

	ports := &mcp.Ports{
		History: historyService,
		Render:  reportRenderer,
	}
	if analysisFactory != nil {
		svc, err := analysisFactory()
		if err != nil {
			// Serve history even when the extractor is misconfigured.
			logger.Warn("analyze_corpus disabled: %v", err)
		} else {
			ports.Analysis = svc
		}
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
