// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the greenmetrics MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Greenmetrics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: get_scores ---
	s.AddTool(mcp.NewTool("get_scores",
		mcp.WithDescription("Flatten the analysis exports of every system under a root and return their group and greenability scores. Nothing is written to disk."),
		mcp.WithString("root", mcp.Description("Directory holding one folder per analyzed system (defaults to the server root).")),
	), h.handleGetScores)

	// --- 2. Tool: get_churn ---
	s.AddTool(mcp.NewTool("get_churn",
		mcp.WithDescription("Average the refactoring churn documents of every system under a root."),
		mcp.WithString("root", mcp.Description("Directory holding one folder per refactored system.")),
		mcp.WithString("refactorings", mcp.Description("Comma-separated refactoring types to report for every system, even when unobserved.")),
	), h.handleGetChurn)

	// --- 3. Tool: combine_systems ---
	s.AddTool(mcp.NewTool("combine_systems",
		mcp.WithDescription("Merge per-system metric tables into one wide table joined on metric name."),
		mcp.WithString("root", mcp.Description("Directory the table paths are resolved against.")),
		mcp.WithString("systems", mcp.Description("Comma-separated systems in column order (defaults to every system under the root).")),
		mcp.WithString("combine_path", mcp.Description("Table path template containing {system}. Defaults to {system}/{system}.csv.")),
		mcp.WithBoolean("combine_header", mcp.Description("Whether each table starts with a header row.")),
	), h.handleCombineSystems)

	// --- 4. Tool: list_groups ---
	s.AddTool(mcp.NewTool("list_groups",
		mcp.WithDescription("List the metric groups that are averaged into the greenability score."),
	), h.handleListGroups)

	return s
}

// StartMCPServer starts the greenmetrics MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
