package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greenmetrics/greenmetrics/core"
	"github.com/greenmetrics/greenmetrics/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// configFor clones the base config and points it at the requested root.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateRoot(cfg, request.GetString("root", "")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// jsonResult renders a tool payload as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid root: %v", err)), nil
	}

	sets, err := core.GetScoreResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	type labeled struct {
		System       string             `json:"system"`
		VolumePM     string             `json:"volume_pm"`
		Greenability float64            `json:"greenability"`
		Label        string             `json:"label"`
		Groups       map[string]float64 `json:"groups"`
	}
	out := make([]labeled, len(sets))
	for i, s := range sets {
		out[i] = labeled{
			System:       s.System,
			VolumePM:     s.VolumePM,
			Greenability: s.Greenability,
			Label:        contract.GetPlainLabel(s.Greenability),
			Groups: map[string]float64{
				"maintainability": s.Maintainability,
				"measurability":   s.Measurability,
				"freshness":       s.Freshness,
				"reliability":     s.Reliability,
			},
		}
	}
	return jsonResult(out)
}

func (h *toolHandler) handleGetChurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid root: %v", err)), nil
	}
	if r := request.GetString("refactorings", ""); r != "" {
		cfg.Refactorings = contract.SplitList(r)
	}

	rows, err := core.GetChurnResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("churn averaging failed: %v", err)), nil
	}
	return jsonResult(rows)
}

func (h *toolHandler) handleCombineSystems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid root: %v", err)), nil
	}
	err = contract.RevalidateCombine(cfg,
		request.GetString("systems", ""),
		request.GetString("combine_path", ""),
		request.GetBool("combine_header", cfg.CombineHeader),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid combine parameters: %v", err)), nil
	}

	table, err := core.GetCombinedResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("combine failed: %v", err)), nil
	}
	return jsonResult(table)
}

func (h *toolHandler) handleListGroups(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.baseCfg.Groups.Groups())
}
