// Package mcp exposes tunescout's recommendation flow as MCP tools
// over stdio, so AI assistants can query a music library directly.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tunescout/tunescout/internal/budget"
	"github.com/tunescout/tunescout/internal/config"
	"github.com/tunescout/tunescout/internal/engine"
	"github.com/tunescout/tunescout/internal/library"
	"github.com/tunescout/tunescout/internal/prompt"
	"github.com/tunescout/tunescout/internal/provider"
)

// Server bundles the MCP server with its configuration.
type Server struct {
	gcfg config.GlobalConfig
	mcp  *server.MCPServer
}

// NewServer builds the MCP server and registers the tools.
func NewServer(gcfg config.GlobalConfig, version string) *Server {
	s := &Server{
		gcfg: gcfg,
		mcp:  server.NewMCPServer("tunescout", version),
	}

	s.mcp.AddTool(mcp.NewTool("recommend_albums",
		mcp.WithDescription("Recommend albums based on a music library JSON export. Returns a ranked list with artist, album, year, genre, and a one-line reason."),
		mcp.WithString("library", mcp.Required(), mcp.Description("Path to the library JSON export")),
		mcp.WithString("provider", mcp.Description("LLM provider: openai, anthropic, ollama, lmstudio (default: configured provider)")),
		mcp.WithString("model", mcp.Description("Model name (default: provider default)")),
		mcp.WithNumber("count", mcp.Description("How many recommendations to return (default 10)")),
	), s.handleRecommend)

	s.mcp.AddTool(mcp.NewTool("budget_report",
		mcp.WithDescription("Show the token budget and context sizing a model key would get for a library, without calling any provider."),
		mcp.WithString("model_key", mcp.Required(), mcp.Description("provider:model key, e.g. ollama:llama3.1")),
		mcp.WithNumber("window", mcp.Description("Context window in tokens (default 32768)")),
		mcp.WithString("library", mcp.Description("Optional path to a library JSON export for sizing")),
	), s.handleBudgetReport)

	return s
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleRecommend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	libraryPath, err := req.RequireString("library")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: library"), nil
	}

	profile, err := library.LoadProfile(libraryPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load library: %v", err)), nil
	}

	providerName := req.GetString("provider", s.gcfg.DefaultProvider)
	model := req.GetString("model", s.gcfg.DefaultModel)
	count := req.GetInt("count", s.gcfg.Prompt.Count)

	client, err := provider.New(providerName, model, s.gcfg.Key(providerName), s.gcfg.Host(providerName))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limits, err := prompt.NewCompressionLimits(
		s.gcfg.Prompt.MinAlbumsPerGroup,
		s.gcfg.Prompt.MaxRelaxedInflation,
		s.gcfg.Prompt.AbsoluteRelaxedCap,
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid compression settings: %v", err)), nil
	}

	svc := engine.New(client, nil, limits, nil, 0)
	if s.gcfg.Prompt.ContextWindow > 0 {
		svc.SetContextWindow(s.gcfg.Prompt.ContextWindow)
	}

	items, report, err := svc.Recommend(ctx, profile, engine.Options{
		Count:       count,
		Temperature: s.gcfg.Prompt.Temperature,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommend: %v", err)), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("The model's reply contained no usable recommendations."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommendations via %s:\n\n", report.ModelKey)
	for i, it := range items {
		fmt.Fprintf(&sb, "%d. %s — %s", i+1, it.Artist, it.Album)
		if it.HasValidYear() {
			fmt.Fprintf(&sb, " (%d)", *it.Year)
		}
		if it.Genre != "" {
			fmt.Fprintf(&sb, " [%s]", it.Genre)
		}
		fmt.Fprintf(&sb, " — confidence %.0f%%\n", it.NormalizedConfidence()*100)
		if it.Reason != "" {
			fmt.Fprintf(&sb, "   %s\n", it.Reason)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleBudgetReport(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelKey, err := req.RequireString("model_key")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: model_key"), nil
	}
	window := req.GetInt("window", 32768)

	policy := budget.NewPolicy()
	b := policy.ForModel(modelKey, window)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Model key: %s (local: %v)\n", modelKey, policy.IsLocal(modelKey))
	fmt.Fprintf(&sb, "Window: %d, usable: %d\n", b.Total, b.Usable)
	fmt.Fprintf(&sb, "Reserves: system %d, completion %d, safety %d, headroom %d\n",
		b.SystemReserve, b.CompletionReserve, b.SafetyMargin, b.Headroom)

	if libraryPath := req.GetString("library", ""); libraryPath != "" {
		profile, err := library.LoadProfile(libraryPath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load library: %v", err)), nil
		}
		sizing := prompt.SizeFor(profile.TotalArtists, profile.TotalAlbums, b.Usable)
		fmt.Fprintf(&sb, "Library: %d artists, %d albums\n", profile.TotalArtists, profile.TotalAlbums)
		fmt.Fprintf(&sb, "Targets: %d artists, %d albums\n", sizing.TargetArtists, sizing.TargetAlbums)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
