package cli

import (
	"github.com/spf13/cobra"

	"github.com/tunescout/tunescout/internal/config"
	"github.com/tunescout/tunescout/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations as MCP tools over stdio",
		Long: `Run an MCP server exposing the recommend_albums and budget_report
tools, so MCP-capable assistants can query a music library directly.

Register with a client as a stdio server, e.g.:

  {"command": "tunescout", "args": ["serve"]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gcfg, err := config.LoadGlobal()
			if err != nil {
				gcfg = config.DefaultGlobal()
			}
			return mcp.NewServer(gcfg, version).ServeStdio()
		},
	}
}
