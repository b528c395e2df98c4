package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server over stdio",
	Long: "Start an MCP (Model Context Protocol) server over stdio, exposing search, " +
		"excerpt, and highlighting tools for the configured content directory.",
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	srv := mcpserver.New(configPath, version, logger)
	return srv.Run(cmd.Context(), &mcp.StdioTransport{})
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
