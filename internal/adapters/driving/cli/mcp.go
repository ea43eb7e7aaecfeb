package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notevault/internal/adapters/driving/mcp"
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

By default, the server communicates over stdio using JSON-RPC and can be
used with any MCP-compatible assistant.

Use --port to start an HTTP server instead. It serves the streamable MCP
endpoint at / and Prometheus metrics at /metrics.

The vault is loaded before the server starts and, with the filesystem
backend, kept in step with edits while it runs.

Examples:
  # Stdio mode (default)
  notevault mcp serve --vault ~/notes

  # HTTP mode
  notevault mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "notevault": {
        "command": "/path/to/notevault",
        "args": ["mcp", "serve", "--vault", "/path/to/notes"]
      }
    }
  }`,
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

	vault, err := requireVault()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	stopWatch, err := serveVault(ctx, vault)
	if err != nil {
		return err
	}
	defer stopWatch()

	ports := &mcp.Ports{
		Vault:   vault,
		Metrics: metricsHandler,
		Limit:   appSettings.Search.Limit,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
