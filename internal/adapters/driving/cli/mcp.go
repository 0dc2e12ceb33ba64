package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/covrank/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can rank,
score, search and compare products.

By default the server speaks JSON-RPC over stdio. Use --port (or mcp.port in
the config file) to serve streamable HTTP instead.

Examples:
  # Stdio mode (default)
  covrank mcp serve

  # HTTP mode
  covrank mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "covrank": {
        "command": "/path/to/covrank",
        "args": ["mcp", "serve"]
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
	if !cmd.Flags().Changed("port") {
		port = settings.MCPPort
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Ranking:    rankingService,
		Score:      scoreService,
		Duplicates: duplicateService,
		Products:   productService,
		Compare:    compareService,
		Companies:  companyService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
