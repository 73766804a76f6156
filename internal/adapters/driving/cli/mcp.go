package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose refsheet to AI assistants",
	Long:  `Commands that expose pagination, analysis and sheet generation over MCP.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve refsheet tools over MCP",
	Long: `Serve refsheet as a Model Context Protocol server.

An assistant connected to it can:
  split_into_two_pages      balance any text across two printable pages
  analyze_files             send local practice tests to the backend
  generate_reference_sheet  build a sheet from an analysis and fit it to two pages

It can also read the latest analysis (refsheet://analysis/latest), a stored
analysis by ID (refsheet://analysis/{id}) and the latest sheet's pages
(refsheet://sheet/latest).

The server speaks JSON-RPC on stdin/stdout unless --port is given, in which
case it serves streamable HTTP on --host:--port.

Examples:
  refsheet mcp serve
  refsheet mcp serve --port 8765

Register it with an assistant as the command "refsheet" with the arguments
["mcp", "serve"].`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().String("host", "localhost", "interface to bind in HTTP mode")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return fmt.Errorf("getting host flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Paginator: paginator,
		Analysis:  analysisService,
		Sheet:     sheetService,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port <= 0 {
		logger.Debug("MCP server on stdio")
		return server.Run(ctx)
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	cmd.Printf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(ctx, addr)
}
