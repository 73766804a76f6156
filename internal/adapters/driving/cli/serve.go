package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

// serveCmd runs the local HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pagination HTTP API",
	Long: `Serve the local HTTP API used by the web front end.

Routes:
  GET  /api/ping
  POST /api/paginate              {"text": "..."} -> {"page1", "page2"}
  GET  /api/sheets/latest/pages
  GET  /api/sheets/{id}/pages

The server stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", httpapi.DefaultAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := httpapi.NewServer(&httpapi.Ports{
		Paginator: paginator,
		Sheet:     sheetService,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", serveAddr)
	return server.Run(commandContext(cmd), serveAddr)
}
