package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// runApp runs the TUI application. Tests replace it to avoid a terminal.
var runApp = func(app *tui.App) error {
	return app.Run()
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for refsheet.

Pick practice files, analyze them, fill in the sheet requirements and
see the result as two pages side by side.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Add file
  ctrl+s   - Analyze / Generate
  ctrl+g   - Reference sheet from the analysis
  Esc      - Back
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(analysisService, sheetService, settingsService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	// Log lines would corrupt the alternate screen.
	logger.SetQuiet(true)
	defer logger.SetQuiet(false)

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
