package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored analyses and sheets",
	Long: `Lists the analyses kept in the local history, newest first.

Use 'refsheet history show ID' to print an analysis with its sheets,
or a single sheet.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a stored analysis or sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of entries (default: history.limit setting)")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of entries (default: history.limit setting)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	results, err := analysisService.List(commandContext(cmd), effectiveHistoryLimit())
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		return printJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No analyses stored.")
		return nil
	}

	cmd.Println("Analyses:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  %s  %s  %d file(s)\n", r.ID, r.CreatedAt.Local().Format(time.DateTime), r.TotalFiles)
		if files := strings.Join(r.FilesAnalyzed, ", "); files != "" {
			cmd.Printf("      %s\n", files)
		}
	}
	return nil
}

func effectiveHistoryLimit() int {
	if historyLimit > 0 {
		return historyLimit
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.History.Limit > 0 {
			return settings.History.Limit
		}
	}
	return domain.DefaultHistoryLimit
}

// historyEntry is the JSON output of 'history show' for an analysis.
type historyEntry struct {
	Analysis *domain.AnalysisResult `json:"analysis"`
	Sheets   []domain.ReferenceSheet `json:"sheets"`
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	ctx := commandContext(cmd)
	id := args[0]

	analysis, err := analysisService.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) && sheetService != nil {
		return showSheet(cmd, id)
	}
	if err != nil {
		return wrapUserError(err)
	}

	var sheets []domain.ReferenceSheet
	if sheetService != nil {
		sheets, err = sheetService.ListByAnalysis(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to list sheets: %w", err)
		}
	}

	if historyJSON {
		return printJSON(cmd, historyEntry{Analysis: analysis, Sheets: sheets})
	}

	cmd.Println(analysis.DisplayText())
	cmd.Println()
	cmd.Println(analysis.Meta())
	cmd.Printf("Created: %s\n", analysis.CreatedAt.Local().Format(time.DateTime))

	if len(sheets) > 0 {
		cmd.Println()
		cmd.Println("Sheets:")
		for i := range sheets {
			cmd.Printf("  %s  %s\n", sheets[i].ID, sheets[i].Meta())
		}
	}
	return nil
}

func showSheet(cmd *cobra.Command, id string) error {
	sheet, err := sheetService.Get(commandContext(cmd), id)
	if err != nil {
		return fmt.Errorf("no analysis or sheet %q: %w", id, err)
	}

	if historyJSON {
		return printJSON(cmd, sheet)
	}

	printPages(cmd, sheet.Pages, 0)
	cmd.Println(sheet.Meta())
	return nil
}
