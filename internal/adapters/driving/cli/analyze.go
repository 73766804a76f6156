package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

var (
	analyzeJSON  bool
	analyzeWatch bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Analyse practice files",
	Long: `Uploads practice tests, notes or images to the analysis backend and
prints its analysis.

Accepted file types: .txt .md .csv .rtf .pdf .png .jpg .jpeg

With --watch the files are analysed again whenever one of them changes,
until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the analysis as JSON")
	analyzeCmd.Flags().BoolVarP(&analyzeWatch, "watch", "w", false, "re-run the analysis when the files change")
	rootCmd.AddCommand(analyzeCmd)
}

// analysisJSON is the JSON output of the analyze command.
type analysisJSON struct {
	ID            string   `json:"id,omitempty"`
	Response      string   `json:"response"`
	TotalFiles    int      `json:"total_files"`
	FilesAnalyzed []string `json:"files_analyzed"`
	ModelUsed     string   `json:"model_used,omitempty"`
	Meta          string   `json:"meta"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	ctx := commandContext(cmd)

	if analyzeWatch {
		cmd.PrintErrln("Watching for changes. Press Ctrl+C to stop.")
		return analysisService.Watch(ctx, args, func(result *domain.AnalysisResult, err error) {
			cmd.Printf("--- %s ---\n", time.Now().Format(time.TimeOnly))
			if err != nil {
				cmd.PrintErrln("Error:", domain.UserMessage(err))
				return
			}
			if printErr := outputAnalysis(cmd, result); printErr != nil {
				cmd.PrintErrln("Error:", printErr)
			}
		})
	}

	result, err := analysisService.AnalyzePaths(ctx, args)
	if err != nil {
		return wrapUserError(err)
	}
	return outputAnalysis(cmd, result)
}

func outputAnalysis(cmd *cobra.Command, result *domain.AnalysisResult) error {
	if analyzeJSON {
		return printJSON(cmd, analysisJSON{
			ID:            result.ID,
			Response:      result.DisplayText(),
			TotalFiles:    result.TotalFiles,
			FilesAnalyzed: result.FilesAnalyzed,
			ModelUsed:     result.ModelUsed,
			Meta:          result.Meta(),
		})
	}

	cmd.Println(result.DisplayText())
	cmd.Println()
	cmd.Println(result.Meta())
	if result.ID != "" {
		cmd.Printf("Analysis ID: %s\n", result.ID)
	}
	return nil
}
