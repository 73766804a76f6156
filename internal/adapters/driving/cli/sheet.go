package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

var (
	sheetAnalysisID   string
	sheetAnalysisFile string
	sheetReq          domain.SheetRequirements
	sheetJSON         bool
	sheetWidth        int
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Generate a two-page reference sheet",
	Long: `Generates a reference sheet from an analysis and splits it into two
printable pages.

The analysis is the latest stored one unless --analysis-id or
--analysis-file is given. Use --analysis-file - to read it from stdin.
Requirements left empty fall back to the configured defaults.`,
	Args: cobra.NoArgs,
	RunE: runSheet,
}

func init() {
	flags := sheetCmd.Flags()
	flags.StringVar(&sheetAnalysisID, "analysis-id", "", "ID of a stored analysis")
	flags.StringVarP(&sheetAnalysisFile, "analysis-file", "f", "", "read the analysis text from a file (- for stdin)")
	flags.StringVar(&sheetReq.EventName, "event", "", "competition event name")
	flags.StringVar(&sheetReq.Division, "division", "", "competition division")
	flags.StringVar(&sheetReq.Difficulty, "difficulty", "", "easy, medium or hard")
	flags.IntVar(&sheetReq.TargetWordCount, "words", 0, "target word count")
	flags.StringVar(&sheetReq.RequiredTopics, "require", "", "topics that must be covered")
	flags.StringVar(&sheetReq.BannedTopics, "ban", "", "topics to leave out")
	flags.StringVar(&sheetReq.Notes, "notes", "", "extra instructions")
	flags.BoolVar(&sheetJSON, "json", false, "output the sheet as JSON")
	flags.IntVar(&sheetWidth, "width", 0, "total width of the page regions (default: terminal width)")
	sheetCmd.MarkFlagsMutuallyExclusive("analysis-id", "analysis-file")
	rootCmd.AddCommand(sheetCmd)
}

// sheetJSONOutput is the JSON output of the sheet command.
type sheetJSONOutput struct {
	ID             string    `json:"id"`
	AnalysisID     string    `json:"analysis_id,omitempty"`
	ReferenceSheet string    `json:"reference_sheet"`
	ModelUsed      string    `json:"model_used,omitempty"`
	QualityScore   string    `json:"quality_score,omitempty"`
	Pages          pagesJSON `json:"pages"`
	Meta           string    `json:"meta"`
}

func runSheet(cmd *cobra.Command, _ []string) error {
	if sheetService == nil {
		return errors.New("sheet service not configured")
	}

	req := driving.SheetRequest{
		AnalysisID:   sheetAnalysisID,
		Requirements: sheetReq,
	}
	if sheetAnalysisFile != "" {
		text, err := readTextSource(cmd, sheetAnalysisFile)
		if err != nil {
			return err
		}
		req.AnalysisText = text
	}

	sheet, err := sheetService.Generate(commandContext(cmd), req)
	if err != nil {
		return wrapUserError(err)
	}

	if sheetJSON {
		return printJSON(cmd, sheetJSONOutput{
			ID:             sheet.ID,
			AnalysisID:     sheet.AnalysisID,
			ReferenceSheet: sheet.Text,
			ModelUsed:      sheet.ModelUsed,
			QualityScore:   sheet.Quality.String(),
			Pages:          toPagesJSON(sheet.Pages),
			Meta:           sheet.Meta(),
		})
	}

	printPages(cmd, sheet.Pages, sheetWidth)
	cmd.Println(sheet.Meta())
	cmd.Printf("Sheet ID: %s\n", sheet.ID)
	return nil
}
