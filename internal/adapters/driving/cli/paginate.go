package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

var (
	paginateJSON    bool
	paginateWidth   int
	paginateSheetID string
)

var paginateCmd = &cobra.Command{
	Use:   "paginate [FILE|-]",
	Short: "Split text into two printable pages",
	Long: `Normalises the text and splits it at a paragraph boundary into two
pages of roughly equal length.

The text is read from FILE, or from stdin with - or when input is piped.
With no input, or with --sheet, a stored reference sheet is split again.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaginate,
}

func init() {
	paginateCmd.Flags().BoolVar(&paginateJSON, "json", false, "output the pages as JSON")
	paginateCmd.Flags().IntVar(&paginateWidth, "width", 0, "total width of the page regions (default: terminal width)")
	paginateCmd.Flags().StringVar(&paginateSheetID, "sheet", "", "split a stored sheet by ID")
	rootCmd.AddCommand(paginateCmd)
}

func runPaginate(cmd *cobra.Command, args []string) error {
	pages, err := resolvePages(cmd, args)
	if err != nil {
		return err
	}

	if paginateJSON {
		return printJSON(cmd, toPagesJSON(pages))
	}
	printPages(cmd, pages, paginateWidth)
	return nil
}

func resolvePages(cmd *cobra.Command, args []string) (domain.PagePair, error) {
	useStored := paginateSheetID != "" || (len(args) == 0 && stdinIsTerminal(cmd))
	if useStored {
		if sheetService == nil {
			return domain.PagePair{}, errors.New("sheet service not configured")
		}
		pages, err := sheetService.Paginate(commandContext(cmd), paginateSheetID)
		if err != nil {
			return domain.PagePair{}, wrapUserError(err)
		}
		return pages, nil
	}

	if paginator == nil {
		return domain.PagePair{}, errors.New("paginator not configured")
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}
	text, err := readTextSource(cmd, source)
	if err != nil {
		return domain.PagePair{}, err
	}

	pages := paginator.Split(text)
	if pages.IsEmpty() {
		return domain.PagePair{}, fmt.Errorf("%w: nothing to paginate", domain.ErrEmptyContent)
	}
	return pages, nil
}
