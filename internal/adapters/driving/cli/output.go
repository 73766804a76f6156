package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// userError shows the user-facing message while keeping the cause for errors.Is.
type userError struct {
	err error
}

func (e *userError) Error() string { return domain.UserMessage(e.err) }
func (e *userError) Unwrap() error { return e.err }

func wrapUserError(err error) error {
	if err == nil {
		return nil
	}
	return &userError{err: err}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// outputWidth returns the width for page regions: the flag if set,
// else the terminal width, else the default.
func outputWidth(cmd *cobra.Command, flagWidth int) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return styles.DefaultPagesWidth
}

func stdoutIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// stdinIsTerminal reports whether the command reads from an interactive terminal.
func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readTextSource reads a file path, or the command's stdin for "-".
func readTextSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// pagesJSON is the JSON shape of a page pair in command output.
type pagesJSON struct {
	Page1 string `json:"page1"`
	Page2 string `json:"page2"`
}

func toPagesJSON(p domain.PagePair) pagesJSON {
	return pagesJSON{Page1: p.First, Page2: p.Second}
}

func printPages(cmd *cobra.Command, pages domain.PagePair, width int) {
	s := styles.PrintStyles()
	if stdoutIsTerminal(cmd) {
		s = styles.DefaultStyles()
	}
	cmd.Println(s.RenderPages(pages, outputWidth(cmd, width)))
}
