package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

const (
	// DefaultPagesWidth is used when the terminal width is unknown.
	DefaultPagesWidth = 80

	// minSideBySideWidth is the narrowest width that still fits two regions.
	minSideBySideWidth = 40

	pageGap     = 1
	emptyPage   = "(empty)"
	borderWidth = 2
)

// RenderPages draws the two pages as fixed regions within width columns.
// The regions sit side by side, or stacked when width is too narrow.
func (s *Styles) RenderPages(pages domain.PagePair, width int) string {
	if width <= 0 {
		width = DefaultPagesWidth
	}

	if width < minSideBySideWidth {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.renderPage("Page 1", pages.First, width),
			s.renderPage("Page 2", pages.Second, width),
		)
	}

	paneWidth := (width - pageGap) / 2
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.renderPage("Page 1", pages.First, paneWidth),
		lipgloss.NewStyle().Width(pageGap).Render(""),
		s.renderPage("Page 2", pages.Second, paneWidth),
	)
}

func (s *Styles) renderPage(title, text string, width int) string {
	body := text
	if body == "" {
		body = s.Muted.Render(emptyPage)
	}

	inner := width - borderWidth
	if inner < 1 {
		inner = 1
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.PageTitle.Render(title),
		s.Page.Width(inner).Render(body),
	)
}
