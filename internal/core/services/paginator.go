package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// Ensure Paginator implements the interface.
var _ driving.Paginator = (*Paginator)(nil)

var (
	// excessNewlines matches runs of three or more newlines.
	excessNewlines = regexp.MustCompile(`\n{3,}`)

	// paragraphBreak matches the blank-line boundary between paragraphs.
	paragraphBreak = regexp.MustCompile(`\n{2,}`)
)

// Paginator splits generated text into two printable pages.
// It holds no state and is safe for concurrent use.
type Paginator struct{}

// NewPaginator creates a new paginator.
func NewPaginator() *Paginator {
	return &Paginator{}
}

// Split implements driving.Paginator.
func (p *Paginator) Split(text string) domain.PagePair {
	return SplitIntoTwoPages(text)
}

// NormaliseText strips trailing whitespace from every line, collapses runs of
// three or more newlines to exactly two, and trims the whole text.
//
// Lines are trimmed before collapsing so that whitespace-only lines count as
// blank; this keeps NormaliseText idempotent.
func NormaliseText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	text = strings.Join(lines, "\n")
	text = excessNewlines.ReplaceAllString(text, domain.PageSeparator)
	return strings.TrimSpace(text)
}

// Paragraphs splits normalised text on blank lines, dropping fragments that
// hold only whitespace. Kept paragraphs are returned unchanged, indentation
// included.
func Paragraphs(normalised string) []string {
	parts := paragraphBreak.Split(normalised, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// SplitIntoTwoPages balances the paragraphs of text across two pages by
// character count. Paragraphs are never split, dropped or reordered.
//
// Text with zero or one paragraph is returned whole as the first page. With
// two or more paragraphs both pages are non-empty.
func SplitIntoTwoPages(text string) domain.PagePair {
	normalised := NormaliseText(text)
	paragraphs := Paragraphs(normalised)
	if len(paragraphs) <= 1 {
		return domain.PagePair{First: normalised}
	}

	split := balancedSplitIndex(paragraphs)

	return domain.PagePair{
		First:  strings.TrimSpace(strings.Join(paragraphs[:split], domain.PageSeparator)),
		Second: strings.TrimSpace(strings.Join(paragraphs[split:], domain.PageSeparator)),
	}
}

// balancedSplitIndex returns the index just past the first paragraph at which
// the running character count reaches half the total. If that would leave a
// page empty it falls back to the midpoint by paragraph count.
func balancedSplitIndex(paragraphs []string) int {
	total := 0
	for _, p := range paragraphs {
		total += utf8.RuneCountInString(p)
	}
	target := total / 2

	split := 0
	running := 0
	for i, p := range paragraphs {
		running += utf8.RuneCountInString(p)
		if running >= target {
			split = i + 1
			break
		}
	}

	if split <= 0 || split >= len(paragraphs) {
		split = (len(paragraphs) + 1) / 2
	}
	return split
}
