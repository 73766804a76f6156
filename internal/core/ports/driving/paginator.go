package driving

import "github.com/custodia-labs/refsheet-cli/internal/core/domain"

// Paginator splits generated text into two printable pages.
type Paginator interface {
	// Split normalises text and balances its paragraphs across two pages.
	// It never fails; text with at most one paragraph lands on the first page.
	Split(text string) domain.PagePair
}
