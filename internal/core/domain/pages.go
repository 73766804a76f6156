package domain

// PageSeparator is the blank line placed between paragraphs and pages.
const PageSeparator = "\n\n"

// PagePair holds the two printable pages of a split text.
// Either page may be empty; order is significant.
type PagePair struct {
	// First is the text shown in the first page region.
	First string `json:"page1"`

	// Second is the text shown in the second page region.
	Second string `json:"page2"`
}

// IsEmpty returns true if both pages are empty.
func (p PagePair) IsEmpty() bool {
	return p.First == "" && p.Second == ""
}

// HasSecondPage returns true if the text spilled onto a second page.
func (p PagePair) HasSecondPage() bool {
	return p.Second != ""
}

// Joined returns the pages joined by a blank line, skipping empty pages.
func (p PagePair) Joined() string {
	switch {
	case p.First == "":
		return p.Second
	case p.Second == "":
		return p.First
	default:
		return p.First + PageSeparator + p.Second
	}
}
