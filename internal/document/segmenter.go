// Package document splits raw SDS text into its numbered sections.
package document

import (
	"regexp"
	"strings"
)

// Section is one numbered block of an SDS document. Number is the textual
// numeral found at the header; numbers are not assumed contiguous.
type Section struct {
	Number  string
	Title   string
	Content string
}

// Header tokens look like "SECTION 4: First-aid measures" or
// "4. First-aid measures". A bare numeral followed by a title line also
// qualifies, which means coincidental numerals can produce spurious
// boundaries; that risk is accepted, not corrected.
var headerRe = regexp.MustCompile(`(?mi)^[ \t]*(?:SECTION[ \t]+)?(\d{1,2})(?:[:.][ \t]*|[ \t]+)(\S[^\n]*)$`)

// Segment scans text for section headers and returns the sections keyed by
// their numeral. Content runs from the end of the title line to the next
// header or end of text. When the same numeral appears twice, the later
// occurrence wins. Pure function: identical text yields identical output.
func Segment(text string) map[string]Section {
	sections := make(map[string]Section)

	locs := headerRe.FindAllStringSubmatchIndex(text, -1)
	for i, m := range locs {
		number := text[m[2]:m[3]]
		title := strings.TrimSpace(text[m[4]:m[5]])

		start := m[1] // end of the header line
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(text[start:end])

		sections[number] = Section{
			Number:  number,
			Title:   title,
			Content: content,
		}
	}
	return sections
}
