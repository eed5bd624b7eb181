// Package document holds the paper model consumed by both renderers and the
// decisions they share: author row bucketing, drop-cap eligibility and
// reference splitting.
package document

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTitle replaces an empty paper title.
const DefaultTitle = "Untitled Paper"

// SubtitleNote is the fixed disclaimer printed under the title.
const SubtitleNote = "Note: Sub-titles are not captured for https://ieeexplore.ieee.org and should not be used"

// AuthorsPerRow is the width of the author grid.
const AuthorsPerRow = 3

// Renderer turns a paper into bytes: LaTeX source for the markup renderer,
// a PDF for the layout renderer.
type Renderer interface {
	Render(ctx context.Context, p *Paper) ([]byte, error)
}

// Paper is the renderer-facing view of a submission.
type Paper struct {
	Title      string
	Funding    string
	Notice     string
	DropCap    bool
	Authors    []Author
	Abstract   string
	Keywords   string
	Sections   []Section
	References string
}

// Author is one entry of the author block.
type Author struct {
	FirstName    string
	LastName     string
	Membership   string
	Department   string
	Organization string
	CityCountry  string
	Email        string
}

// FullName joins first and last name, skipping empty parts.
func (a Author) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// Section is a titled body of free text.
type Section struct {
	Title   string
	Content string
}

// DisplayTitle returns the title, or DefaultTitle when it is blank.
func (p *Paper) DisplayTitle() string {
	if strings.TrimSpace(p.Title) == "" {
		return DefaultTitle
	}
	return p.Title
}

// DropCapEligible reports whether section at index i gets the drop-cap
// treatment. Only the first section qualifies, and only with content.
func (p *Paper) DropCapEligible(i int) bool {
	return p.DropCap && i == 0 && i < len(p.Sections) && p.Sections[0].Content != ""
}

// AuthorCell is one slot of the author grid. Padding cells have Empty set.
type AuthorCell struct {
	Ordinal int // 1-based position in the author list
	Author  Author
	Empty   bool
}

// AuthorRows buckets authors into rows of AuthorsPerRow, padding the final
// row with empty cells. Returns nil when there are no authors.
func AuthorRows(authors []Author) [][]AuthorCell {
	if len(authors) == 0 {
		return nil
	}

	rows := make([][]AuthorCell, 0, (len(authors)+AuthorsPerRow-1)/AuthorsPerRow)
	row := make([]AuthorCell, 0, AuthorsPerRow)
	for i, a := range authors {
		row = append(row, AuthorCell{Ordinal: i + 1, Author: a})
		if len(row) == AuthorsPerRow {
			rows = append(rows, row)
			row = make([]AuthorCell, 0, AuthorsPerRow)
		}
	}
	if len(row) > 0 {
		for len(row) < AuthorsPerRow {
			row = append(row, AuthorCell{Empty: true})
		}
		rows = append(rows, row)
	}
	return rows
}

// SplitFirstWord splits content at its first whitespace rune. The returned
// rest keeps that whitespace, so firstWord+rest == content.
func SplitFirstWord(content string) (firstWord, rest string) {
	i := strings.IndexFunc(content, unicode.IsSpace)
	if i < 0 {
		return content, ""
	}
	return content[:i], content[i:]
}

// SplitInitial returns the first rune of s and everything after it.
func SplitInitial(s string) (initial, remainder string) {
	if s == "" {
		return "", ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size], s[size:]
}

// Reference is a single bibliography entry.
type Reference struct {
	Key  string // citation key, empty when the caller supplied none
	Text string
}

const bibitemPrefix = `\bibitem{`

// ReferenceEntries splits the newline-delimited reference text into entries.
// Blank lines are discarded. A leading \bibitem{key} is lifted into Key.
func (p *Paper) ReferenceEntries() []Reference {
	return ParseReferences(p.References)
}

// ParseReferences is the free-function form of Paper.ReferenceEntries.
func ParseReferences(text string) []Reference {
	var refs []Reference
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		refs = append(refs, parseReference(line))
	}
	return refs
}

func parseReference(line string) Reference {
	if !strings.HasPrefix(line, bibitemPrefix) {
		return Reference{Text: line}
	}
	end := strings.IndexByte(line, '}')
	if end < 0 {
		return Reference{Text: line}
	}
	key := line[len(bibitemPrefix):end]
	return Reference{Key: key, Text: strings.TrimSpace(line[end+1:])}
}
