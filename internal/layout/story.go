package layout

import (
	"strconv"
	"strings"

	"github.com/alnah/go-paper2pdf/internal/document"
	"github.com/alnah/go-paper2pdf/internal/numbering"
)

// Fonts.
var (
	fontRoman      = Font{Family: fontFamily, Size: 10}
	fontBold       = Font{Family: fontFamily, Style: "B", Size: 10}
	fontBoldItalic = Font{Family: fontFamily, Style: "BI", Size: 10}
	fontTitle      = Font{Family: fontFamily, Style: "B", Size: 24}
	fontNote       = Font{Family: fontFamily, Style: "I", Size: 8}
	fontNotice     = Font{Family: fontFamily, Style: "I", Size: 10}
	fontAuthor     = Font{Family: fontFamily, Size: 11}
	fontOrdinal    = Font{Family: fontFamily, Size: 7}
	fontAffil      = Font{Family: fontFamily, Style: "I", Size: 10}
	fontDropCap    = Font{Family: fontFamily, Style: "B", Size: 20}
)

// Paragraph styles.
var (
	styleTitle    = ParaStyle{Leading: 28, Align: AlignCenter, SpaceAfter: 6}
	styleSubtitle = ParaStyle{Leading: 10, Align: AlignCenter, SpaceAfter: 12}
	styleNotice   = ParaStyle{Leading: 12, Align: AlignCenter, SpaceAfter: 6}
	styleAuthor   = ParaStyle{Leading: 13, Align: AlignCenter}
	styleAffil    = ParaStyle{Leading: 12, Align: AlignCenter}
	styleBody     = ParaStyle{Leading: 12, Align: AlignJustify}
	styleHeading  = ParaStyle{Leading: 12, Align: AlignCenter, SpaceBefore: 12, SpaceAfter: 6}
)

// Vertical spacing between blocks.
const (
	spaceAfterFunding   = 10
	spaceAfterAuthors   = 15
	spaceAfterAbstract  = 6
	spaceAfterKeywords  = 12
	spaceAfterSection   = 10
	spaceAfterReference = 4

	authorPaddingX      = 2
	authorPaddingBottom = 10
	ordinalRise         = 3.5
)

// Labels.
const (
	abstractLabel   = "Abstract"
	keywordsLabel   = "Index Terms"
	referencesTitle = "REFERENCES"
	emDash          = "—"
)

// HeaderElements returns the full-width title block: title, subtitle note,
// optional notice and funding line, author grid, abstract and keywords.
func HeaderElements(p *document.Paper) []Element {
	els := []Element{
		NewParagraph(styleTitle, Run{Text: p.DisplayTitle() + "*", Font: fontTitle}),
		NewParagraph(styleSubtitle, Run{Text: "*" + document.SubtitleNote, Font: fontNote}),
	}

	if notice := strings.TrimSpace(p.Notice); notice != "" {
		els = append(els, NewParagraph(styleNotice, Run{Text: notice, Font: fontNotice}))
	}
	if funding := strings.TrimSpace(p.Funding); funding != "" {
		els = append(els, NewParagraph(styleSubtitle, Run{Text: "Funding: " + funding, Font: fontNote}))
	}
	els = append(els, Spacer{H: spaceAfterFunding})

	if rows := document.AuthorRows(p.Authors); rows != nil {
		els = append(els, authorTable(rows), Spacer{H: spaceAfterAuthors})
	}

	if abstract := strings.TrimSpace(p.Abstract); abstract != "" {
		els = append(els,
			labeledParagraph(abstractLabel, strings.TrimPrefix(abstract, abstractLabel+emDash)),
			Spacer{H: spaceAfterAbstract},
		)
	}
	if keywords := strings.TrimSpace(p.Keywords); keywords != "" {
		keywords = strings.TrimPrefix(keywords, "Keywords"+emDash)
		els = append(els, labeledParagraph(keywordsLabel, keywords), Spacer{H: spaceAfterKeywords})
	}

	return els
}

// labeledParagraph renders a bold italic label joined to a bold body by an em dash.
func labeledParagraph(label, text string) *Paragraph {
	return NewParagraph(styleBody,
		Run{Text: label + emDash, Font: fontBoldItalic},
		Run{Text: strings.TrimSpace(text), Font: fontBold},
	)
}

func authorTable(rows [][]document.AuthorCell) *Table {
	t := &Table{
		Columns:       document.AuthorsPerRow,
		PaddingX:      authorPaddingX,
		PaddingBottom: authorPaddingBottom,
	}
	for _, row := range rows {
		cells := make([][]Element, 0, len(row))
		for _, c := range row {
			cells = append(cells, authorCell(c))
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func authorCell(c document.AuthorCell) []Element {
	if c.Empty {
		return nil
	}
	a := c.Author

	name := []Run{
		{Text: strconv.Itoa(c.Ordinal), Font: fontAuthor},
		{Text: numbering.OrdinalSuffix(c.Ordinal), Font: fontOrdinal, Rise: ordinalRise},
	}
	if full := a.FullName(); full != "" {
		name = append(name, Run{Text: " " + full, Font: fontAuthor})
	}
	if m := strings.TrimSpace(a.Membership); m != "" {
		name = append(name, Run{Text: ", " + m, Font: Font{Family: fontFamily, Style: "I", Size: fontAuthor.Size}})
	}

	var affil []string
	for _, s := range []string{a.Department, a.Organization, a.CityCountry, a.Email} {
		if s = strings.TrimSpace(s); s != "" {
			affil = append(affil, s)
		}
	}

	cell := []Element{NewParagraph(styleAuthor, name...)}
	if len(affil) > 0 {
		cell = append(cell, NewParagraph(styleAffil, Run{Text: strings.Join(affil, "\n"), Font: fontAffil}))
	}
	return cell
}

// BodyElements returns the two-column story: numbered sections followed by
// the reference list.
func BodyElements(p *document.Paper) []Element {
	var els []Element

	for i, s := range p.Sections {
		els = append(els, sectionHeading(i+1, s.Title))
		if body := NewParagraph(styleBody, SectionRuns(p, i)...); !body.Empty() {
			els = append(els, body)
		}
		els = append(els, Spacer{H: spaceAfterSection})
	}

	refs := p.ReferenceEntries()
	if len(refs) == 0 {
		return els
	}
	els = append(els, NewParagraph(styleHeading, Run{Text: referencesTitle, Font: fontRoman}))
	for i, ref := range refs {
		text := "[" + strconv.Itoa(i+1) + "] " + ref.Text
		els = append(els, NewParagraph(styleBody, Run{Text: text, Font: fontRoman}), Spacer{H: spaceAfterReference})
	}
	return els
}

// sectionHeading renders "IV. TITLE".
func sectionHeading(n int, title string) *Paragraph {
	text := numbering.ToRoman(n) + ". " + strings.ToUpper(strings.TrimSpace(title))
	return NewParagraph(styleHeading, Run{Text: text, Font: fontRoman})
}

// SectionRuns returns the body runs of section i. With drop cap enabled the
// first section opens with an enlarged bold initial followed by the rest of
// the content unchanged.
func SectionRuns(p *document.Paper, i int) []Run {
	content := p.Sections[i].Content
	if first, _ := document.SplitFirstWord(content); !p.DropCapEligible(i) || first == "" {
		return []Run{{Text: content, Font: fontRoman}}
	}

	initial, remainder := document.SplitInitial(content)
	runs := []Run{{Text: initial, Font: fontDropCap}}
	if remainder != "" {
		runs = append(runs, Run{Text: remainder, Font: fontRoman})
	}
	return runs
}
