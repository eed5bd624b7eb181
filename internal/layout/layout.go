// Package layout renders a paper directly to a two-column IEEE-style PDF
// using the PDF core fonts. It needs no external tools and serves as the
// fallback when the typesetting engine is unavailable.
//
// Rendering runs in two passes. The header block is measured in isolation
// at full content width; its height, plus HeaderBuffer, sizes the header
// frame of the first page. The whole story is then flowed through the
// first-page frames and repeated continuation pages. A header taller than
// the page body continues at full width on following pages, and the columns
// begin under its end.
package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-paper2pdf/internal/document"
)

// ErrRender is returned when the PDF writer fails.
var ErrRender = errors.New("PDF rendering failed")

const producer = "go-paper2pdf"

// Option configures a Renderer.
type Option func(*Renderer)

// WithCreationDate fixes the document timestamps, making output byte-stable.
func WithCreationDate(t time.Time) Option {
	return func(r *Renderer) {
		r.created = t
	}
}

// WithCompression toggles stream compression.
func WithCompression(on bool) Option {
	return func(r *Renderer) {
		r.compress = on
	}
}

// Renderer produces PDF bytes from a paper.
type Renderer struct {
	created  time.Time
	compress bool
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Compile-time interface check.
var _ document.Renderer = (*Renderer)(nil)

// HeaderHeight measures the header block at full content width and adds
// HeaderBuffer. The result depends only on p.
func HeaderHeight(p *document.Paper) float64 {
	return measureHeader(newCanvas(newDocument()), HeaderElements(p))
}

func measureHeader(m Measurer, header []Element) float64 {
	width := ContentWidth()
	h := HeaderBuffer
	for _, el := range header {
		h += el.Height(m, width)
	}
	return h
}

// Paginate measures the header and flows the full story, returning the
// resulting pages without drawing them.
func Paginate(p *document.Paper) ([]Page, error) {
	m := newCanvas(newDocument())

	header := HeaderElements(p)
	height := measureHeader(m, header)
	if height > BodyHeight() {
		return paginateLongHeader(m, header, BodyElements(p))
	}
	frames := NewFrameSet(height)

	story := make([]Element, 0, len(header)+1)
	story = append(story, header...)
	story = append(story, FrameBreak{})
	story = append(story, BodyElements(p)...)

	return Flow(m, frames.First, frames.Normal, story)
}

// paginateLongHeader lays out a header block taller than the page body. The
// header flows at full width over as many pages as it needs, and the columns
// start below it on the last of those pages.
func paginateLongHeader(m Measurer, header, body []Element) ([]Page, error) {
	full := HeaderPageTemplate()
	pages, err := Flow(m, full, full, header)
	if err != nil {
		return nil, err
	}

	last := &pages[len(pages)-1]
	used := 0.0
	for _, pl := range last.Placements {
		used = max(used, pl.Y+pl.Element.Height(m, pl.W)-MarginTop)
	}

	frames := NewFrameSet(used + HeaderBuffer)
	columns := PageTemplate{ID: frames.First.ID, Frames: frames.First.Frames[1:]}
	rest, err := Flow(m, columns, frames.Normal, body)
	if err != nil {
		return nil, err
	}

	last.Placements = append(last.Placements, rest[0].Placements...)
	return append(pages, rest[1:]...), nil
}

// Render implements document.Renderer.
func (r *Renderer) Render(ctx context.Context, p *document.Paper) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := Paginate(p)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := newDocument()
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(p.DisplayTitle(), true)
	pdf.SetSubject("IEEE conference paper", false)
	pdf.SetCreator(producer, false)
	pdf.SetProducer(producer, false)
	if authors := authorList(p.Authors); authors != "" {
		pdf.SetAuthor(authors, true)
	}
	if !r.created.IsZero() {
		pdf.SetCreationDate(r.created)
		pdf.SetModificationDate(r.created)
	}

	c := newCanvas(pdf)
	for _, page := range pages {
		pdf.AddPage()
		c.cur = Font{}
		for _, pl := range page.Placements {
			pl.Element.Draw(c, pl.X, pl.Y, pl.W)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func authorList(authors []document.Author) string {
	var b bytes.Buffer
	for _, a := range authors {
		name := a.FullName()
		if name == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
	}
	return b.String()
}
